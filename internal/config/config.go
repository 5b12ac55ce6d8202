package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Household HouseholdConfig `yaml:"household"`
	Karma     KarmaConfig     `yaml:"karma"`
	Points    PointsConfig    `yaml:"points"`
	Swap      SwapConfig      `yaml:"swap"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// SMTPConfig contains email service settings
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// HouseholdConfig contains household membership settings
type HouseholdConfig struct {
	DefaultMaxMembers int32 `yaml:"default_max_members"`
}

// KarmaConfig contains karma point values per event type
type KarmaConfig struct {
	BillUploadedPoints  int32 `yaml:"bill_uploaded_points"`
	BillPaidPoints      int32 `yaml:"bill_paid_points"`
	SwapCompletedPoints int32 `yaml:"swap_completed_points"`
	DisputeWonPoints    int32 `yaml:"dispute_won_points"`
	MemberJoinedPoints  int32 `yaml:"member_joined_points"`
}

// PointsConfig contains spendable-points economics
type PointsConfig struct {
	PerCompletedSwap int32 `yaml:"per_completed_swap"`
	FirstSwapBonus   int32 `yaml:"first_swap_of_day_bonus"`
	FeeWaiverCost    int32 `yaml:"fee_waiver_cost"`
}

// SwapConfig contains eligibility thresholds for the swap coordinator
type SwapConfig struct {
	MinSuccessfulSwaps int32 `yaml:"min_successful_swaps"` // to request or offer help
	OfferMinPoints     int32 `yaml:"offer_min_points"`     // extra gate to offer help
	MaxActiveRequests  int32 `yaml:"max_active_requests"`  // concurrent requests per user
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ResetMonthlyKarma     string `yaml:"reset_monthly_karma"`
	ExpireSwaps           string `yaml:"expire_swaps"`
	FailUnpaidMatches     string `yaml:"fail_unpaid_matches"`
	DeactivateBoosts      string `yaml:"deactivate_boosts"`
	ReconcileSwapFills    string `yaml:"reconcile_swap_fills"`
	ReconcilePointsCaches string `yaml:"reconcile_points_caches"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// SMTP
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.SMTP.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.SMTP.Port)
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.SMTP.User = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.SMTP.Password = val
	}
	if val := os.Getenv("SMTP_FROM"); val != "" {
		c.SMTP.From = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and applies defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// SMTP validation
	if c.SMTP.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.SMTP.Port)
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	// Household defaults
	if c.Household.DefaultMaxMembers == 0 {
		c.Household.DefaultMaxMembers = 10
	}

	// Karma defaults
	if c.Karma.BillUploadedPoints == 0 {
		c.Karma.BillUploadedPoints = 10
	}
	if c.Karma.BillPaidPoints == 0 {
		c.Karma.BillPaidPoints = 15
	}
	if c.Karma.SwapCompletedPoints == 0 {
		c.Karma.SwapCompletedPoints = 25
	}
	if c.Karma.DisputeWonPoints == 0 {
		c.Karma.DisputeWonPoints = 20
	}
	if c.Karma.MemberJoinedPoints == 0 {
		c.Karma.MemberJoinedPoints = 5
	}

	// Points defaults
	if c.Points.PerCompletedSwap == 0 {
		c.Points.PerCompletedSwap = 50
	}
	if c.Points.FirstSwapBonus == 0 {
		c.Points.FirstSwapBonus = 20
	}
	if c.Points.FeeWaiverCost == 0 {
		c.Points.FeeWaiverCost = 100
	}

	// Swap eligibility defaults
	if c.Swap.MinSuccessfulSwaps == 0 {
		c.Swap.MinSuccessfulSwaps = 2
	}
	if c.Swap.OfferMinPoints == 0 {
		c.Swap.OfferMinPoints = 300
	}
	if c.Swap.MaxActiveRequests == 0 {
		c.Swap.MaxActiveRequests = 2
	}

	// Scheduler defaults
	if c.Scheduler.ResetMonthlyKarma == "" {
		c.Scheduler.ResetMonthlyKarma = "0 0 0 1 * *" // 1st of month at 12 AM UTC
	}
	if c.Scheduler.ExpireSwaps == "" {
		c.Scheduler.ExpireSwaps = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.FailUnpaidMatches == "" {
		c.Scheduler.FailUnpaidMatches = "0 15 2 * * *" // 2:15 AM UTC
	}
	if c.Scheduler.DeactivateBoosts == "" {
		c.Scheduler.DeactivateBoosts = "0 */30 * * * *" // every 30 minutes
	}
	if c.Scheduler.ReconcileSwapFills == "" {
		c.Scheduler.ReconcileSwapFills = "0 0 3 * * *" // 3 AM UTC
	}
	if c.Scheduler.ReconcilePointsCaches == "" {
		c.Scheduler.ReconcilePointsCaches = "0 30 3 * * *" // 3:30 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
