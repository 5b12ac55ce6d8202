package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	httpapi "hearthshare-backend/internal/api/http"
	"hearthshare-backend/internal/config"
	"hearthshare-backend/internal/logger"
	"hearthshare-backend/internal/repository/postgres"
	"hearthshare-backend/internal/security"
	"hearthshare-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting HearthShare Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.SMTP)
	authSvc := service.NewAuthService(store.Users, tokenManager)
	userSvc := service.NewUserService(store.Users, store.Members)
	householdSvc := service.NewHouseholdService(
		store.Households,
		store.Members,
		store.Users,
		store.Karma,
		store.Notifications,
		emailSvc,
		cfg.Household,
		cfg.Karma,
	)
	splitSvc := service.NewSplitService(store.Households, store.Members)
	karmaSvc := service.NewKarmaService(store.Karma, store.Members, store.Households, cfg.Karma)
	pointsSvc := service.NewPointsService(store.Points, store.Swaps, cfg.Points)
	swapSvc := service.NewSwapService(
		store.Swaps,
		store.Users,
		store.Members,
		store.Karma,
		store.Notifications,
		pointsSvc,
		emailSvc,
		cfg.Swap,
		cfg.Karma,
	)
	noteSvc := service.NewNotificationService(store.Notifications)

	// Set up HTTP server
	server := httpapi.NewServer(
		authSvc,
		userSvc,
		householdSvc,
		splitSvc,
		karmaSvc,
		pointsSvc,
		swapSvc,
		noteSvc,
		tokenManager,
	)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), server.Router()); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
