package postgres

import (
	"context"
	"database/sql"
	"time"

	"hearthshare-backend/internal/domain"
	"hearthshare-backend/internal/repository"
)

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

const memberColumns = `id, user_id, household_id, COALESCE(display_name, ''), role, equity_percentage, karma_score, monthly_karma, active, joined_at, left_at`

func (r *memberRepository) Create(ctx context.Context, m *domain.Member) error {
	query := `INSERT INTO household_members (user_id, household_id, display_name, role, equity_percentage, karma_score, monthly_karma, active, joined_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	return r.db.QueryRowContext(ctx, query, m.UserID, m.HouseholdID, m.DisplayName, m.Role, m.EquityPercentage, m.KarmaScore, m.MonthlyKarma, m.Active, m.JoinedAt).Scan(&m.ID)
}

func scanMember(row interface{ Scan(...any) error }) (*domain.Member, error) {
	m := &domain.Member{}
	var equity sql.NullFloat64
	var leftAt sql.NullTime
	err := row.Scan(&m.ID, &m.UserID, &m.HouseholdID, &m.DisplayName, &m.Role, &equity, &m.KarmaScore, &m.MonthlyKarma, &m.Active, &m.JoinedAt, &leftAt)
	if err != nil {
		return nil, err
	}
	if equity.Valid {
		m.EquityPercentage = &equity.Float64
	}
	if leftAt.Valid {
		m.LeftAt = &leftAt.Time
	}
	return m, nil
}

func (r *memberRepository) GetByID(ctx context.Context, id int32) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM household_members WHERE id = $1`
	return scanMember(r.db.QueryRowContext(ctx, query, id))
}

func (r *memberRepository) GetByHouseholdAndUser(ctx context.Context, householdID, userID int32) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM household_members WHERE household_id = $1 AND user_id = $2`
	return scanMember(r.db.QueryRowContext(ctx, query, householdID, userID))
}

func (r *memberRepository) GetActiveByUser(ctx context.Context, userID int32) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM household_members WHERE user_id = $1 AND active = true`
	return scanMember(r.db.QueryRowContext(ctx, query, userID))
}

func (r *memberRepository) listMembers(ctx context.Context, query string, args ...any) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (r *memberRepository) ListActiveByHousehold(ctx context.Context, householdID int32) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM household_members WHERE household_id = $1 AND active = true ORDER BY joined_at, id`
	return r.listMembers(ctx, query, householdID)
}

func (r *memberRepository) ListLeaderboard(ctx context.Context, householdID int32) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM household_members WHERE household_id = $1 AND active = true
	          ORDER BY monthly_karma DESC, karma_score DESC, joined_at ASC, id ASC`
	return r.listMembers(ctx, query, householdID)
}

func (r *memberRepository) CountActive(ctx context.Context, householdID int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM household_members WHERE household_id = $1 AND active = true`
	err := r.db.QueryRowContext(ctx, query, householdID).Scan(&count)
	return count, err
}

func (r *memberRepository) Update(ctx context.Context, m *domain.Member) error {
	query := `UPDATE household_members SET display_name=$1, role=$2, equity_percentage=$3, karma_score=$4, monthly_karma=$5, active=$6, joined_at=$7, left_at=$8 WHERE id=$9`
	_, err := r.db.ExecContext(ctx, query, m.DisplayName, m.Role, m.EquityPercentage, m.KarmaScore, m.MonthlyKarma, m.Active, m.JoinedAt, m.LeftAt, m.ID)
	return err
}
