package postgres

import (
	"context"
	"database/sql"
	"time"

	"hearthshare-backend/internal/domain"
	"hearthshare-backend/internal/repository"
)

type karmaRepository struct {
	db *sql.DB
}

func NewKarmaRepository(db *sql.DB) repository.KarmaRepository {
	return &karmaRepository{db: db}
}

// CreateEventAndApply appends the event and bumps both karma counters in one
// transaction so the counters can never drift from the log by a partial
// write. The event log stays authoritative either way.
func (r *karmaRepository) CreateEventAndApply(ctx context.Context, event *domain.KarmaEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	insertQuery := `INSERT INTO karma_events (household_id, user_id, event_type, karma_change, description, related_bill_id, created_at)
	                VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err = tx.QueryRowContext(ctx, insertQuery, event.HouseholdID, event.UserID, event.EventType, event.KarmaChange, event.Description, event.RelatedBillID, event.CreatedAt).Scan(&event.ID)
	if err != nil {
		return err
	}

	updateQuery := `UPDATE household_members
	                SET karma_score = karma_score + $1, monthly_karma = monthly_karma + $1
	                WHERE household_id = $2 AND user_id = $3 AND active = true`
	if _, err := tx.ExecContext(ctx, updateQuery, event.KarmaChange, event.HouseholdID, event.UserID); err != nil {
		return err
	}

	return tx.Commit()
}

const karmaEventColumns = `id, household_id, user_id, event_type, karma_change, COALESCE(description, ''), related_bill_id, created_at`

func (r *karmaRepository) listEvents(ctx context.Context, query string, args ...any) ([]domain.KarmaEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.KarmaEvent
	for rows.Next() {
		var e domain.KarmaEvent
		if err := rows.Scan(&e.ID, &e.HouseholdID, &e.UserID, &e.EventType, &e.KarmaChange, &e.Description, &e.RelatedBillID, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *karmaRepository) ListEventsByUser(ctx context.Context, householdID, userID int32) ([]domain.KarmaEvent, error) {
	query := `SELECT ` + karmaEventColumns + ` FROM karma_events WHERE household_id = $1 AND user_id = $2 ORDER BY created_at DESC`
	return r.listEvents(ctx, query, householdID, userID)
}

func (r *karmaRepository) ListMonthlyEvents(ctx context.Context, householdID int32, period string) ([]domain.KarmaEvent, error) {
	query := `SELECT ` + karmaEventColumns + ` FROM karma_events WHERE household_id = $1 AND to_char(created_at, 'YYYY-MM') = $2 ORDER BY created_at`
	return r.listEvents(ctx, query, householdID, period)
}

func (r *karmaRepository) BreakdownByType(ctx context.Context, householdID, userID int32) (map[domain.KarmaEventType]int32, error) {
	query := `SELECT event_type, COALESCE(SUM(karma_change), 0) FROM karma_events WHERE household_id = $1 AND user_id = $2 GROUP BY event_type`
	rows, err := r.db.QueryContext(ctx, query, householdID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	breakdown := make(map[domain.KarmaEventType]int32)
	for rows.Next() {
		var eventType domain.KarmaEventType
		var total int32
		if err := rows.Scan(&eventType, &total); err != nil {
			return nil, err
		}
		breakdown[eventType] = total
	}
	return breakdown, rows.Err()
}

// ResetMonthly zeroes every monthly counter in a single statement, so a
// concurrent award lands either entirely before or entirely after the reset.
func (r *karmaRepository) ResetMonthly(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE household_members SET monthly_karma = 0 WHERE monthly_karma <> 0`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *karmaRepository) SaveSnapshots(ctx context.Context, snapshots []domain.LeaderboardSnapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO leaderboard_snapshots (household_id, member_id, period, rank)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (household_id, member_id, period) DO UPDATE SET rank = EXCLUDED.rank`
	for _, s := range snapshots {
		if _, err := tx.ExecContext(ctx, query, s.HouseholdID, s.MemberID, s.Period, s.Rank); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *karmaRepository) GetSnapshots(ctx context.Context, householdID int32, period string) ([]domain.LeaderboardSnapshot, error) {
	query := `SELECT household_id, member_id, period, rank FROM leaderboard_snapshots WHERE household_id = $1 AND period = $2`
	rows, err := r.db.QueryContext(ctx, query, householdID, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []domain.LeaderboardSnapshot
	for rows.Next() {
		var s domain.LeaderboardSnapshot
		if err := rows.Scan(&s.HouseholdID, &s.MemberID, &s.Period, &s.Rank); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
