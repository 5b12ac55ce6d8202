package postgres

import (
	"context"
	"database/sql"
	"time"

	"hearthshare-backend/internal/domain"
	"hearthshare-backend/internal/repository"
)

type pointsRepository struct {
	db *sql.DB
}

func NewPointsRepository(db *sql.DB) repository.PointsRepository {
	return &pointsRepository{db: db}
}

// Append inserts the ledger entry and applies its delta to the cached balance
// in one transaction. The entries remain authoritative; the user_points row
// is a materialized view that ReconcileBalances can rebuild.
func (r *pointsRepository) Append(ctx context.Context, entry *domain.PointsLedgerEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertEntry(ctx, tx, entry); err != nil {
		return err
	}

	updateQuery := `INSERT INTO user_points (user_id, balance)
	                VALUES ($1, $2)
	                ON CONFLICT (user_id) DO UPDATE SET balance = user_points.balance + $2`
	if _, err := tx.ExecContext(ctx, updateQuery, entry.UserID, entry.DeltaPoints); err != nil {
		return err
	}

	return tx.Commit()
}

// AppendIfBalanceAtLeast applies a debit only when the cached balance covers
// minBalance. The guard lives in the UPDATE's WHERE clause, so two
// concurrent debits racing over one remaining waiver can never both land.
func (r *pointsRepository) AppendIfBalanceAtLeast(ctx context.Context, entry *domain.PointsLedgerEntry, minBalance int32) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	updateQuery := `UPDATE user_points SET balance = balance + $1 WHERE user_id = $2 AND balance >= $3`
	result, err := tx.ExecContext(ctx, updateQuery, entry.DeltaPoints, entry.UserID, minBalance)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	if err := insertEntry(ctx, tx, entry); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

func insertEntry(ctx context.Context, tx *sql.Tx, entry *domain.PointsLedgerEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	query := `INSERT INTO points_ledger (user_id, delta_points, reason, related_swap_id, description, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return tx.QueryRowContext(ctx, query, entry.UserID, entry.DeltaPoints, entry.Reason, entry.RelatedSwapID, entry.Description, entry.CreatedAt).Scan(&entry.ID)
}

func (r *pointsRepository) GetBalance(ctx context.Context, userID int32) (int32, error) {
	var balance int32
	query := `SELECT COALESCE(balance, 0) FROM user_points WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return balance, err
}

func (r *pointsRepository) SumEntries(ctx context.Context, userID int32) (int32, error) {
	var sum int32
	query := `SELECT COALESCE(SUM(delta_points), 0) FROM points_ledger WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&sum)
	return sum, err
}

func (r *pointsRepository) SumPositiveEntries(ctx context.Context, userID int32) (int32, error) {
	var sum int32
	query := `SELECT COALESCE(SUM(delta_points), 0) FROM points_ledger WHERE user_id = $1 AND delta_points > 0`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&sum)
	return sum, err
}

func (r *pointsRepository) CountByReason(ctx context.Context, userID int32, reason domain.PointsReason) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM points_ledger WHERE user_id = $1 AND reason = $2`
	err := r.db.QueryRowContext(ctx, query, userID, reason).Scan(&count)
	return count, err
}

func (r *pointsRepository) List(ctx context.Context, userID int32, page, pageSize int32) ([]domain.PointsLedgerEntry, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, user_id, delta_points, reason, related_swap_id, COALESCE(description, ''), created_at
	          FROM points_ledger WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var count int32
	countQuery := `SELECT count(*) FROM points_ledger WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	var entries []domain.PointsLedgerEntry
	for rows.Next() {
		var e domain.PointsLedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.DeltaPoints, &e.Reason, &e.RelatedSwapID, &e.Description, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, count, rows.Err()
}

func (r *pointsRepository) GetLastSwapDate(ctx context.Context, userID int32) (*string, error) {
	var lastSwap sql.NullTime
	query := `SELECT last_swap_on FROM user_points WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&lastSwap)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !lastSwap.Valid {
		return nil, nil
	}
	date := lastSwap.Time.Format("2006-01-02")
	return &date, nil
}

func (r *pointsRepository) SetLastSwapDate(ctx context.Context, userID int32, date string) error {
	query := `INSERT INTO user_points (user_id, balance, last_swap_on)
	          VALUES ($1, 0, $2)
	          ON CONFLICT (user_id) DO UPDATE SET last_swap_on = EXCLUDED.last_swap_on`
	_, err := r.db.ExecContext(ctx, query, userID, date)
	return err
}

// ReconcileBalances rewrites every cached balance that drifted from its
// ledger sum. Returns the number of repaired rows.
func (r *pointsRepository) ReconcileBalances(ctx context.Context) (int64, error) {
	query := `UPDATE user_points up
	          SET balance = ledger.total
	          FROM (SELECT user_id, COALESCE(SUM(delta_points), 0) AS total FROM points_ledger GROUP BY user_id) AS ledger
	          WHERE up.user_id = ledger.user_id AND up.balance <> ledger.total`
	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
