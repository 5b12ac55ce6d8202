package postgres

import (
	"context"
	"database/sql"
	"time"

	"hearthshare-backend/internal/domain"
	"hearthshare-backend/internal/repository"
)

type swapRepository struct {
	db *sql.DB
}

func NewSwapRepository(db *sql.DB) repository.SwapRepository {
	return &swapRepository{db: db}
}

const swapColumns = `id, swap_type, status, organizer_user_id, target_bill_id, target_amount_cents, filled_amount_cents, min_contribution_cents, max_participants, group_id, execution_deadline, tier_required, created_at, updated_at`

func (r *swapRepository) Create(ctx context.Context, s *domain.MultiPartySwap) error {
	query := `INSERT INTO swaps (swap_type, status, organizer_user_id, target_bill_id, target_amount_cents, filled_amount_cents, min_contribution_cents, max_participants, group_id, execution_deadline, tier_required, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	return r.db.QueryRowContext(ctx, query, s.SwapType, s.Status, s.OrganizerUserID, s.TargetBillID, s.TargetAmountCents, s.FilledAmountCents, s.MinContribution, s.MaxParticipants, s.GroupID, s.ExecutionDeadline, s.TierRequired, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
}

func scanSwap(row interface{ Scan(...any) error }) (*domain.MultiPartySwap, error) {
	s := &domain.MultiPartySwap{}
	var deadline sql.NullTime
	err := row.Scan(&s.ID, &s.SwapType, &s.Status, &s.OrganizerUserID, &s.TargetBillID, &s.TargetAmountCents, &s.FilledAmountCents, &s.MinContribution, &s.MaxParticipants, &s.GroupID, &deadline, &s.TierRequired, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if deadline.Valid {
		s.ExecutionDeadline = &deadline.Time
	}
	return s, nil
}

func (r *swapRepository) GetByID(ctx context.Context, id int32) (*domain.MultiPartySwap, error) {
	query := `SELECT ` + swapColumns + ` FROM swaps WHERE id = $1`
	return scanSwap(r.db.QueryRowContext(ctx, query, id))
}

func (r *swapRepository) Update(ctx context.Context, s *domain.MultiPartySwap) error {
	query := `UPDATE swaps SET swap_type=$1, status=$2, target_bill_id=$3, target_amount_cents=$4, filled_amount_cents=$5, min_contribution_cents=$6, max_participants=$7, group_id=$8, execution_deadline=$9, tier_required=$10, updated_at=$11 WHERE id=$12`
	s.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query, s.SwapType, s.Status, s.TargetBillID, s.TargetAmountCents, s.FilledAmountCents, s.MinContribution, s.MaxParticipants, s.GroupID, s.ExecutionDeadline, s.TierRequired, s.UpdatedAt, s.ID)
	return err
}

// CompareAndSetStatus moves the status only when the stored value still
// matches from; a concurrent transition makes this a no-op returning false.
func (r *swapRepository) CompareAndSetStatus(ctx context.Context, swapID int32, from, to domain.SwapStatus) (bool, error) {
	query := `UPDATE swaps SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, to, time.Now(), swapID, from)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *swapRepository) ListByOrganizer(ctx context.Context, organizerID int32, page, pageSize int32) ([]domain.MultiPartySwap, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + swapColumns + ` FROM swaps WHERE organizer_user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, organizerID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var count int32
	countQuery := `SELECT count(*) FROM swaps WHERE organizer_user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, organizerID).Scan(&count); err != nil {
		return nil, 0, err
	}

	var swaps []domain.MultiPartySwap
	for rows.Next() {
		s, err := scanSwap(rows)
		if err != nil {
			return nil, 0, err
		}
		swaps = append(swaps, *s)
	}
	return swaps, count, rows.Err()
}

// AddParticipant relies on the (swap_id, user_id) unique constraint: a
// duplicate join is swallowed by ON CONFLICT and reported as false, making
// concurrent joins by the same user idempotent.
func (r *swapRepository) AddParticipant(ctx context.Context, p *domain.SwapParticipant) (bool, error) {
	query := `INSERT INTO swap_participants (swap_id, user_id, bill_id, contribution_cents, status, fee_paid, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (swap_id, user_id) DO NOTHING
	          RETURNING id`
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	err := r.db.QueryRowContext(ctx, query, p.SwapID, p.UserID, p.BillID, p.ContributionCents, p.Status, p.FeePaid, p.CreatedAt).Scan(&p.ID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

const participantColumns = `id, swap_id, user_id, bill_id, contribution_cents, status, fee_paid, COALESCE(screenshot_url, ''), screenshot_verified, completed_at, rating, created_at`

func scanParticipant(row interface{ Scan(...any) error }) (*domain.SwapParticipant, error) {
	p := &domain.SwapParticipant{}
	var completedAt sql.NullTime
	err := row.Scan(&p.ID, &p.SwapID, &p.UserID, &p.BillID, &p.ContributionCents, &p.Status, &p.FeePaid, &p.ScreenshotURL, &p.ScreenshotVerified, &completedAt, &p.Rating, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		p.CompletedAt = &completedAt.Time
	}
	return p, nil
}

func (r *swapRepository) GetParticipant(ctx context.Context, swapID, userID int32) (*domain.SwapParticipant, error) {
	query := `SELECT ` + participantColumns + ` FROM swap_participants WHERE swap_id = $1 AND user_id = $2`
	return scanParticipant(r.db.QueryRowContext(ctx, query, swapID, userID))
}

func (r *swapRepository) ListParticipants(ctx context.Context, swapID int32) ([]domain.SwapParticipant, error) {
	query := `SELECT ` + participantColumns + ` FROM swap_participants WHERE swap_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, swapID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []domain.SwapParticipant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, *p)
	}
	return participants, rows.Err()
}

func (r *swapRepository) UpdateParticipant(ctx context.Context, p *domain.SwapParticipant) error {
	query := `UPDATE swap_participants SET bill_id=$1, contribution_cents=$2, status=$3, fee_paid=$4, screenshot_url=$5, screenshot_verified=$6, completed_at=$7, rating=$8 WHERE id=$9`
	_, err := r.db.ExecContext(ctx, query, p.BillID, p.ContributionCents, p.Status, p.FeePaid, p.ScreenshotURL, p.ScreenshotVerified, p.CompletedAt, p.Rating, p.ID)
	return err
}

// RecomputeFilledAmount rewrites filled_amount_cents from the contributions
// that count toward fill, rather than trusting the cached counter.
func (r *swapRepository) RecomputeFilledAmount(ctx context.Context, swapID int32) (int64, error) {
	var filled int64
	query := `UPDATE swaps SET filled_amount_cents = (
	            SELECT COALESCE(SUM(contribution_cents), 0) FROM swap_participants
	            WHERE swap_id = $1 AND status IN ('CONFIRMED', 'PAID', 'VERIFIED')
	          ), updated_at = $2
	          WHERE id = $1
	          RETURNING filled_amount_cents`
	err := r.db.QueryRowContext(ctx, query, swapID, time.Now()).Scan(&filled)
	return filled, err
}

func (r *swapRepository) CountCompletedByUser(ctx context.Context, userID int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM swap_participants sp
	          JOIN swaps s ON s.id = sp.swap_id
	          WHERE sp.user_id = $1 AND s.status = 'COMPLETED'`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

func (r *swapRepository) CountActiveRequestsByUser(ctx context.Context, userID int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM swaps WHERE organizer_user_id = $1 AND status IN ('PENDING', 'RECRUITING', 'FILLED', 'IN_PROGRESS')`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

func (r *swapRepository) CreateBoost(ctx context.Context, b *domain.SwapBoost) error {
	query := `INSERT INTO swap_boosts (swap_id, multiplier, active, expires_at, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	return r.db.QueryRowContext(ctx, query, b.SwapID, b.Multiplier, b.Active, b.ExpiresAt, b.CreatedAt).Scan(&b.ID)
}

func (r *swapRepository) GetActiveBoost(ctx context.Context, swapID int32) (*domain.SwapBoost, error) {
	b := &domain.SwapBoost{}
	query := `SELECT id, swap_id, multiplier, active, expires_at, created_at FROM swap_boosts WHERE swap_id = $1 AND active = true ORDER BY created_at DESC LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, swapID).Scan(&b.ID, &b.SwapID, &b.Multiplier, &b.Active, &b.ExpiresAt, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *swapRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE swaps SET status = 'EXPIRED', updated_at = $1
	          WHERE execution_deadline IS NOT NULL AND execution_deadline < $1
	            AND status IN ('PENDING', 'RECRUITING')`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// FailUnpaidMatches fails matched swaps whose deadline passed while some
// counted contribution never reached PAID.
func (r *swapRepository) FailUnpaidMatches(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE swaps SET status = 'FAILED', updated_at = $1
	          WHERE execution_deadline IS NOT NULL AND execution_deadline < $1
	            AND status IN ('FILLED', 'IN_PROGRESS')
	            AND EXISTS (
	              SELECT 1 FROM swap_participants sp
	              WHERE sp.swap_id = swaps.id AND sp.status = 'CONFIRMED'
	            )`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *swapRepository) DeactivateExpiredBoosts(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE swap_boosts SET active = false WHERE active = true AND expires_at < $1`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ReconcileFilledAmounts repairs any fill-counter drift across all
// non-terminal swaps.
func (r *swapRepository) ReconcileFilledAmounts(ctx context.Context) (int64, error) {
	query := `UPDATE swaps SET filled_amount_cents = fills.total
	          FROM (
	            SELECT s.id AS swap_id, COALESCE(SUM(sp.contribution_cents) FILTER (WHERE sp.status IN ('CONFIRMED', 'PAID', 'VERIFIED')), 0) AS total
	            FROM swaps s
	            LEFT JOIN swap_participants sp ON sp.swap_id = s.id
	            WHERE s.status IN ('PENDING', 'RECRUITING', 'FILLED', 'IN_PROGRESS')
	            GROUP BY s.id
	          ) AS fills
	          WHERE swaps.id = fills.swap_id AND swaps.filled_amount_cents <> fills.total`
	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
