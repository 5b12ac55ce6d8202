package repository

import (
	"context"
	"time"

	"hearthshare-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type HouseholdRepository interface {
	Create(ctx context.Context, h *domain.Household) error
	GetByID(ctx context.Context, id int32) (*domain.Household, error)
	// GetByInviteCode matches case-insensitively among active households.
	GetByInviteCode(ctx context.Context, code string) (*domain.Household, error)
	Update(ctx context.Context, h *domain.Household) error
	// ApplyUpdate applies a typed partial update; a fully-nil update is a no-op.
	ApplyUpdate(ctx context.Context, id int32, upd domain.HouseholdUpdate) error
	// ListActiveIDs feeds household-wide maintenance jobs.
	ListActiveIDs(ctx context.Context) ([]int32, error)
}

type MemberRepository interface {
	Create(ctx context.Context, m *domain.Member) error
	GetByID(ctx context.Context, id int32) (*domain.Member, error)
	// GetByHouseholdAndUser returns the membership row regardless of active
	// flag (left memberships are revived, not duplicated).
	GetByHouseholdAndUser(ctx context.Context, householdID, userID int32) (*domain.Member, error)
	// GetActiveByUser returns the caller's single active membership, if any.
	GetActiveByUser(ctx context.Context, userID int32) (*domain.Member, error)
	ListActiveByHousehold(ctx context.Context, householdID int32) ([]domain.Member, error)
	// ListLeaderboard orders active members by monthly karma desc, lifetime
	// karma desc, joined_at asc, id asc.
	ListLeaderboard(ctx context.Context, householdID int32) ([]domain.Member, error)
	CountActive(ctx context.Context, householdID int32) (int32, error)
	Update(ctx context.Context, m *domain.Member) error
}

type KarmaRepository interface {
	// CreateEventAndApply inserts the event and bumps the member's lifetime
	// and monthly counters in a single transaction.
	CreateEventAndApply(ctx context.Context, event *domain.KarmaEvent) error
	ListEventsByUser(ctx context.Context, householdID, userID int32) ([]domain.KarmaEvent, error)
	// ListMonthlyEvents returns the household's events for a 'YYYY-MM' period.
	ListMonthlyEvents(ctx context.Context, householdID int32, period string) ([]domain.KarmaEvent, error)
	BreakdownByType(ctx context.Context, householdID, userID int32) (map[domain.KarmaEventType]int32, error)
	// ResetMonthly zeroes all monthly counters in one transactional statement.
	ResetMonthly(ctx context.Context) (int64, error)
	SaveSnapshots(ctx context.Context, snapshots []domain.LeaderboardSnapshot) error
	GetSnapshots(ctx context.Context, householdID int32, period string) ([]domain.LeaderboardSnapshot, error)
}

type PointsRepository interface {
	// Append inserts the ledger entry and applies its delta to the cached
	// balance in a single transaction.
	Append(ctx context.Context, entry *domain.PointsLedgerEntry) error
	// AppendIfBalanceAtLeast applies a debit entry only when the cached
	// balance covers it: the balance update is conditional at the storage
	// layer, so two concurrent debits can never both land. Returns false
	// when the balance was insufficient.
	AppendIfBalanceAtLeast(ctx context.Context, entry *domain.PointsLedgerEntry, minBalance int32) (bool, error)
	GetBalance(ctx context.Context, userID int32) (int32, error)
	// SumEntries replays the ledger; the authoritative balance.
	SumEntries(ctx context.Context, userID int32) (int32, error)
	SumPositiveEntries(ctx context.Context, userID int32) (int32, error)
	CountByReason(ctx context.Context, userID int32, reason domain.PointsReason) (int32, error)
	List(ctx context.Context, userID int32, page, pageSize int32) ([]domain.PointsLedgerEntry, int32, error)
	GetLastSwapDate(ctx context.Context, userID int32) (*string, error)
	SetLastSwapDate(ctx context.Context, userID int32, date string) error
	// ReconcileBalances rewrites every cached balance from the ledger sum and
	// returns the number of repaired rows.
	ReconcileBalances(ctx context.Context) (int64, error)
}

type SwapRepository interface {
	Create(ctx context.Context, swap *domain.MultiPartySwap) error
	GetByID(ctx context.Context, id int32) (*domain.MultiPartySwap, error)
	Update(ctx context.Context, swap *domain.MultiPartySwap) error
	// CompareAndSetStatus transitions status only if the stored status still
	// matches from; returns false when a concurrent change got there first.
	CompareAndSetStatus(ctx context.Context, swapID int32, from, to domain.SwapStatus) (bool, error)
	ListByOrganizer(ctx context.Context, organizerID int32, page, pageSize int32) ([]domain.MultiPartySwap, int32, error)

	// AddParticipant upserts on (swap_id, user_id); returns false when the
	// user already participates (idempotent join).
	AddParticipant(ctx context.Context, p *domain.SwapParticipant) (bool, error)
	GetParticipant(ctx context.Context, swapID, userID int32) (*domain.SwapParticipant, error)
	ListParticipants(ctx context.Context, swapID int32) ([]domain.SwapParticipant, error)
	UpdateParticipant(ctx context.Context, p *domain.SwapParticipant) error
	// RecomputeFilledAmount rewrites filled_amount_cents from confirmed,
	// paid and verified contributions and returns the new value.
	RecomputeFilledAmount(ctx context.Context, swapID int32) (int64, error)
	CountCompletedByUser(ctx context.Context, userID int32) (int32, error)
	CountActiveRequestsByUser(ctx context.Context, userID int32) (int32, error)

	CreateBoost(ctx context.Context, boost *domain.SwapBoost) error
	GetActiveBoost(ctx context.Context, swapID int32) (*domain.SwapBoost, error)

	// Maintenance sweeps used by scheduled jobs.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	FailUnpaidMatches(ctx context.Context, now time.Time) (int64, error)
	DeactivateExpiredBoosts(ctx context.Context, now time.Time) (int64, error)
	ReconcileFilledAmounts(ctx context.Context) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
