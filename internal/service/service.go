package service

import (
	"context"

	"hearthshare-backend/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (string, string, error)                      // access, refresh
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
}

type UserService interface {
	GetProfile(ctx context.Context, userID int32) (*domain.User, *domain.Member, error)
	UpdateProfile(ctx context.Context, userID int32, name, phone, avatarURL string) error
}

type HouseholdService interface {
	CreateHousehold(ctx context.Context, userID int32, name string, mode domain.FairnessMode) (*domain.Household, *domain.Member, error)
	GetHousehold(ctx context.Context, userID, householdID int32) (*domain.Household, []domain.Member, error)
	JoinHousehold(ctx context.Context, userID int32, inviteCode, displayName string) (*domain.Member, error)
	LeaveHousehold(ctx context.Context, userID, householdID int32) error
	UpdateHousehold(ctx context.Context, userID, householdID int32, upd domain.HouseholdUpdate) error
	UpdateMemberRole(ctx context.Context, callerID, householdID, memberID int32, role domain.MemberRole) error
	RemoveMember(ctx context.Context, callerID, householdID, memberID int32) error
	ListMembers(ctx context.Context, userID, householdID int32) ([]domain.Member, error)
	// InviteByEmail mails the household's invite code to a prospective member.
	InviteByEmail(ctx context.Context, callerID, householdID int32, email, name string) error
}

type SplitService interface {
	// CalculateBillSplit splits amountCents across the household's active
	// members under its current fairness mode.
	CalculateBillSplit(ctx context.Context, userID, householdID int32, amountCents int64, excludeMemberIDs []int32) ([]domain.BillSplit, error)
	// SetEquityPercentages assigns custom shares; the set must cover every
	// active member and sum to 100 within tolerance.
	SetEquityPercentages(ctx context.Context, callerID, householdID int32, shares map[int32]float64) error
	CheckBalance(ctx context.Context, userID, householdID int32) (domain.BalanceStatus, error)
}

type KarmaService interface {
	// AwardKarma credits the configured points for eventType to targetUserID
	// (the caller when zero) in the caller's household.
	AwardKarma(ctx context.Context, callerID, targetUserID int32, eventType domain.KarmaEventType, description string, relatedBillID *int32) (*domain.KarmaEvent, error)
	// AdjustKarma applies a signed manual correction; caller must be able to
	// manage members.
	AdjustKarma(ctx context.Context, callerID, targetUserID, delta int32, description string) (*domain.KarmaEvent, error)
	GetLeaderboard(ctx context.Context, userID, householdID int32) ([]domain.LeaderboardEntry, error)
	// GetMonthlyHero returns nil without error when no member has positive
	// monthly karma.
	GetMonthlyHero(ctx context.Context, userID, householdID int32) (*domain.MonthlyHero, error)
	GetKarmaSummary(ctx context.Context, userID int32) (*domain.KarmaSummary, error)
	// GetKarmaHistory lists the caller's events in their active household,
	// newest first.
	GetKarmaHistory(ctx context.Context, userID int32) ([]domain.KarmaEvent, error)
	// SnapshotAndResetMonthly persists current ranks for every household the
	// reset touches, then zeroes monthly counters. Job entry point.
	SnapshotAndResetMonthly(ctx context.Context) (int64, error)
}

type PointsService interface {
	AddPoints(ctx context.Context, userID int32, delta int32, reason domain.PointsReason, relatedSwapID *int32, description string) error
	// AwardSwapCompletionPoints credits the per-swap amount plus a separate
	// first-swap-of-day bonus entry, and advances the stored last swap date.
	AwardSwapCompletionPoints(ctx context.Context, userID, swapID int32) (int32, error)
	CanWaiveFee(ctx context.Context, userID int32) (bool, error)
	// DeductPointsForFeeWaiver debits the waiver cost; the decrement is
	// conditional at the storage layer so concurrent calls over one remaining
	// waiver cannot both succeed.
	DeductPointsForFeeWaiver(ctx context.Context, userID, swapID int32) error
	IsFirstSwapOfDay(ctx context.Context, userID int32) (bool, error)
	GetPointsSummary(ctx context.Context, userID int32) (*domain.PointsSummary, error)
	GetHistory(ctx context.Context, userID int32, page, pageSize int32) ([]domain.PointsLedgerEntry, int32, error)
	// RebuildBalance replays the ledger into the cached balance and returns
	// the authoritative sum.
	RebuildBalance(ctx context.Context, userID int32) (int32, error)
}

type SwapService interface {
	CreateSwap(ctx context.Context, organizerID int32, swap *domain.MultiPartySwap) (*domain.MultiPartySwap, error)
	// GetSwap returns the swap, its participants and the currently active
	// boost, if any.
	GetSwap(ctx context.Context, userID, swapID int32) (*domain.MultiPartySwap, []domain.SwapParticipant, *domain.SwapBoost, error)
	ListMySwaps(ctx context.Context, userID int32, page, pageSize int32) ([]domain.MultiPartySwap, int32, error)
	// CheckEligibility reports whether the user may participate, with the
	// failure reasons when not.
	CheckEligibility(ctx context.Context, userID int32, offering bool) (bool, []string, error)
	JoinSwap(ctx context.Context, userID, swapID int32, contributionCents int64, billID *int32) (*domain.SwapParticipant, error)
	ConfirmParticipant(ctx context.Context, callerID, swapID, participantUserID int32) error
	MarkPaid(ctx context.Context, userID, swapID int32) error
	VerifyParticipant(ctx context.Context, callerID, swapID, participantUserID int32, screenshotURL string) error
	DeclineParticipant(ctx context.Context, userID, swapID int32) error
	RemoveParticipant(ctx context.Context, callerID, swapID, participantUserID int32) error
	StartSwap(ctx context.Context, callerID, swapID int32) error
	// CompleteSwap finishes an in-progress swap, awarding completion points
	// and karma to every counted participant and capturing optional ratings.
	CompleteSwap(ctx context.Context, callerID, swapID int32, ratings map[int32]int32) error
	CancelSwap(ctx context.Context, callerID, swapID int32) error
	BoostSwap(ctx context.Context, callerID, swapID int32, multiplier float64, durationHours int32) (*domain.SwapBoost, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendHouseholdInvitation(ctx context.Context, email, name, inviteCode, householdName string) error
	SendMonthlyHeroNotification(ctx context.Context, email, name, householdName string, monthlyKarma int32) error
	SendSwapCompletionReceipt(ctx context.Context, email, name string, amountCents int64, pointsEarned int32) error
}
