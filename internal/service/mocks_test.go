package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"hearthshare-backend/internal/domain"
	"hearthshare-backend/internal/security"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

type MockHouseholdRepo struct{ mock.Mock }

func (m *MockHouseholdRepo) Create(ctx context.Context, h *domain.Household) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockHouseholdRepo) GetByID(ctx context.Context, id int32) (*domain.Household, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Household), args.Error(1)
}

func (m *MockHouseholdRepo) GetByInviteCode(ctx context.Context, code string) (*domain.Household, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Household), args.Error(1)
}

func (m *MockHouseholdRepo) Update(ctx context.Context, h *domain.Household) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockHouseholdRepo) ApplyUpdate(ctx context.Context, id int32, upd domain.HouseholdUpdate) error {
	return m.Called(ctx, id, upd).Error(0)
}

func (m *MockHouseholdRepo) ListActiveIDs(ctx context.Context) ([]int32, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int32), args.Error(1)
}

type MockMemberRepo struct{ mock.Mock }

func (m *MockMemberRepo) Create(ctx context.Context, mem *domain.Member) error {
	return m.Called(ctx, mem).Error(0)
}

func (m *MockMemberRepo) GetByID(ctx context.Context, id int32) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepo) GetByHouseholdAndUser(ctx context.Context, householdID, userID int32) (*domain.Member, error) {
	args := m.Called(ctx, householdID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepo) GetActiveByUser(ctx context.Context, userID int32) (*domain.Member, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepo) ListActiveByHousehold(ctx context.Context, householdID int32) ([]domain.Member, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberRepo) ListLeaderboard(ctx context.Context, householdID int32) ([]domain.Member, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberRepo) CountActive(ctx context.Context, householdID int32) (int32, error) {
	args := m.Called(ctx, householdID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockMemberRepo) Update(ctx context.Context, mem *domain.Member) error {
	return m.Called(ctx, mem).Error(0)
}

type MockKarmaRepo struct{ mock.Mock }

func (m *MockKarmaRepo) CreateEventAndApply(ctx context.Context, event *domain.KarmaEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockKarmaRepo) ListEventsByUser(ctx context.Context, householdID, userID int32) ([]domain.KarmaEvent, error) {
	args := m.Called(ctx, householdID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.KarmaEvent), args.Error(1)
}

func (m *MockKarmaRepo) ListMonthlyEvents(ctx context.Context, householdID int32, period string) ([]domain.KarmaEvent, error) {
	args := m.Called(ctx, householdID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.KarmaEvent), args.Error(1)
}

func (m *MockKarmaRepo) BreakdownByType(ctx context.Context, householdID, userID int32) (map[domain.KarmaEventType]int32, error) {
	args := m.Called(ctx, householdID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.KarmaEventType]int32), args.Error(1)
}

func (m *MockKarmaRepo) ResetMonthly(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockKarmaRepo) SaveSnapshots(ctx context.Context, snapshots []domain.LeaderboardSnapshot) error {
	return m.Called(ctx, snapshots).Error(0)
}

func (m *MockKarmaRepo) GetSnapshots(ctx context.Context, householdID int32, period string) ([]domain.LeaderboardSnapshot, error) {
	args := m.Called(ctx, householdID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardSnapshot), args.Error(1)
}

type MockPointsRepo struct{ mock.Mock }

func (m *MockPointsRepo) Append(ctx context.Context, entry *domain.PointsLedgerEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockPointsRepo) AppendIfBalanceAtLeast(ctx context.Context, entry *domain.PointsLedgerEntry, minBalance int32) (bool, error) {
	args := m.Called(ctx, entry, minBalance)
	return args.Bool(0), args.Error(1)
}

func (m *MockPointsRepo) GetBalance(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockPointsRepo) SumEntries(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockPointsRepo) SumPositiveEntries(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockPointsRepo) CountByReason(ctx context.Context, userID int32, reason domain.PointsReason) (int32, error) {
	args := m.Called(ctx, userID, reason)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockPointsRepo) List(ctx context.Context, userID int32, page, pageSize int32) ([]domain.PointsLedgerEntry, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	var entries []domain.PointsLedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.PointsLedgerEntry)
	}
	return entries, args.Get(1).(int32), args.Error(2)
}

func (m *MockPointsRepo) GetLastSwapDate(ctx context.Context, userID int32) (*string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockPointsRepo) SetLastSwapDate(ctx context.Context, userID int32, date string) error {
	return m.Called(ctx, userID, date).Error(0)
}

func (m *MockPointsRepo) ReconcileBalances(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockSwapRepo struct{ mock.Mock }

func (m *MockSwapRepo) Create(ctx context.Context, swap *domain.MultiPartySwap) error {
	return m.Called(ctx, swap).Error(0)
}

func (m *MockSwapRepo) GetByID(ctx context.Context, id int32) (*domain.MultiPartySwap, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MultiPartySwap), args.Error(1)
}

func (m *MockSwapRepo) Update(ctx context.Context, swap *domain.MultiPartySwap) error {
	return m.Called(ctx, swap).Error(0)
}

func (m *MockSwapRepo) CompareAndSetStatus(ctx context.Context, swapID int32, from, to domain.SwapStatus) (bool, error) {
	args := m.Called(ctx, swapID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockSwapRepo) ListByOrganizer(ctx context.Context, organizerID int32, page, pageSize int32) ([]domain.MultiPartySwap, int32, error) {
	args := m.Called(ctx, organizerID, page, pageSize)
	var swaps []domain.MultiPartySwap
	if args.Get(0) != nil {
		swaps = args.Get(0).([]domain.MultiPartySwap)
	}
	return swaps, args.Get(1).(int32), args.Error(2)
}

func (m *MockSwapRepo) AddParticipant(ctx context.Context, p *domain.SwapParticipant) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockSwapRepo) GetParticipant(ctx context.Context, swapID, userID int32) (*domain.SwapParticipant, error) {
	args := m.Called(ctx, swapID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SwapParticipant), args.Error(1)
}

func (m *MockSwapRepo) ListParticipants(ctx context.Context, swapID int32) ([]domain.SwapParticipant, error) {
	args := m.Called(ctx, swapID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SwapParticipant), args.Error(1)
}

func (m *MockSwapRepo) UpdateParticipant(ctx context.Context, p *domain.SwapParticipant) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockSwapRepo) RecomputeFilledAmount(ctx context.Context, swapID int32) (int64, error) {
	args := m.Called(ctx, swapID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSwapRepo) CountCompletedByUser(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockSwapRepo) CountActiveRequestsByUser(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockSwapRepo) CreateBoost(ctx context.Context, boost *domain.SwapBoost) error {
	return m.Called(ctx, boost).Error(0)
}

func (m *MockSwapRepo) GetActiveBoost(ctx context.Context, swapID int32) (*domain.SwapBoost, error) {
	args := m.Called(ctx, swapID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SwapBoost), args.Error(1)
}

func (m *MockSwapRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSwapRepo) FailUnpaidMatches(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSwapRepo) DeactivateExpiredBoosts(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSwapRepo) ReconcileFilledAmounts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotificationRepo struct{ mock.Mock }

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	return m.Called(ctx, note).Error(0)
}

func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	var notes []domain.Notification
	if args.Get(0) != nil {
		notes = args.Get(0).([]domain.Notification)
	}
	return notes, args.Get(1).(int32), args.Error(2)
}

func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	return m.Called(ctx, id, userID).Error(0)
}

type MockEmailService struct{ mock.Mock }

func (m *MockEmailService) SendHouseholdInvitation(ctx context.Context, email, name, inviteCode, householdName string) error {
	return m.Called(ctx, email, name, inviteCode, householdName).Error(0)
}

func (m *MockEmailService) SendMonthlyHeroNotification(ctx context.Context, email, name, householdName string, monthlyKarma int32) error {
	return m.Called(ctx, email, name, householdName, monthlyKarma).Error(0)
}

func (m *MockEmailService) SendSwapCompletionReceipt(ctx context.Context, email, name string, amountCents int64, pointsEarned int32) error {
	return m.Called(ctx, email, name, amountCents, pointsEarned).Error(0)
}

type MockPointsService struct{ mock.Mock }

func (m *MockPointsService) AddPoints(ctx context.Context, userID int32, delta int32, reason domain.PointsReason, relatedSwapID *int32, description string) error {
	return m.Called(ctx, userID, delta, reason, relatedSwapID, description).Error(0)
}

func (m *MockPointsService) AwardSwapCompletionPoints(ctx context.Context, userID, swapID int32) (int32, error) {
	args := m.Called(ctx, userID, swapID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockPointsService) CanWaiveFee(ctx context.Context, userID int32) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPointsService) DeductPointsForFeeWaiver(ctx context.Context, userID, swapID int32) error {
	return m.Called(ctx, userID, swapID).Error(0)
}

func (m *MockPointsService) IsFirstSwapOfDay(ctx context.Context, userID int32) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPointsService) GetPointsSummary(ctx context.Context, userID int32) (*domain.PointsSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PointsSummary), args.Error(1)
}

func (m *MockPointsService) GetHistory(ctx context.Context, userID int32, page, pageSize int32) ([]domain.PointsLedgerEntry, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	var entries []domain.PointsLedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.PointsLedgerEntry)
	}
	return entries, args.Get(1).(int32), args.Error(2)
}

func (m *MockPointsService) RebuildBalance(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

type MockTokenManager struct{ mock.Mock }

func (m *MockTokenManager) GenerateAccessToken(userID int32, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) GenerateRefreshToken(userID int32, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) ValidateToken(tokenString string) (*security.UserClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.UserClaims), args.Error(1)
}
