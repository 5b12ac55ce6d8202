package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hearthshare-backend/internal/config"
	"hearthshare-backend/internal/domain"
	"hearthshare-backend/internal/service"
)

var testKarmaCfg = config.KarmaConfig{
	BillUploadedPoints:  10,
	BillPaidPoints:      15,
	SwapCompletedPoints: 25,
	DisputeWonPoints:    20,
	MemberJoinedPoints:  5,
}

func newKarmaService(karmaRepo *MockKarmaRepo, memberRepo *MockMemberRepo, householdRepo *MockHouseholdRepo) service.KarmaService {
	return service.NewKarmaService(karmaRepo, memberRepo, householdRepo, testKarmaCfg)
}

func TestAwardKarma_SelfAward(t *testing.T) {
	ctx := context.Background()
	karmaRepo := new(MockKarmaRepo)
	memberRepo := new(MockMemberRepo)
	svc := newKarmaService(karmaRepo, memberRepo, new(MockHouseholdRepo))

	memberRepo.On("GetActiveByUser", ctx, int32(2)).
		Return(&domain.Member{ID: 9, HouseholdID: 42, UserID: 2, Active: true}, nil).Once()
	karmaRepo.On("CreateEventAndApply", ctx, mock.MatchedBy(func(e *domain.KarmaEvent) bool {
		return e.HouseholdID == int32(42) &&
			e.UserID == int32(2) &&
			e.EventType == domain.KarmaEventBillUploaded &&
			e.KarmaChange == int32(10)
	})).Return(nil).Once()

	event, err := svc.AwardKarma(ctx, 2, 0, domain.KarmaEventBillUploaded, "uploaded the water bill", nil)

	assert.NoError(t, err)
	assert.Equal(t, int32(10), event.KarmaChange)
	karmaRepo.AssertExpectations(t)
	memberRepo.AssertExpectations(t)
}

func TestAwardKarma_TargetMustShareHousehold(t *testing.T) {
	ctx := context.Background()
	memberRepo := new(MockMemberRepo)
	svc := newKarmaService(new(MockKarmaRepo), memberRepo, new(MockHouseholdRepo))

	memberRepo.On("GetActiveByUser", ctx, int32(2)).
		Return(&domain.Member{ID: 9, HouseholdID: 42, UserID: 2, Active: true}, nil).Once()
	memberRepo.On("GetByHouseholdAndUser", ctx, int32(42), int32(3)).Return(nil, sql.ErrNoRows).Once()

	_, err := svc.AwardKarma(ctx, 2, 3, domain.KarmaEventBillPaid, "", nil)

	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestAwardKarma_RejectsAdjustmentType(t *testing.T) {
	svc := newKarmaService(new(MockKarmaRepo), new(MockMemberRepo), new(MockHouseholdRepo))

	_, err := svc.AwardKarma(context.Background(), 2, 0, domain.KarmaEventAdjustment, "", nil)

	assert.True(t, domain.IsKind(err, domain.KindValidationFailed))
}

func TestAwardKarma_NoHousehold(t *testing.T) {
	ctx := context.Background()
	memberRepo := new(MockMemberRepo)
	svc := newKarmaService(new(MockKarmaRepo), memberRepo, new(MockHouseholdRepo))

	memberRepo.On("GetActiveByUser", ctx, int32(2)).Return(nil, sql.ErrNoRows).Once()

	_, err := svc.AwardKarma(ctx, 2, 0, domain.KarmaEventBillPaid, "", nil)

	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestAdjustKarma_RequiresManagePermission(t *testing.T) {
	ctx := context.Background()
	memberRepo := new(MockMemberRepo)
	svc := newKarmaService(new(MockKarmaRepo), memberRepo, new(MockHouseholdRepo))

	memberRepo.On("GetActiveByUser", ctx, int32(2)).
		Return(&domain.Member{ID: 9, HouseholdID: 42, UserID: 2, Role: domain.MemberRoleMember, Active: true}, nil).Once()

	_, err := svc.AdjustKarma(ctx, 2, 3, -15, "penalty")

	assert.True(t, domain.IsKind(err, domain.KindInsufficientPermissions))
}

func TestAdjustKarma_AppliesSignedDelta(t *testing.T) {
	ctx := context.Background()
	karmaRepo := new(MockKarmaRepo)
	memberRepo := new(MockMemberRepo)
	svc := newKarmaService(karmaRepo, memberRepo, new(MockHouseholdRepo))

	memberRepo.On("GetActiveByUser", ctx, int32(1)).
		Return(&domain.Member{ID: 5, HouseholdID: 42, UserID: 1, Role: domain.MemberRoleHead, Active: true}, nil).Once()
	memberRepo.On("GetByHouseholdAndUser", ctx, int32(42), int32(3)).
		Return(&domain.Member{ID: 11, HouseholdID: 42, UserID: 3, Active: true}, nil).Once()
	karmaRepo.On("CreateEventAndApply", ctx, mock.MatchedBy(func(e *domain.KarmaEvent) bool {
		return e.EventType == domain.KarmaEventAdjustment && e.KarmaChange == int32(-15) && e.UserID == int32(3)
	})).Return(nil).Once()

	event, err := svc.AdjustKarma(ctx, 1, 3, -15, "missed chores")

	assert.NoError(t, err)
	assert.Equal(t, int32(-15), event.KarmaChange)
	karmaRepo.AssertExpectations(t)
}

func TestAdjustKarma_ZeroDelta(t *testing.T) {
	svc := newKarmaService(new(MockKarmaRepo), new(MockMemberRepo), new(MockHouseholdRepo))

	_, err := svc.AdjustKarma(context.Background(), 1, 3, 0, "")

	assert.True(t, domain.IsKind(err, domain.KindValidationFailed))
}

func TestGetLeaderboard_RanksAndRankChange(t *testing.T) {
	ctx := context.Background()
	karmaRepo := new(MockKarmaRepo)
	memberRepo := new(MockMemberRepo)
	svc := newKarmaService(karmaRepo, memberRepo, new(MockHouseholdRepo))

	memberRepo.On("GetByHouseholdAndUser", ctx, int32(42), int32(2)).
		Return(&domain.Member{ID: 9, HouseholdID: 42, UserID: 2, Active: true}, nil).Once()
	memberRepo.On("ListLeaderboard", ctx, int32(42)).Return([]domain.Member{
		{ID: 5, UserID: 1, MonthlyKarma: 80},
		{ID: 9, UserID: 2, MonthlyKarma: 55},
		{ID: 11, UserID: 3, MonthlyKarma: 10},
	}, nil).Once()
	prevPeriod := time.Now().UTC().AddDate(0, -1, 0).Format("2006-01")
	karmaRepo.On("GetSnapshots", ctx, int32(42), prevPeriod).Return([]domain.LeaderboardSnapshot{
		{MemberID: 5, Rank: 2},
		{MemberID: 9, Rank: 1},
	}, nil).Once()

	entries, err := svc.GetLeaderboard(ctx, 2, 42)

	assert.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, int32(1), entries[0].Rank)
	// Member 5 climbed from 2 to 1, member 9 fell from 1 to 2.
	assert.Equal(t, int32(1), *entries[0].RankChange)
	assert.Equal(t, int32(-1), *entries[1].RankChange)
	assert.True(t, entries[1].IsCurrentUser)
	// No snapshot for member 11, so no rank delta.
	assert.Nil(t, entries[2].RankChange)
	karmaRepo.AssertExpectations(t)
}

func TestGetMonthlyHero_NoPositiveKarma(t *testing.T) {
	ctx := context.Background()
	memberRepo := new(MockMemberRepo)
	svc := newKarmaService(new(MockKarmaRepo), memberRepo, new(MockHouseholdRepo))

	memberRepo.On("GetByHouseholdAndUser", ctx, int32(42), int32(2)).
		Return(&domain.Member{ID: 9, HouseholdID: 42, UserID: 2, Active: true}, nil).Once()
	memberRepo.On("ListLeaderboard", ctx, int32(42)).Return([]domain.Member{
		{ID: 5, UserID: 1, MonthlyKarma: 0},
	}, nil).Once()

	hero, err := svc.GetMonthlyHero(ctx, 2, 42)

	assert.NoError(t, err)
	assert.Nil(t, hero)
}

func TestGetMonthlyHero_TopEventType(t *testing.T) {
	ctx := context.Background()
	karmaRepo := new(MockKarmaRepo)
	memberRepo := new(MockMemberRepo)
	svc := newKarmaService(karmaRepo, memberRepo, new(MockHouseholdRepo))

	memberRepo.On("GetByHouseholdAndUser", ctx, int32(42), int32(2)).
		Return(&domain.Member{ID: 9, HouseholdID: 42, UserID: 2, Active: true}, nil).Once()
	memberRepo.On("ListLeaderboard", ctx, int32(42)).Return([]domain.Member{
		{ID: 5, UserID: 1, MonthlyKarma: 60},
		{ID: 9, UserID: 2, MonthlyKarma: 30},
	}, nil).Once()
	period := time.Now().UTC().Format("2006-01")
	karmaRepo.On("ListMonthlyEvents", ctx, int32(42), period).Return([]domain.KarmaEvent{
		{UserID: 1, EventType: domain.KarmaEventBillPaid, KarmaChange: 15},
		{UserID: 1, EventType: domain.KarmaEventBillPaid, KarmaChange: 15},
		{UserID: 1, EventType: domain.KarmaEventSwapCompleted, KarmaChange: 25},
		// Another member's events never count toward the hero's top type.
		{UserID: 2, EventType: domain.KarmaEventSwapCompleted, KarmaChange: 25},
	}, nil).Once()

	hero, err := svc.GetMonthlyHero(ctx, 2, 42)

	assert.NoError(t, err)
	assert.Equal(t, int32(1), hero.Member.UserID)
	assert.Equal(t, domain.KarmaEventBillPaid, hero.TopEventType)
	assert.Equal(t, int32(2), hero.EventCount)
	karmaRepo.AssertExpectations(t)
}

func TestGetMonthlyHero_TieBrokenByKarmaTotal(t *testing.T) {
	ctx := context.Background()
	karmaRepo := new(MockKarmaRepo)
	memberRepo := new(MockMemberRepo)
	svc := newKarmaService(karmaRepo, memberRepo, new(MockHouseholdRepo))

	memberRepo.On("GetByHouseholdAndUser", ctx, int32(42), int32(1)).
		Return(&domain.Member{ID: 5, HouseholdID: 42, UserID: 1, Active: true}, nil).Once()
	memberRepo.On("ListLeaderboard", ctx, int32(42)).Return([]domain.Member{
		{ID: 5, UserID: 1, MonthlyKarma: 40},
	}, nil).Once()
	period := time.Now().UTC().Format("2006-01")
	karmaRepo.On("ListMonthlyEvents", ctx, int32(42), period).Return([]domain.KarmaEvent{
		{UserID: 1, EventType: domain.KarmaEventBillUploaded, KarmaChange: 10},
		{UserID: 1, EventType: domain.KarmaEventSwapCompleted, KarmaChange: 25},
	}, nil).Once()

	hero, err := svc.GetMonthlyHero(ctx, 1, 42)

	assert.NoError(t, err)
	// One event of each type; the higher karma total wins the tie.
	assert.Equal(t, domain.KarmaEventSwapCompleted, hero.TopEventType)
}

func TestGetKarmaSummary(t *testing.T) {
	ctx := context.Background()
	karmaRepo := new(MockKarmaRepo)
	memberRepo := new(MockMemberRepo)
	svc := newKarmaService(karmaRepo, memberRepo, new(MockHouseholdRepo))

	memberRepo.On("GetActiveByUser", ctx, int32(2)).
		Return(&domain.Member{ID: 9, HouseholdID: 42, UserID: 2, KarmaScore: 120, MonthlyKarma: 35, Active: true}, nil).Once()
	memberRepo.On("ListLeaderboard", ctx, int32(42)).Return([]domain.Member{
		{ID: 5, UserID: 1},
		{ID: 9, UserID: 2},
	}, nil).Once()
	karmaRepo.On("BreakdownByType", ctx, int32(42), int32(2)).
		Return(map[domain.KarmaEventType]int32{domain.KarmaEventBillPaid: 90, domain.KarmaEventMemberJoined: 5}, nil).Once()

	summary, err := svc.GetKarmaSummary(ctx, 2)

	assert.NoError(t, err)
	assert.Equal(t, int32(120), summary.TotalKarma)
	assert.Equal(t, int32(35), summary.MonthlyKarma)
	assert.Equal(t, int32(2), summary.Rank)
	assert.Equal(t, int32(90), summary.Breakdown[domain.KarmaEventBillPaid])
}

func TestGetKarmaHistory(t *testing.T) {
	ctx := context.Background()
	karmaRepo := new(MockKarmaRepo)
	memberRepo := new(MockMemberRepo)
	svc := newKarmaService(karmaRepo, memberRepo, new(MockHouseholdRepo))

	memberRepo.On("GetActiveByUser", ctx, int32(2)).
		Return(&domain.Member{ID: 9, HouseholdID: 42, UserID: 2, Active: true}, nil).Once()
	karmaRepo.On("ListEventsByUser", ctx, int32(42), int32(2)).Return([]domain.KarmaEvent{
		{ID: 31, HouseholdID: 42, UserID: 2, EventType: domain.KarmaEventBillPaid, KarmaChange: 15},
		{ID: 30, HouseholdID: 42, UserID: 2, EventType: domain.KarmaEventMemberJoined, KarmaChange: 5},
	}, nil).Once()

	events, err := svc.GetKarmaHistory(ctx, 2)

	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, domain.KarmaEventBillPaid, events[0].EventType)
	karmaRepo.AssertExpectations(t)
}

func TestGetKarmaHistory_NoHousehold(t *testing.T) {
	ctx := context.Background()
	memberRepo := new(MockMemberRepo)
	svc := newKarmaService(new(MockKarmaRepo), memberRepo, new(MockHouseholdRepo))

	memberRepo.On("GetActiveByUser", ctx, int32(2)).Return(nil, sql.ErrNoRows).Once()

	_, err := svc.GetKarmaHistory(ctx, 2)

	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestSnapshotAndResetMonthly(t *testing.T) {
	ctx := context.Background()
	karmaRepo := new(MockKarmaRepo)
	memberRepo := new(MockMemberRepo)
	householdRepo := new(MockHouseholdRepo)
	svc := newKarmaService(karmaRepo, memberRepo, householdRepo)

	householdRepo.On("ListActiveIDs", ctx).Return([]int32{42, 43}, nil).Once()
	memberRepo.On("ListLeaderboard", ctx, int32(42)).Return([]domain.Member{
		{ID: 5, UserID: 1, MonthlyKarma: 80},
		{ID: 9, UserID: 2, MonthlyKarma: 55},
	}, nil).Once()
	memberRepo.On("ListLeaderboard", ctx, int32(43)).Return([]domain.Member{}, nil).Once()
	period := time.Now().UTC().AddDate(0, -1, 0).Format("2006-01")
	karmaRepo.On("SaveSnapshots", ctx, mock.MatchedBy(func(snaps []domain.LeaderboardSnapshot) bool {
		return len(snaps) == 2 &&
			snaps[0].Period == period &&
			snaps[0].MemberID == int32(5) && snaps[0].Rank == int32(1) &&
			snaps[1].MemberID == int32(9) && snaps[1].Rank == int32(2)
	})).Return(nil).Once()
	karmaRepo.On("ResetMonthly", ctx).Return(int64(2), nil).Once()

	reset, err := svc.SnapshotAndResetMonthly(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), reset)
	karmaRepo.AssertExpectations(t)
	householdRepo.AssertExpectations(t)
}
