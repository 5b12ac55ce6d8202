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

var testSwapCfg = config.SwapConfig{
	MinSuccessfulSwaps: 2,
	OfferMinPoints:     300,
	MaxActiveRequests:  2,
}

type swapFixture struct {
	swapRepo   *MockSwapRepo
	userRepo   *MockUserRepo
	memberRepo *MockMemberRepo
	karmaRepo  *MockKarmaRepo
	noteRepo   *MockNotificationRepo
	pointsSvc  *MockPointsService
	emailSvc   *MockEmailService
	svc        service.SwapService
}

func newSwapFixture() *swapFixture {
	f := &swapFixture{
		swapRepo:   new(MockSwapRepo),
		userRepo:   new(MockUserRepo),
		memberRepo: new(MockMemberRepo),
		karmaRepo:  new(MockKarmaRepo),
		noteRepo:   new(MockNotificationRepo),
		pointsSvc:  new(MockPointsService),
		emailSvc:   new(MockEmailService),
	}
	f.svc = service.NewSwapService(
		f.swapRepo,
		f.userRepo,
		f.memberRepo,
		f.karmaRepo,
		f.noteRepo,
		f.pointsSvc,
		f.emailSvc,
		testSwapCfg,
		testKarmaCfg,
	)
	return f
}

func verifiedUser(id int32) *domain.User {
	return &domain.User{ID: id, Email: "user@example.com", Name: "User", EmailVerified: true, PhoneVerified: true}
}

func TestCreateSwap_StartsRecruiting(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.userRepo.On("GetByID", ctx, int32(1)).Return(verifiedUser(1), nil).Once()
	f.swapRepo.On("CountCompletedByUser", ctx, int32(1)).Return(int32(3), nil).Once()
	f.swapRepo.On("CountActiveRequestsByUser", ctx, int32(1)).Return(int32(0), nil).Once()
	f.swapRepo.On("Create", ctx, mock.MatchedBy(func(sw *domain.MultiPartySwap) bool {
		return sw.Status == domain.SwapStatusRecruiting &&
			sw.OrganizerUserID == int32(1) &&
			sw.FilledAmountCents == int64(0)
	})).Return(nil).Once()

	swap, err := f.svc.CreateSwap(ctx, 1, &domain.MultiPartySwap{
		SwapType:          domain.SwapTypeMultiParty,
		TargetAmountCents: 10000,
		MaxParticipants:   3,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.SwapStatusRecruiting, swap.Status)
	f.swapRepo.AssertExpectations(t)
}

func TestCreateSwap_TooManyActiveRequests(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.userRepo.On("GetByID", ctx, int32(1)).Return(verifiedUser(1), nil).Once()
	f.swapRepo.On("CountCompletedByUser", ctx, int32(1)).Return(int32(3), nil).Once()
	f.swapRepo.On("CountActiveRequestsByUser", ctx, int32(1)).Return(int32(2), nil).Once()

	_, err := f.svc.CreateSwap(ctx, 1, &domain.MultiPartySwap{
		SwapType:          domain.SwapTypeMultiParty,
		TargetAmountCents: 10000,
		MaxParticipants:   3,
	})

	assert.True(t, domain.IsKind(err, domain.KindCapacityExceeded))
}

func TestCreateSwap_Validation(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()
	past := time.Now().Add(-time.Hour)
	tooSmall := int64(0)

	tests := []struct {
		name string
		swap *domain.MultiPartySwap
	}{
		{"unknown type", &domain.MultiPartySwap{SwapType: "BARTER", TargetAmountCents: 100, MaxParticipants: 2}},
		{"zero target", &domain.MultiPartySwap{SwapType: domain.SwapTypeGroup, TargetAmountCents: 0, MaxParticipants: 2}},
		{"one participant", &domain.MultiPartySwap{SwapType: domain.SwapTypeGroup, TargetAmountCents: 100, MaxParticipants: 1}},
		{"zero min contribution", &domain.MultiPartySwap{SwapType: domain.SwapTypeGroup, TargetAmountCents: 100, MaxParticipants: 2, MinContribution: &tooSmall}},
		{"bad tier", &domain.MultiPartySwap{SwapType: domain.SwapTypeGroup, TargetAmountCents: 100, MaxParticipants: 2, TierRequired: 4}},
		{"past deadline", &domain.MultiPartySwap{SwapType: domain.SwapTypeGroup, TargetAmountCents: 100, MaxParticipants: 2, ExecutionDeadline: &past}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateSwap(ctx, 1, tt.swap)
			assert.True(t, domain.IsKind(err, domain.KindValidationFailed))
		})
	}
}

func TestCheckEligibility_CollectsReasons(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.userRepo.On("GetByID", ctx, int32(2)).
		Return(&domain.User{ID: 2, EmailVerified: false, PhoneVerified: true}, nil).Once()
	f.swapRepo.On("CountCompletedByUser", ctx, int32(2)).Return(int32(1), nil).Once()
	f.pointsSvc.On("GetPointsSummary", ctx, int32(2)).
		Return(&domain.PointsSummary{Balance: 120}, nil).Once()

	eligible, reasons, err := f.svc.CheckEligibility(ctx, 2, true)

	assert.NoError(t, err)
	assert.False(t, eligible)
	assert.Len(t, reasons, 3)
	assert.Contains(t, reasons, "email is not verified")
	assert.Contains(t, reasons, "needs 2 successful swaps, has 1")
	assert.Contains(t, reasons, "needs 300 points to offer help, has 120")
}

func TestCheckEligibility_RequesterSkipsPointsFloor(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.userRepo.On("GetByID", ctx, int32(2)).Return(verifiedUser(2), nil).Once()
	f.swapRepo.On("CountCompletedByUser", ctx, int32(2)).Return(int32(5), nil).Once()

	eligible, reasons, err := f.svc.CheckEligibility(ctx, 2, false)

	assert.NoError(t, err)
	assert.True(t, eligible)
	assert.Empty(t, reasons)
	f.pointsSvc.AssertNotCalled(t, "GetPointsSummary", ctx, int32(2))
}

func TestGetSwap_IncludesActiveBoost(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.swapRepo.On("GetByID", ctx, int32(7)).Return(&domain.MultiPartySwap{
		ID: 7, Status: domain.SwapStatusRecruiting, OrganizerUserID: 1,
	}, nil).Once()
	f.swapRepo.On("ListParticipants", ctx, int32(7)).Return([]domain.SwapParticipant{
		{ID: 12, SwapID: 7, UserID: 2, Status: domain.ParticipantStatusConfirmed},
	}, nil).Once()
	f.swapRepo.On("GetActiveBoost", ctx, int32(7)).
		Return(&domain.SwapBoost{ID: 3, SwapID: 7, Multiplier: 2.0, Active: true}, nil).Once()

	swap, participants, boost, err := f.svc.GetSwap(ctx, 2, 7)

	assert.NoError(t, err)
	assert.Equal(t, int32(7), swap.ID)
	assert.Len(t, participants, 1)
	assert.NotNil(t, boost)
	assert.Equal(t, 2.0, boost.Multiplier)
	f.swapRepo.AssertExpectations(t)
}

func TestGetSwap_NoActiveBoost(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.swapRepo.On("GetByID", ctx, int32(7)).Return(&domain.MultiPartySwap{
		ID: 7, Status: domain.SwapStatusRecruiting, OrganizerUserID: 1,
	}, nil).Once()
	f.swapRepo.On("ListParticipants", ctx, int32(7)).Return([]domain.SwapParticipant{}, nil).Once()
	f.swapRepo.On("GetActiveBoost", ctx, int32(7)).Return(nil, sql.ErrNoRows).Once()

	_, _, boost, err := f.svc.GetSwap(ctx, 2, 7)

	assert.NoError(t, err)
	assert.Nil(t, boost)
}

func TestJoinSwap_FillsSwap(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	swap := &domain.MultiPartySwap{
		ID:                7,
		Status:            domain.SwapStatusRecruiting,
		OrganizerUserID:   1,
		TargetAmountCents: 10000,
		FilledAmountCents: 6000,
		MaxParticipants:   3,
	}
	f.swapRepo.On("GetByID", ctx, int32(7)).Return(swap, nil).Once()
	f.userRepo.On("GetByID", ctx, int32(2)).Return(verifiedUser(2), nil).Once()
	f.swapRepo.On("CountCompletedByUser", ctx, int32(2)).Return(int32(3), nil).Once()
	f.pointsSvc.On("GetPointsSummary", ctx, int32(2)).
		Return(&domain.PointsSummary{Balance: 350}, nil).Once()
	f.swapRepo.On("ListParticipants", ctx, int32(7)).Return([]domain.SwapParticipant{
		{SwapID: 7, UserID: 3, Status: domain.ParticipantStatusConfirmed, ContributionCents: 6000},
	}, nil).Once()
	f.swapRepo.On("AddParticipant", ctx, mock.MatchedBy(func(p *domain.SwapParticipant) bool {
		return p.SwapID == int32(7) && p.UserID == int32(2) &&
			p.ContributionCents == int64(4000) &&
			p.Status == domain.ParticipantStatusConfirmed
	})).Return(true, nil).Once()
	f.swapRepo.On("RecomputeFilledAmount", ctx, int32(7)).Return(int64(10000), nil).Once()
	f.swapRepo.On("CompareAndSetStatus", ctx, int32(7), domain.SwapStatusRecruiting, domain.SwapStatusFilled).
		Return(true, nil).Once()
	f.noteRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == int32(1)
	})).Return(nil).Once()

	participant, err := f.svc.JoinSwap(ctx, 2, 7, 4000, nil)

	assert.NoError(t, err)
	assert.Equal(t, domain.ParticipantStatusConfirmed, participant.Status)
	assert.Equal(t, domain.SwapStatusFilled, swap.Status)
	f.swapRepo.AssertExpectations(t)
}

func TestJoinSwap_DuplicateReportsExisting(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	swap := &domain.MultiPartySwap{
		ID: 7, Status: domain.SwapStatusRecruiting, OrganizerUserID: 1,
		TargetAmountCents: 10000, MaxParticipants: 3,
	}
	f.swapRepo.On("GetByID", ctx, int32(7)).Return(swap, nil).Once()
	f.userRepo.On("GetByID", ctx, int32(2)).Return(verifiedUser(2), nil).Once()
	f.swapRepo.On("CountCompletedByUser", ctx, int32(2)).Return(int32(3), nil).Once()
	f.pointsSvc.On("GetPointsSummary", ctx, int32(2)).
		Return(&domain.PointsSummary{Balance: 350}, nil).Once()
	f.swapRepo.On("ListParticipants", ctx, int32(7)).Return([]domain.SwapParticipant{}, nil).Once()
	f.swapRepo.On("AddParticipant", ctx, mock.Anything).Return(false, nil).Once()
	existing := &domain.SwapParticipant{ID: 12, SwapID: 7, UserID: 2, Status: domain.ParticipantStatusConfirmed}
	f.swapRepo.On("GetParticipant", ctx, int32(7), int32(2)).Return(existing, nil).Once()

	participant, err := f.svc.JoinSwap(ctx, 2, 7, 4000, nil)

	assert.True(t, domain.IsKind(err, domain.KindAlreadyExists))
	assert.Equal(t, int32(12), participant.ID)
}

func TestJoinSwap_RejectsOvershoot(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.swapRepo.On("GetByID", ctx, int32(7)).Return(&domain.MultiPartySwap{
		ID: 7, Status: domain.SwapStatusRecruiting, OrganizerUserID: 1,
		TargetAmountCents: 10000, FilledAmountCents: 8000, MaxParticipants: 3,
	}, nil).Once()

	_, err := f.svc.JoinSwap(ctx, 2, 7, 4000, nil)

	assert.True(t, domain.IsKind(err, domain.KindValidationFailed))
}

func TestJoinSwap_OrganizerCannotJoin(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.swapRepo.On("GetByID", ctx, int32(7)).Return(&domain.MultiPartySwap{
		ID: 7, Status: domain.SwapStatusRecruiting, OrganizerUserID: 1,
		TargetAmountCents: 10000, MaxParticipants: 3,
	}, nil).Once()

	_, err := f.svc.JoinSwap(ctx, 1, 7, 4000, nil)

	assert.True(t, domain.IsKind(err, domain.KindValidationFailed))
}

func TestJoinSwap_AtCapacity(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.swapRepo.On("GetByID", ctx, int32(7)).Return(&domain.MultiPartySwap{
		ID: 7, Status: domain.SwapStatusRecruiting, OrganizerUserID: 1,
		TargetAmountCents: 10000, MaxParticipants: 2,
	}, nil).Once()
	f.userRepo.On("GetByID", ctx, int32(2)).Return(verifiedUser(2), nil).Once()
	f.swapRepo.On("CountCompletedByUser", ctx, int32(2)).Return(int32(3), nil).Once()
	f.pointsSvc.On("GetPointsSummary", ctx, int32(2)).
		Return(&domain.PointsSummary{Balance: 350}, nil).Once()
	f.swapRepo.On("ListParticipants", ctx, int32(7)).Return([]domain.SwapParticipant{
		{UserID: 3, Status: domain.ParticipantStatusConfirmed},
		{UserID: 4, Status: domain.ParticipantStatusPaid},
		// Declined slots are free again.
		{UserID: 5, Status: domain.ParticipantStatusDeclined},
	}, nil).Once()

	_, err := f.svc.JoinSwap(ctx, 2, 7, 1000, nil)

	assert.True(t, domain.IsKind(err, domain.KindCapacityExceeded))
}

func TestMarkPaid(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.swapRepo.On("GetParticipant", ctx, int32(7), int32(2)).
		Return(&domain.SwapParticipant{ID: 12, SwapID: 7, UserID: 2, Status: domain.ParticipantStatusConfirmed}, nil).Once()
	f.swapRepo.On("UpdateParticipant", ctx, mock.MatchedBy(func(p *domain.SwapParticipant) bool {
		return p.Status == domain.ParticipantStatusPaid && p.FeePaid
	})).Return(nil).Once()

	err := f.svc.MarkPaid(ctx, 2, 7)

	assert.NoError(t, err)
	f.swapRepo.AssertExpectations(t)
}

func TestMarkPaid_WrongState(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.swapRepo.On("GetParticipant", ctx, int32(7), int32(2)).
		Return(&domain.SwapParticipant{ID: 12, SwapID: 7, UserID: 2, Status: domain.ParticipantStatusInvited}, nil).Once()

	err := f.svc.MarkPaid(ctx, 2, 7)

	assert.True(t, domain.IsKind(err, domain.KindConflict))
}

func TestVerifyParticipant_RequiresOrganizer(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.swapRepo.On("GetByID", ctx, int32(7)).Return(&domain.MultiPartySwap{
		ID: 7, Status: domain.SwapStatusInProgress, OrganizerUserID: 1,
	}, nil).Once()

	err := f.svc.VerifyParticipant(ctx, 99, 7, 2, "https://img.example.com/proof.png")

	assert.True(t, domain.IsKind(err, domain.KindInsufficientPermissions))
}

func TestVerifyParticipant_SetsScreenshot(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.swapRepo.On("GetByID", ctx, int32(7)).Return(&domain.MultiPartySwap{
		ID: 7, Status: domain.SwapStatusInProgress, OrganizerUserID: 1,
	}, nil).Once()
	f.swapRepo.On("GetParticipant", ctx, int32(7), int32(2)).
		Return(&domain.SwapParticipant{ID: 12, SwapID: 7, UserID: 2, Status: domain.ParticipantStatusPaid}, nil).Once()
	f.swapRepo.On("UpdateParticipant", ctx, mock.MatchedBy(func(p *domain.SwapParticipant) bool {
		return p.Status == domain.ParticipantStatusVerified &&
			p.ScreenshotURL == "https://img.example.com/proof.png" &&
			p.ScreenshotVerified
	})).Return(nil).Once()

	err := f.svc.VerifyParticipant(ctx, 1, 7, 2, "https://img.example.com/proof.png")

	assert.NoError(t, err)
	f.swapRepo.AssertExpectations(t)
}

func TestDeclineParticipant_ReopensFilledSwap(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	swap := &domain.MultiPartySwap{
		ID: 7, Status: domain.SwapStatusFilled, OrganizerUserID: 1,
		TargetAmountCents: 10000, FilledAmountCents: 10000, MaxParticipants: 3,
	}
	f.swapRepo.On("GetByID", ctx, int32(7)).Return(swap, nil).Once()
	f.swapRepo.On("GetParticipant", ctx, int32(7), int32(2)).
		Return(&domain.SwapParticipant{ID: 12, SwapID: 7, UserID: 2, Status: domain.ParticipantStatusConfirmed, ContributionCents: 4000}, nil).Once()
	f.swapRepo.On("UpdateParticipant", ctx, mock.MatchedBy(func(p *domain.SwapParticipant) bool {
		return p.Status == domain.ParticipantStatusDeclined
	})).Return(nil).Once()
	f.swapRepo.On("RecomputeFilledAmount", ctx, int32(7)).Return(int64(6000), nil).Once()
	f.swapRepo.On("CompareAndSetStatus", ctx, int32(7), domain.SwapStatusFilled, domain.SwapStatusRecruiting).
		Return(true, nil).Once()

	err := f.svc.DeclineParticipant(ctx, 2, 7)

	assert.NoError(t, err)
	assert.Equal(t, domain.SwapStatusRecruiting, swap.Status)
	f.swapRepo.AssertExpectations(t)
}

func TestStartSwap_NotFilled(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.swapRepo.On("GetByID", ctx, int32(7)).Return(&domain.MultiPartySwap{
		ID: 7, Status: domain.SwapStatusRecruiting, OrganizerUserID: 1,
	}, nil).Once()
	f.swapRepo.On("CompareAndSetStatus", ctx, int32(7), domain.SwapStatusFilled, domain.SwapStatusInProgress).
		Return(false, nil).Once()

	err := f.svc.StartSwap(ctx, 1, 7)

	assert.True(t, domain.IsKind(err, domain.KindConflict))
}

func TestCompleteSwap_RewardsCountedParticipants(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	swap := &domain.MultiPartySwap{
		ID: 7, Status: domain.SwapStatusInProgress, OrganizerUserID: 1,
		TargetAmountCents: 10000,
	}
	f.swapRepo.On("GetByID", ctx, int32(7)).Return(swap, nil).Once()
	f.swapRepo.On("CompareAndSetStatus", ctx, int32(7), domain.SwapStatusInProgress, domain.SwapStatusCompleted).
		Return(true, nil).Once()
	f.swapRepo.On("ListParticipants", ctx, int32(7)).Return([]domain.SwapParticipant{
		{ID: 12, SwapID: 7, UserID: 2, Status: domain.ParticipantStatusVerified, ContributionCents: 10000},
		{ID: 13, SwapID: 7, UserID: 3, Status: domain.ParticipantStatusDeclined},
	}, nil).Once()
	f.swapRepo.On("UpdateParticipant", ctx, mock.MatchedBy(func(p *domain.SwapParticipant) bool {
		return p.ID == int32(12) && p.CompletedAt != nil && p.Rating != nil && *p.Rating == int32(5)
	})).Return(nil).Once()

	// The verified participant and the organizer are both rewarded; the
	// declined participant is not.
	f.pointsSvc.On("AwardSwapCompletionPoints", ctx, int32(2), int32(7)).Return(int32(70), nil).Once()
	f.pointsSvc.On("AwardSwapCompletionPoints", ctx, int32(1), int32(7)).Return(int32(50), nil).Once()
	f.memberRepo.On("GetActiveByUser", ctx, mock.Anything).Return(nil, sql.ErrNoRows).Twice()
	f.noteRepo.On("Create", ctx, mock.Anything).Return(nil).Twice()
	f.userRepo.On("GetByID", ctx, mock.Anything).Return(nil, sql.ErrNoRows).Twice()

	err := f.svc.CompleteSwap(ctx, 1, 7, map[int32]int32{2: 5})

	assert.NoError(t, err)
	f.swapRepo.AssertExpectations(t)
	f.pointsSvc.AssertExpectations(t)
}

func TestCompleteSwap_InvalidRating(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.swapRepo.On("GetByID", ctx, int32(7)).Return(&domain.MultiPartySwap{
		ID: 7, Status: domain.SwapStatusInProgress, OrganizerUserID: 1,
	}, nil).Once()

	err := f.svc.CompleteSwap(ctx, 1, 7, map[int32]int32{2: 6})

	assert.True(t, domain.IsKind(err, domain.KindValidationFailed))
	f.swapRepo.AssertNotCalled(t, "CompareAndSetStatus", ctx, int32(7), domain.SwapStatusInProgress, domain.SwapStatusCompleted)
}

func TestCompleteSwap_NotInProgress(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.swapRepo.On("GetByID", ctx, int32(7)).Return(&domain.MultiPartySwap{
		ID: 7, Status: domain.SwapStatusRecruiting, OrganizerUserID: 1,
	}, nil).Once()
	f.swapRepo.On("CompareAndSetStatus", ctx, int32(7), domain.SwapStatusInProgress, domain.SwapStatusCompleted).
		Return(false, nil).Once()

	err := f.svc.CompleteSwap(ctx, 1, 7, nil)

	assert.True(t, domain.IsKind(err, domain.KindConflict))
}

func TestCancelSwap_TerminalState(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.swapRepo.On("GetByID", ctx, int32(7)).Return(&domain.MultiPartySwap{
		ID: 7, Status: domain.SwapStatusCompleted, OrganizerUserID: 1,
	}, nil).Once()

	err := f.svc.CancelSwap(ctx, 1, 7)

	assert.True(t, domain.IsKind(err, domain.KindConflict))
}

func TestCancelSwap_Success(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.swapRepo.On("GetByID", ctx, int32(7)).Return(&domain.MultiPartySwap{
		ID: 7, Status: domain.SwapStatusRecruiting, OrganizerUserID: 1,
	}, nil).Once()
	f.swapRepo.On("CompareAndSetStatus", ctx, int32(7), domain.SwapStatusRecruiting, domain.SwapStatusCancelled).
		Return(true, nil).Once()

	err := f.svc.CancelSwap(ctx, 1, 7)

	assert.NoError(t, err)
	f.swapRepo.AssertExpectations(t)
}

func TestBoostSwap_Defaults(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.swapRepo.On("GetByID", ctx, int32(7)).Return(&domain.MultiPartySwap{
		ID: 7, Status: domain.SwapStatusRecruiting, OrganizerUserID: 1,
	}, nil).Once()
	f.swapRepo.On("CreateBoost", ctx, mock.MatchedBy(func(b *domain.SwapBoost) bool {
		return b.SwapID == int32(7) && b.Multiplier == domain.BoostMultiplierDefault && b.Active
	})).Return(nil).Once()

	boost, err := f.svc.BoostSwap(ctx, 1, 7, 0, 0)

	assert.NoError(t, err)
	assert.InDelta(t, 24*time.Hour.Hours(), time.Until(boost.ExpiresAt).Hours(), 0.1)
	f.swapRepo.AssertExpectations(t)
}

func TestBoostSwap_MultiplierOutOfRange(t *testing.T) {
	ctx := context.Background()
	f := newSwapFixture()

	f.swapRepo.On("GetByID", ctx, int32(7)).Return(&domain.MultiPartySwap{
		ID: 7, Status: domain.SwapStatusRecruiting, OrganizerUserID: 1,
	}, nil).Once()

	_, err := f.svc.BoostSwap(ctx, 1, 7, 9.5, 24)

	assert.True(t, domain.IsKind(err, domain.KindValidationFailed))
}
