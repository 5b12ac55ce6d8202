package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hearthshare-backend/internal/config"
	"hearthshare-backend/internal/domain"
	"hearthshare-backend/internal/logger"
	"hearthshare-backend/internal/repository"
)

type swapService struct {
	swapRepo   repository.SwapRepository
	userRepo   repository.UserRepository
	memberRepo repository.MemberRepository
	karmaRepo  repository.KarmaRepository
	noteRepo   repository.NotificationRepository
	pointsSvc  PointsService
	emailSvc   EmailService
	swapCfg    config.SwapConfig
	karmaCfg   config.KarmaConfig
	log        *slog.Logger
}

func NewSwapService(
	swapRepo repository.SwapRepository,
	userRepo repository.UserRepository,
	memberRepo repository.MemberRepository,
	karmaRepo repository.KarmaRepository,
	noteRepo repository.NotificationRepository,
	pointsSvc PointsService,
	emailSvc EmailService,
	swapCfg config.SwapConfig,
	karmaCfg config.KarmaConfig,
) SwapService {
	return &swapService{
		swapRepo:   swapRepo,
		userRepo:   userRepo,
		memberRepo: memberRepo,
		karmaRepo:  karmaRepo,
		noteRepo:   noteRepo,
		pointsSvc:  pointsSvc,
		emailSvc:   emailSvc,
		swapCfg:    swapCfg,
		karmaCfg:   karmaCfg,
		log:        logger.WithService("swap"),
	}
}

func (s *swapService) CreateSwap(ctx context.Context, organizerID int32, swap *domain.MultiPartySwap) (*domain.MultiPartySwap, error) {
	if !swap.SwapType.Valid() {
		return nil, domain.E(domain.KindValidationFailed, fmt.Sprintf("unknown swap type %q", swap.SwapType))
	}
	if swap.TargetAmountCents <= 0 {
		return nil, domain.E(domain.KindValidationFailed, "target amount must be positive")
	}
	if swap.MaxParticipants < 2 {
		return nil, domain.E(domain.KindValidationFailed, "a swap needs at least 2 participants")
	}
	if swap.MinContribution != nil && *swap.MinContribution <= 0 {
		return nil, domain.E(domain.KindValidationFailed, "minimum contribution must be positive")
	}
	if swap.TierRequired < 0 || swap.TierRequired > 3 {
		return nil, domain.E(domain.KindValidationFailed, "tier must be between 0 and 3")
	}
	if swap.ExecutionDeadline != nil && swap.ExecutionDeadline.Before(time.Now()) {
		return nil, domain.E(domain.KindValidationFailed, "deadline must be in the future")
	}

	eligible, reasons, err := s.CheckEligibility(ctx, organizerID, false)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, domain.E(domain.KindInsufficientPermissions, fmt.Sprintf("not eligible to request a swap: %v", reasons))
	}

	active, err := s.swapRepo.CountActiveRequestsByUser(ctx, organizerID)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "active request count failed", err)
	}
	if active >= s.swapCfg.MaxActiveRequests {
		return nil, domain.E(domain.KindCapacityExceeded, fmt.Sprintf("at most %d active swap requests allowed", s.swapCfg.MaxActiveRequests))
	}

	swap.OrganizerUserID = organizerID
	swap.Status = domain.SwapStatusRecruiting
	swap.FilledAmountCents = 0
	if err := s.swapRepo.Create(ctx, swap); err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "swap creation failed", err)
	}

	s.log.Info("swap created", "swap_id", swap.ID, "organizer_user_id", organizerID, "type", swap.SwapType, "target_cents", swap.TargetAmountCents)
	return swap, nil
}

func (s *swapService) GetSwap(ctx context.Context, userID, swapID int32) (*domain.MultiPartySwap, []domain.SwapParticipant, *domain.SwapBoost, error) {
	swap, err := s.getSwap(ctx, swapID)
	if err != nil {
		return nil, nil, nil, err
	}
	participants, err := s.swapRepo.ListParticipants(ctx, swapID)
	if err != nil {
		return nil, nil, nil, domain.Wrap(domain.KindUnavailable, "participant listing failed", err)
	}
	boost, err := s.swapRepo.GetActiveBoost(ctx, swapID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil, domain.Wrap(domain.KindUnavailable, "boost lookup failed", err)
		}
		boost = nil
	}
	return swap, participants, boost, nil
}

func (s *swapService) ListMySwaps(ctx context.Context, userID int32, page, pageSize int32) ([]domain.MultiPartySwap, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	swaps, count, err := s.swapRepo.ListByOrganizer(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, domain.Wrap(domain.KindUnavailable, "swap listing failed", err)
	}
	return swaps, count, nil
}

// CheckEligibility applies the participation gates: account standing,
// verified contact details and a minimum of successful swaps; offering help
// additionally requires a points floor.
func (s *swapService) CheckEligibility(ctx context.Context, userID int32, offering bool) (bool, []string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil, domain.E(domain.KindNotFound, "user not found")
		}
		return false, nil, domain.Wrap(domain.KindUnavailable, "user lookup failed", err)
	}

	var reasons []string
	if user.Banned {
		reasons = append(reasons, "account is banned")
	}
	if !user.EmailVerified {
		reasons = append(reasons, "email is not verified")
	}
	if !user.PhoneVerified {
		reasons = append(reasons, "phone number is not verified")
	}

	completed, err := s.swapRepo.CountCompletedByUser(ctx, userID)
	if err != nil {
		return false, nil, domain.Wrap(domain.KindUnavailable, "completed swap count failed", err)
	}
	if completed < s.swapCfg.MinSuccessfulSwaps {
		reasons = append(reasons, fmt.Sprintf("needs %d successful swaps, has %d", s.swapCfg.MinSuccessfulSwaps, completed))
	}

	if offering {
		summary, err := s.pointsSvc.GetPointsSummary(ctx, userID)
		if err != nil {
			return false, nil, err
		}
		if summary.Balance < s.swapCfg.OfferMinPoints {
			reasons = append(reasons, fmt.Sprintf("needs %d points to offer help, has %d", s.swapCfg.OfferMinPoints, summary.Balance))
		}
	}

	return len(reasons) == 0, reasons, nil
}

func (s *swapService) JoinSwap(ctx context.Context, userID, swapID int32, contributionCents int64, billID *int32) (*domain.SwapParticipant, error) {
	swap, err := s.getSwap(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if swap.Status != domain.SwapStatusRecruiting {
		return nil, domain.E(domain.KindConflict, "swap is not recruiting")
	}
	if swap.OrganizerUserID == userID {
		return nil, domain.E(domain.KindValidationFailed, "organizer cannot join their own swap")
	}
	if contributionCents <= 0 {
		return nil, domain.E(domain.KindValidationFailed, "contribution must be positive")
	}
	if swap.MinContribution != nil && contributionCents < *swap.MinContribution {
		return nil, domain.E(domain.KindValidationFailed, fmt.Sprintf("contribution is below the minimum of %d cents", *swap.MinContribution))
	}
	if swap.FilledAmountCents+contributionCents > swap.TargetAmountCents {
		return nil, domain.E(domain.KindValidationFailed, "contribution would exceed the target amount")
	}

	eligible, reasons, err := s.CheckEligibility(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, domain.E(domain.KindInsufficientPermissions, fmt.Sprintf("not eligible to offer help: %v", reasons))
	}

	participants, err := s.swapRepo.ListParticipants(ctx, swapID)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "participant listing failed", err)
	}
	var occupied int32
	for _, p := range participants {
		if p.Status != domain.ParticipantStatusDeclined && p.Status != domain.ParticipantStatusRemoved {
			occupied++
		}
	}
	if occupied >= swap.MaxParticipants {
		return nil, domain.E(domain.KindCapacityExceeded, "swap is at participant capacity")
	}

	participant := &domain.SwapParticipant{
		SwapID:            swapID,
		UserID:            userID,
		BillID:            billID,
		ContributionCents: contributionCents,
		Status:            domain.ParticipantStatusConfirmed,
	}
	inserted, err := s.swapRepo.AddParticipant(ctx, participant)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "participant insert failed", err)
	}
	if !inserted {
		// The unique constraint absorbed a concurrent duplicate join; report
		// the existing row instead of failing.
		existing, err := s.swapRepo.GetParticipant(ctx, swapID, userID)
		if err != nil {
			return nil, domain.Wrap(domain.KindUnavailable, "participant lookup failed", err)
		}
		return existing, domain.E(domain.KindAlreadyExists, "already participating in this swap")
	}

	if err := s.settleFillState(ctx, swap); err != nil {
		return nil, err
	}

	note := &domain.Notification{
		UserID:  swap.OrganizerUserID,
		Title:   "New Swap Participant",
		Message: fmt.Sprintf("Someone joined your swap with %d cents", contributionCents),
		Attributes: map[string]string{
			"type":    "SWAP_JOINED",
			"swap_id": fmt.Sprintf("%d", swapID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		s.log.Error("join notification failed", "swap_id", swapID, "user_id", userID, "error", err)
	}

	s.log.Info("participant joined swap", "swap_id", swapID, "user_id", userID, "contribution_cents", contributionCents)
	return participant, nil
}

func (s *swapService) ConfirmParticipant(ctx context.Context, callerID, swapID, participantUserID int32) error {
	swap, err := s.requireOrganizer(ctx, callerID, swapID)
	if err != nil {
		return err
	}
	participant, err := s.getParticipant(ctx, swapID, participantUserID)
	if err != nil {
		return err
	}
	if !participant.Status.CanTransitionTo(domain.ParticipantStatusConfirmed) {
		return domain.E(domain.KindConflict, fmt.Sprintf("cannot confirm a %s participant", participant.Status))
	}

	participant.Status = domain.ParticipantStatusConfirmed
	if err := s.swapRepo.UpdateParticipant(ctx, participant); err != nil {
		return domain.Wrap(domain.KindUnavailable, "participant update failed", err)
	}
	return s.settleFillState(ctx, swap)
}

func (s *swapService) MarkPaid(ctx context.Context, userID, swapID int32) error {
	participant, err := s.getParticipant(ctx, swapID, userID)
	if err != nil {
		return err
	}
	if !participant.Status.CanTransitionTo(domain.ParticipantStatusPaid) {
		return domain.E(domain.KindConflict, fmt.Sprintf("cannot mark a %s participant paid", participant.Status))
	}

	participant.Status = domain.ParticipantStatusPaid
	participant.FeePaid = true
	if err := s.swapRepo.UpdateParticipant(ctx, participant); err != nil {
		return domain.Wrap(domain.KindUnavailable, "participant update failed", err)
	}
	return nil
}

func (s *swapService) VerifyParticipant(ctx context.Context, callerID, swapID, participantUserID int32, screenshotURL string) error {
	if _, err := s.requireOrganizer(ctx, callerID, swapID); err != nil {
		return err
	}
	participant, err := s.getParticipant(ctx, swapID, participantUserID)
	if err != nil {
		return err
	}
	if !participant.Status.CanTransitionTo(domain.ParticipantStatusVerified) {
		return domain.E(domain.KindConflict, fmt.Sprintf("cannot verify a %s participant", participant.Status))
	}

	participant.Status = domain.ParticipantStatusVerified
	participant.ScreenshotURL = screenshotURL
	participant.ScreenshotVerified = screenshotURL != ""
	if err := s.swapRepo.UpdateParticipant(ctx, participant); err != nil {
		return domain.Wrap(domain.KindUnavailable, "participant update failed", err)
	}
	return nil
}

func (s *swapService) DeclineParticipant(ctx context.Context, userID, swapID int32) error {
	swap, err := s.getSwap(ctx, swapID)
	if err != nil {
		return err
	}
	participant, err := s.getParticipant(ctx, swapID, userID)
	if err != nil {
		return err
	}
	if !participant.Status.CanTransitionTo(domain.ParticipantStatusDeclined) {
		return domain.E(domain.KindConflict, fmt.Sprintf("cannot decline from %s", participant.Status))
	}

	participant.Status = domain.ParticipantStatusDeclined
	if err := s.swapRepo.UpdateParticipant(ctx, participant); err != nil {
		return domain.Wrap(domain.KindUnavailable, "participant update failed", err)
	}
	return s.settleFillState(ctx, swap)
}

func (s *swapService) RemoveParticipant(ctx context.Context, callerID, swapID, participantUserID int32) error {
	swap, err := s.requireOrganizer(ctx, callerID, swapID)
	if err != nil {
		return err
	}
	participant, err := s.getParticipant(ctx, swapID, participantUserID)
	if err != nil {
		return err
	}
	if !participant.Status.CanTransitionTo(domain.ParticipantStatusRemoved) {
		return domain.E(domain.KindConflict, fmt.Sprintf("cannot remove a %s participant", participant.Status))
	}

	participant.Status = domain.ParticipantStatusRemoved
	if err := s.swapRepo.UpdateParticipant(ctx, participant); err != nil {
		return domain.Wrap(domain.KindUnavailable, "participant update failed", err)
	}

	note := &domain.Notification{
		UserID:  participantUserID,
		Title:   "Removed from Swap",
		Message: "The organizer removed you from a swap",
		Attributes: map[string]string{
			"type":    "SWAP_REMOVED",
			"swap_id": fmt.Sprintf("%d", swapID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		s.log.Error("removal notification failed", "swap_id", swapID, "user_id", participantUserID, "error", err)
	}

	return s.settleFillState(ctx, swap)
}

func (s *swapService) StartSwap(ctx context.Context, callerID, swapID int32) error {
	if _, err := s.requireOrganizer(ctx, callerID, swapID); err != nil {
		return err
	}
	ok, err := s.swapRepo.CompareAndSetStatus(ctx, swapID, domain.SwapStatusFilled, domain.SwapStatusInProgress)
	if err != nil {
		return domain.Wrap(domain.KindUnavailable, "status transition failed", err)
	}
	if !ok {
		return domain.E(domain.KindConflict, "swap is not filled")
	}
	s.log.Info("swap started", "swap_id", swapID)
	return nil
}

func (s *swapService) CompleteSwap(ctx context.Context, callerID, swapID int32, ratings map[int32]int32) error {
	swap, err := s.requireOrganizer(ctx, callerID, swapID)
	if err != nil {
		return err
	}
	for userID, rating := range ratings {
		if rating < 1 || rating > 5 {
			return domain.E(domain.KindValidationFailed, fmt.Sprintf("rating for user %d must be between 1 and 5", userID))
		}
	}

	ok, err := s.swapRepo.CompareAndSetStatus(ctx, swapID, domain.SwapStatusInProgress, domain.SwapStatusCompleted)
	if err != nil {
		return domain.Wrap(domain.KindUnavailable, "status transition failed", err)
	}
	if !ok {
		return domain.E(domain.KindConflict, "swap is not in progress")
	}

	participants, err := s.swapRepo.ListParticipants(ctx, swapID)
	if err != nil {
		return domain.Wrap(domain.KindUnavailable, "participant listing failed", err)
	}

	now := time.Now()
	for i := range participants {
		p := &participants[i]
		if !p.Status.CountsTowardFill() {
			continue
		}
		p.CompletedAt = &now
		if rating, ok := ratings[p.UserID]; ok {
			p.Rating = &rating
		}
		if err := s.swapRepo.UpdateParticipant(ctx, p); err != nil {
			return domain.Wrap(domain.KindUnavailable, "participant update failed", err)
		}
		s.rewardCompletion(ctx, p.UserID, swap)
	}
	s.rewardCompletion(ctx, swap.OrganizerUserID, swap)

	s.log.Info("swap completed", "swap_id", swapID, "participants", len(participants))
	return nil
}

// rewardCompletion credits points, karma and a receipt for one finished
// participant. Failures are logged and never unwind the completed swap.
func (s *swapService) rewardCompletion(ctx context.Context, userID int32, swap *domain.MultiPartySwap) {
	points, err := s.pointsSvc.AwardSwapCompletionPoints(ctx, userID, swap.ID)
	if err != nil {
		s.log.Error("completion points failed", "swap_id", swap.ID, "user_id", userID, "error", err)
	}

	if member, err := s.memberRepo.GetActiveByUser(ctx, userID); err == nil {
		event := &domain.KarmaEvent{
			HouseholdID: member.HouseholdID,
			UserID:      userID,
			EventType:   domain.KarmaEventSwapCompleted,
			KarmaChange: s.karmaCfg.SwapCompletedPoints,
			Description: fmt.Sprintf("completed swap %d", swap.ID),
		}
		if err := s.karmaRepo.CreateEventAndApply(ctx, event); err != nil {
			s.log.Error("completion karma failed", "swap_id", swap.ID, "user_id", userID, "error", err)
		}
	}

	note := &domain.Notification{
		UserID:  userID,
		Title:   "Swap Completed",
		Message: fmt.Sprintf("You earned %d points for completing a swap", points),
		Attributes: map[string]string{
			"type":    "SWAP_COMPLETED",
			"swap_id": fmt.Sprintf("%d", swap.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		s.log.Error("completion notification failed", "swap_id", swap.ID, "user_id", userID, "error", err)
	}

	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		if err := s.emailSvc.SendSwapCompletionReceipt(ctx, user.Email, user.Name, swap.TargetAmountCents, points); err != nil {
			logger.ExternalServiceResult("smtp", "SendSwapCompletionReceipt", err, "swap_id", swap.ID, "user_id", userID)
		}
	}
}

func (s *swapService) CancelSwap(ctx context.Context, callerID, swapID int32) error {
	swap, err := s.requireOrganizer(ctx, callerID, swapID)
	if err != nil {
		return err
	}
	if !swap.Status.CanTransitionTo(domain.SwapStatusCancelled) {
		return domain.E(domain.KindConflict, fmt.Sprintf("cannot cancel a %s swap", swap.Status))
	}
	ok, err := s.swapRepo.CompareAndSetStatus(ctx, swapID, swap.Status, domain.SwapStatusCancelled)
	if err != nil {
		return domain.Wrap(domain.KindUnavailable, "status transition failed", err)
	}
	if !ok {
		return domain.E(domain.KindConflict, "swap changed state, retry")
	}
	s.log.Info("swap cancelled", "swap_id", swapID)
	return nil
}

func (s *swapService) BoostSwap(ctx context.Context, callerID, swapID int32, multiplier float64, durationHours int32) (*domain.SwapBoost, error) {
	swap, err := s.requireOrganizer(ctx, callerID, swapID)
	if err != nil {
		return nil, err
	}
	if swap.Status.Terminal() {
		return nil, domain.E(domain.KindConflict, "cannot boost a finished swap")
	}
	if multiplier == 0 {
		multiplier = domain.BoostMultiplierDefault
	}
	if multiplier < domain.BoostMultiplierMin || multiplier > domain.BoostMultiplierMax {
		return nil, domain.E(domain.KindValidationFailed, fmt.Sprintf("multiplier must be between %.1f and %.1f", domain.BoostMultiplierMin, domain.BoostMultiplierMax))
	}
	if durationHours <= 0 {
		durationHours = 24
	}

	boost := &domain.SwapBoost{
		SwapID:     swapID,
		Multiplier: multiplier,
		Active:     true,
		ExpiresAt:  time.Now().Add(time.Duration(durationHours) * time.Hour),
	}
	if err := s.swapRepo.CreateBoost(ctx, boost); err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "boost creation failed", err)
	}
	return boost, nil
}

// settleFillState recomputes the filled amount from counted contributions and
// flips recruiting/filled to match it. The cached counter is never trusted
// when deciding a transition.
func (s *swapService) settleFillState(ctx context.Context, swap *domain.MultiPartySwap) error {
	filled, err := s.swapRepo.RecomputeFilledAmount(ctx, swap.ID)
	if err != nil {
		return domain.Wrap(domain.KindUnavailable, "fill recompute failed", err)
	}
	swap.FilledAmountCents = filled

	switch {
	case filled >= swap.TargetAmountCents && swap.Status == domain.SwapStatusRecruiting:
		ok, err := s.swapRepo.CompareAndSetStatus(ctx, swap.ID, domain.SwapStatusRecruiting, domain.SwapStatusFilled)
		if err != nil {
			return domain.Wrap(domain.KindUnavailable, "status transition failed", err)
		}
		if ok {
			swap.Status = domain.SwapStatusFilled
			s.log.Info("swap filled", "swap_id", swap.ID, "filled_cents", filled)
		}
	case filled < swap.TargetAmountCents && swap.Status == domain.SwapStatusFilled:
		ok, err := s.swapRepo.CompareAndSetStatus(ctx, swap.ID, domain.SwapStatusFilled, domain.SwapStatusRecruiting)
		if err != nil {
			return domain.Wrap(domain.KindUnavailable, "status transition failed", err)
		}
		if ok {
			swap.Status = domain.SwapStatusRecruiting
		}
	}
	return nil
}

func (s *swapService) getSwap(ctx context.Context, swapID int32) (*domain.MultiPartySwap, error) {
	swap, err := s.swapRepo.GetByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.E(domain.KindNotFound, "swap not found")
		}
		return nil, domain.Wrap(domain.KindUnavailable, "swap lookup failed", err)
	}
	return swap, nil
}

func (s *swapService) requireOrganizer(ctx context.Context, callerID, swapID int32) (*domain.MultiPartySwap, error) {
	swap, err := s.getSwap(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if swap.OrganizerUserID != callerID {
		return nil, domain.E(domain.KindInsufficientPermissions, "")
	}
	return swap, nil
}

func (s *swapService) getParticipant(ctx context.Context, swapID, userID int32) (*domain.SwapParticipant, error) {
	participant, err := s.swapRepo.GetParticipant(ctx, swapID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.E(domain.KindNotFound, "participant not found")
		}
		return nil, domain.Wrap(domain.KindUnavailable, "participant lookup failed", err)
	}
	return participant, nil
}
