package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hearthshare-backend/internal/config"
	"hearthshare-backend/internal/domain"
	"hearthshare-backend/internal/logger"
	"hearthshare-backend/internal/repository"
)

type pointsService struct {
	pointsRepo repository.PointsRepository
	swapRepo   repository.SwapRepository
	pointsCfg  config.PointsConfig
	log        *slog.Logger
}

func NewPointsService(pointsRepo repository.PointsRepository, swapRepo repository.SwapRepository, pointsCfg config.PointsConfig) PointsService {
	return &pointsService{
		pointsRepo: pointsRepo,
		swapRepo:   swapRepo,
		pointsCfg:  pointsCfg,
		log:        logger.WithService("points"),
	}
}

func (s *pointsService) AddPoints(ctx context.Context, userID int32, delta int32, reason domain.PointsReason, relatedSwapID *int32, description string) error {
	if delta == 0 {
		return domain.E(domain.KindValidationFailed, "delta cannot be zero")
	}
	if !reason.Valid() {
		return domain.E(domain.KindValidationFailed, fmt.Sprintf("unknown points reason %q", reason))
	}

	entry := &domain.PointsLedgerEntry{
		UserID:        userID,
		DeltaPoints:   delta,
		Reason:        reason,
		RelatedSwapID: relatedSwapID,
		Description:   description,
	}
	if err := s.pointsRepo.Append(ctx, entry); err != nil {
		return domain.Wrap(domain.KindUnavailable, "ledger append failed", err)
	}
	return nil
}

// AwardSwapCompletionPoints credits the base per-swap amount and, when this
// is the user's first completed swap of the calendar day, a separate bonus
// entry. Returns the total credited.
func (s *pointsService) AwardSwapCompletionPoints(ctx context.Context, userID, swapID int32) (int32, error) {
	firstOfDay, err := s.IsFirstSwapOfDay(ctx, userID)
	if err != nil {
		return 0, err
	}

	base := &domain.PointsLedgerEntry{
		UserID:        userID,
		DeltaPoints:   s.pointsCfg.PerCompletedSwap,
		Reason:        domain.PointsReasonSwapCompleted,
		RelatedSwapID: &swapID,
		Description:   "swap completed",
	}
	if err := s.pointsRepo.Append(ctx, base); err != nil {
		return 0, domain.Wrap(domain.KindUnavailable, "ledger append failed", err)
	}
	total := base.DeltaPoints

	if firstOfDay {
		bonus := &domain.PointsLedgerEntry{
			UserID:        userID,
			DeltaPoints:   s.pointsCfg.FirstSwapBonus,
			Reason:        domain.PointsReasonFirstSwapBonus,
			RelatedSwapID: &swapID,
			Description:   "first swap of the day",
		}
		if err := s.pointsRepo.Append(ctx, bonus); err != nil {
			return total, domain.Wrap(domain.KindUnavailable, "bonus append failed", err)
		}
		total += bonus.DeltaPoints
	}

	today := time.Now().Format("2006-01-02")
	if err := s.pointsRepo.SetLastSwapDate(ctx, userID, today); err != nil {
		return total, domain.Wrap(domain.KindUnavailable, "last swap date update failed", err)
	}

	s.log.Info("swap completion points awarded", "user_id", userID, "swap_id", swapID, "points", total, "first_of_day", firstOfDay)
	return total, nil
}

func (s *pointsService) CanWaiveFee(ctx context.Context, userID int32) (bool, error) {
	balance, err := s.pointsRepo.GetBalance(ctx, userID)
	if err != nil {
		return false, domain.Wrap(domain.KindUnavailable, "balance query failed", err)
	}
	return balance >= s.pointsCfg.FeeWaiverCost, nil
}

func (s *pointsService) DeductPointsForFeeWaiver(ctx context.Context, userID, swapID int32) error {
	entry := &domain.PointsLedgerEntry{
		UserID:        userID,
		DeltaPoints:   -s.pointsCfg.FeeWaiverCost,
		Reason:        domain.PointsReasonFeeWaiver,
		RelatedSwapID: &swapID,
		Description:   "swap fee waived",
	}
	applied, err := s.pointsRepo.AppendIfBalanceAtLeast(ctx, entry, s.pointsCfg.FeeWaiverCost)
	if err != nil {
		return domain.Wrap(domain.KindUnavailable, "fee waiver debit failed", err)
	}
	if !applied {
		return domain.E(domain.KindInsufficientBalance, "not enough points for a fee waiver")
	}
	s.log.Info("fee waiver applied", "user_id", userID, "swap_id", swapID, "cost", s.pointsCfg.FeeWaiverCost)
	return nil
}

func (s *pointsService) IsFirstSwapOfDay(ctx context.Context, userID int32) (bool, error) {
	last, err := s.pointsRepo.GetLastSwapDate(ctx, userID)
	if err != nil {
		return false, domain.Wrap(domain.KindUnavailable, "last swap date query failed", err)
	}
	if last == nil {
		return true, nil
	}
	return *last != time.Now().Format("2006-01-02"), nil
}

func (s *pointsService) GetPointsSummary(ctx context.Context, userID int32) (*domain.PointsSummary, error) {
	balance, err := s.pointsRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "balance query failed", err)
	}
	lifetime, err := s.pointsRepo.SumPositiveEntries(ctx, userID)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "lifetime sum failed", err)
	}
	completed, err := s.swapRepo.CountCompletedByUser(ctx, userID)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "completed swap count failed", err)
	}
	waivers, err := s.pointsRepo.CountByReason(ctx, userID, domain.PointsReasonFeeWaiver)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "waiver count failed", err)
	}
	_, entryCount, err := s.pointsRepo.List(ctx, userID, 1, 1)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "entry count failed", err)
	}

	return &domain.PointsSummary{
		Balance:              balance,
		LifetimeEarned:       lifetime,
		ApproxLifetimeEarned: completed * s.pointsCfg.PerCompletedSwap,
		CompletedSwaps:       completed,
		FeeWaiversUsed:       waivers,
		EntryCount:           entryCount,
	}, nil
}

func (s *pointsService) GetHistory(ctx context.Context, userID int32, page, pageSize int32) ([]domain.PointsLedgerEntry, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	entries, count, err := s.pointsRepo.List(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, domain.Wrap(domain.KindUnavailable, "ledger query failed", err)
	}
	return entries, count, nil
}

func (s *pointsService) RebuildBalance(ctx context.Context, userID int32) (int32, error) {
	sum, err := s.pointsRepo.SumEntries(ctx, userID)
	if err != nil {
		return 0, domain.Wrap(domain.KindUnavailable, "ledger replay failed", err)
	}
	cached, err := s.pointsRepo.GetBalance(ctx, userID)
	if err != nil {
		return 0, domain.Wrap(domain.KindUnavailable, "balance query failed", err)
	}
	if cached != sum {
		s.log.Warn("points balance drift detected", "user_id", userID, "cached", cached, "ledger", sum)
		if _, err := s.pointsRepo.ReconcileBalances(ctx); err != nil {
			return 0, domain.Wrap(domain.KindUnavailable, "balance repair failed", err)
		}
	}
	return sum, nil
}
