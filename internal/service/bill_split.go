package service

import (
	"context"
	"database/sql"
	"errors"

	"hearthshare-backend/internal/domain"
	"hearthshare-backend/internal/repository"
	"hearthshare-backend/internal/split"
)

type splitService struct {
	householdRepo repository.HouseholdRepository
	memberRepo    repository.MemberRepository
}

func NewSplitService(householdRepo repository.HouseholdRepository, memberRepo repository.MemberRepository) SplitService {
	return &splitService{householdRepo: householdRepo, memberRepo: memberRepo}
}

func (s *splitService) CalculateBillSplit(ctx context.Context, userID, householdID int32, amountCents int64, excludeMemberIDs []int32) ([]domain.BillSplit, error) {
	if amountCents <= 0 {
		return nil, domain.E(domain.KindValidationFailed, "amount must be positive")
	}
	if err := s.requireMembership(ctx, userID, householdID); err != nil {
		return nil, err
	}

	household, err := s.householdRepo.GetByID(ctx, householdID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.E(domain.KindNotFound, "household not found")
		}
		return nil, domain.Wrap(domain.KindUnavailable, "household lookup failed", err)
	}
	members, err := s.memberRepo.ListActiveByHousehold(ctx, householdID)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "member listing failed", err)
	}

	splits := split.CalculateSplit(amountCents, household.FairnessMode, members, excludeMemberIDs)
	if len(splits) == 0 {
		return nil, domain.E(domain.KindValidationFailed, "no members to split across")
	}
	return splits, nil
}

func (s *splitService) SetEquityPercentages(ctx context.Context, callerID, householdID int32, shares map[int32]float64) error {
	caller, err := s.memberRepo.GetByHouseholdAndUser(ctx, householdID, callerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.E(domain.KindNotFound, "not a member of this household")
		}
		return domain.Wrap(domain.KindUnavailable, "membership lookup failed", err)
	}
	if !caller.Active {
		return domain.E(domain.KindNotFound, "not a member of this household")
	}
	if !caller.Role.CanEditSettings() {
		return domain.E(domain.KindInsufficientPermissions, "")
	}

	members, err := s.memberRepo.ListActiveByHousehold(ctx, householdID)
	if err != nil {
		return domain.Wrap(domain.KindUnavailable, "member listing failed", err)
	}

	percentages := make([]float64, 0, len(members))
	for _, m := range members {
		pct, ok := shares[m.ID]
		if !ok {
			return domain.E(domain.KindValidationFailed, "every active member needs a share")
		}
		if pct < 0 {
			return domain.E(domain.KindValidationFailed, "shares cannot be negative")
		}
		percentages = append(percentages, pct)
	}
	if len(shares) != len(members) {
		return domain.E(domain.KindValidationFailed, "shares reference members outside the household")
	}

	if result := split.ValidateCustomPercentages(percentages); !result.Valid {
		return domain.E(domain.KindValidationFailed, result.Message)
	}

	for i := range members {
		pct := shares[members[i].ID]
		members[i].EquityPercentage = &pct
		if err := s.memberRepo.Update(ctx, &members[i]); err != nil {
			return domain.Wrap(domain.KindUnavailable, "member update failed", err)
		}
	}
	return nil
}

func (s *splitService) CheckBalance(ctx context.Context, userID, householdID int32) (domain.BalanceStatus, error) {
	if err := s.requireMembership(ctx, userID, householdID); err != nil {
		return domain.BalanceStatusUnknown, err
	}
	members, err := s.memberRepo.ListActiveByHousehold(ctx, householdID)
	if err != nil {
		return domain.BalanceStatusUnknown, domain.Wrap(domain.KindUnavailable, "member listing failed", err)
	}
	return split.CheckBalance(members), nil
}

func (s *splitService) requireMembership(ctx context.Context, userID, householdID int32) error {
	member, err := s.memberRepo.GetByHouseholdAndUser(ctx, householdID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.E(domain.KindNotFound, "not a member of this household")
		}
		return domain.Wrap(domain.KindUnavailable, "membership lookup failed", err)
	}
	if !member.Active {
		return domain.E(domain.KindNotFound, "not a member of this household")
	}
	return nil
}
