package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sort"
	"time"

	"hearthshare-backend/internal/config"
	"hearthshare-backend/internal/domain"
	"hearthshare-backend/internal/logger"
	"hearthshare-backend/internal/repository"
)

type karmaService struct {
	karmaRepo     repository.KarmaRepository
	memberRepo    repository.MemberRepository
	householdRepo repository.HouseholdRepository
	karmaCfg      config.KarmaConfig
	log           *slog.Logger
}

func NewKarmaService(
	karmaRepo repository.KarmaRepository,
	memberRepo repository.MemberRepository,
	householdRepo repository.HouseholdRepository,
	karmaCfg config.KarmaConfig,
) KarmaService {
	return &karmaService{
		karmaRepo:     karmaRepo,
		memberRepo:    memberRepo,
		householdRepo: householdRepo,
		karmaCfg:      karmaCfg,
		log:           logger.WithService("karma"),
	}
}

func (s *karmaService) pointsFor(eventType domain.KarmaEventType) int32 {
	switch eventType {
	case domain.KarmaEventBillUploaded:
		return s.karmaCfg.BillUploadedPoints
	case domain.KarmaEventBillPaid:
		return s.karmaCfg.BillPaidPoints
	case domain.KarmaEventSwapCompleted:
		return s.karmaCfg.SwapCompletedPoints
	case domain.KarmaEventDisputeWon:
		return s.karmaCfg.DisputeWonPoints
	case domain.KarmaEventMemberJoined:
		return s.karmaCfg.MemberJoinedPoints
	}
	return 0
}

func (s *karmaService) AwardKarma(ctx context.Context, callerID, targetUserID int32, eventType domain.KarmaEventType, description string, relatedBillID *int32) (*domain.KarmaEvent, error) {
	if !eventType.Valid() || eventType == domain.KarmaEventAdjustment {
		return nil, domain.E(domain.KindValidationFailed, "unsupported karma event type")
	}

	caller, err := s.activeMembership(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if targetUserID == 0 {
		targetUserID = callerID
	}
	if targetUserID != callerID {
		if _, err := s.householdMembership(ctx, caller.HouseholdID, targetUserID); err != nil {
			return nil, err
		}
	}

	event := &domain.KarmaEvent{
		HouseholdID:   caller.HouseholdID,
		UserID:        targetUserID,
		EventType:     eventType,
		KarmaChange:   s.pointsFor(eventType),
		Description:   description,
		RelatedBillID: relatedBillID,
	}
	if err := s.karmaRepo.CreateEventAndApply(ctx, event); err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "karma award failed", err)
	}

	s.log.Info("karma awarded", "household_id", event.HouseholdID, "user_id", targetUserID, "event_type", eventType, "change", event.KarmaChange)
	return event, nil
}

func (s *karmaService) AdjustKarma(ctx context.Context, callerID, targetUserID, delta int32, description string) (*domain.KarmaEvent, error) {
	if delta == 0 {
		return nil, domain.E(domain.KindValidationFailed, "adjustment delta cannot be zero")
	}
	caller, err := s.activeMembership(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.Role.CanManageMembers() {
		return nil, domain.E(domain.KindInsufficientPermissions, "")
	}
	if _, err := s.householdMembership(ctx, caller.HouseholdID, targetUserID); err != nil {
		return nil, err
	}

	event := &domain.KarmaEvent{
		HouseholdID: caller.HouseholdID,
		UserID:      targetUserID,
		EventType:   domain.KarmaEventAdjustment,
		KarmaChange: delta,
		Description: description,
	}
	if err := s.karmaRepo.CreateEventAndApply(ctx, event); err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "karma adjustment failed", err)
	}
	return event, nil
}

func (s *karmaService) GetLeaderboard(ctx context.Context, userID, householdID int32) ([]domain.LeaderboardEntry, error) {
	if _, err := s.householdMembership(ctx, householdID, userID); err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListLeaderboard(ctx, householdID)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "leaderboard query failed", err)
	}

	prevPeriod := time.Now().UTC().AddDate(0, -1, 0).Format("2006-01")
	snapshots, err := s.karmaRepo.GetSnapshots(ctx, householdID, prevPeriod)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "snapshot query failed", err)
	}
	prevRanks := make(map[int32]int32, len(snapshots))
	for _, snap := range snapshots {
		prevRanks[snap.MemberID] = snap.Rank
	}

	entries := make([]domain.LeaderboardEntry, len(members))
	for i, m := range members {
		rank := int32(i + 1)
		entry := domain.LeaderboardEntry{
			Member:        m,
			Rank:          rank,
			IsCurrentUser: m.UserID == userID,
		}
		if prev, ok := prevRanks[m.ID]; ok {
			change := prev - rank // positive means the member climbed
			entry.RankChange = &change
		}
		entries[i] = entry
	}
	return entries, nil
}

func (s *karmaService) GetMonthlyHero(ctx context.Context, userID, householdID int32) (*domain.MonthlyHero, error) {
	if _, err := s.householdMembership(ctx, householdID, userID); err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListLeaderboard(ctx, householdID)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "leaderboard query failed", err)
	}
	if len(members) == 0 || members[0].MonthlyKarma <= 0 {
		return nil, nil
	}
	hero := members[0]

	period := time.Now().UTC().Format("2006-01")
	events, err := s.karmaRepo.ListMonthlyEvents(ctx, householdID, period)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "event query failed", err)
	}

	type typeStats struct {
		count int32
		karma int32
	}
	stats := make(map[domain.KarmaEventType]*typeStats)
	for _, e := range events {
		if e.UserID != hero.UserID {
			continue
		}
		st, ok := stats[e.EventType]
		if !ok {
			st = &typeStats{}
			stats[e.EventType] = st
		}
		st.count++
		st.karma += e.KarmaChange
	}

	// Most frequent event type; ties broken by karma total, then type name,
	// so the answer never depends on map iteration order.
	types := make([]domain.KarmaEventType, 0, len(stats))
	for t := range stats {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		a, b := stats[types[i]], stats[types[j]]
		if a.count != b.count {
			return a.count > b.count
		}
		if a.karma != b.karma {
			return a.karma > b.karma
		}
		return types[i] < types[j]
	})

	result := &domain.MonthlyHero{Member: hero}
	if len(types) > 0 {
		result.TopEventType = types[0]
		result.EventCount = stats[types[0]].count
	}
	return result, nil
}

func (s *karmaService) GetKarmaSummary(ctx context.Context, userID int32) (*domain.KarmaSummary, error) {
	member, err := s.activeMembership(ctx, userID)
	if err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListLeaderboard(ctx, member.HouseholdID)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "leaderboard query failed", err)
	}
	var rank int32
	for i, m := range members {
		if m.UserID == userID {
			rank = int32(i + 1)
			break
		}
	}

	breakdown, err := s.karmaRepo.BreakdownByType(ctx, member.HouseholdID, userID)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "breakdown query failed", err)
	}

	return &domain.KarmaSummary{
		TotalKarma:   member.KarmaScore,
		MonthlyKarma: member.MonthlyKarma,
		Rank:         rank,
		Breakdown:    breakdown,
	}, nil
}

func (s *karmaService) GetKarmaHistory(ctx context.Context, userID int32) ([]domain.KarmaEvent, error) {
	member, err := s.activeMembership(ctx, userID)
	if err != nil {
		return nil, err
	}
	events, err := s.karmaRepo.ListEventsByUser(ctx, member.HouseholdID, userID)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "event query failed", err)
	}
	return events, nil
}

// SnapshotAndResetMonthly closes out the month: ranks are persisted per
// household for next month's rank deltas, then every monthly counter is
// zeroed.
func (s *karmaService) SnapshotAndResetMonthly(ctx context.Context) (int64, error) {
	// The job runs just after midnight on the 1st, so the month being closed
	// is the previous calendar month.
	period := time.Now().UTC().AddDate(0, -1, 0).Format("2006-01")

	householdIDs, err := s.householdRepo.ListActiveIDs(ctx)
	if err != nil {
		return 0, domain.Wrap(domain.KindUnavailable, "household listing failed", err)
	}

	for _, hid := range householdIDs {
		members, err := s.memberRepo.ListLeaderboard(ctx, hid)
		if err != nil {
			return 0, domain.Wrap(domain.KindUnavailable, "leaderboard query failed", err)
		}
		snapshots := make([]domain.LeaderboardSnapshot, len(members))
		for i, m := range members {
			snapshots[i] = domain.LeaderboardSnapshot{
				HouseholdID: hid,
				MemberID:    m.ID,
				Period:      period,
				Rank:        int32(i + 1),
			}
		}
		if len(snapshots) > 0 {
			if err := s.karmaRepo.SaveSnapshots(ctx, snapshots); err != nil {
				return 0, domain.Wrap(domain.KindUnavailable, "snapshot write failed", err)
			}
		}
	}

	reset, err := s.karmaRepo.ResetMonthly(ctx)
	if err != nil {
		return 0, domain.Wrap(domain.KindUnavailable, "monthly reset failed", err)
	}
	s.log.Info("monthly karma reset", "period", period, "members_reset", reset)
	return reset, nil
}

func (s *karmaService) activeMembership(ctx context.Context, userID int32) (*domain.Member, error) {
	member, err := s.memberRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.E(domain.KindNotFound, "not a member of any household")
		}
		return nil, domain.Wrap(domain.KindUnavailable, "membership lookup failed", err)
	}
	return member, nil
}

func (s *karmaService) householdMembership(ctx context.Context, householdID, userID int32) (*domain.Member, error) {
	member, err := s.memberRepo.GetByHouseholdAndUser(ctx, householdID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.E(domain.KindNotFound, "not a member of this household")
		}
		return nil, domain.Wrap(domain.KindUnavailable, "membership lookup failed", err)
	}
	if !member.Active {
		return nil, domain.E(domain.KindNotFound, "not a member of this household")
	}
	return member, nil
}
