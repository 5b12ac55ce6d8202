package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hearthshare-backend/internal/domain"
	"hearthshare-backend/internal/logger"
)

// ResetMonthlyKarma crowns each household's monthly hero, snapshots the
// leaderboards for next month's rank deltas, and zeroes the monthly counters.
func (jr *JobRunner) ResetMonthlyKarma() {
	jr.runWithRecovery("ResetMonthlyKarma", func() {
		ctx := context.Background()

		jr.crownMonthlyHeroes(ctx)

		reset, err := jr.services.Karma.SnapshotAndResetMonthly(ctx)
		if err != nil {
			logger.Error("Monthly karma reset failed", "error", err)
			return
		}
		logger.Info("Monthly karma reset done", "members_reset", reset)
	})
}

// crownMonthlyHeroes notifies and emails the top member of every household
// that had positive monthly karma. Runs before the reset wipes the counters.
func (jr *JobRunner) crownMonthlyHeroes(ctx context.Context) {
	householdIDs, err := jr.store.Households.ListActiveIDs(ctx)
	if err != nil {
		logger.Error("Household listing failed", "error", err)
		return
	}

	for _, hid := range householdIDs {
		members, err := jr.store.Members.ListLeaderboard(ctx, hid)
		if err != nil {
			logger.Error("Leaderboard query failed", "household_id", hid, "error", err)
			continue
		}
		if len(members) == 0 || members[0].MonthlyKarma <= 0 {
			continue
		}
		hero := members[0]

		household, err := jr.store.Households.GetByID(ctx, hid)
		if err != nil {
			logger.Error("Household lookup failed", "household_id", hid, "error", err)
			continue
		}

		note := &domain.Notification{
			UserID:      hero.UserID,
			HouseholdID: hid,
			Title:       "Monthly Hero",
			Message:     fmt.Sprintf("You topped the %s leaderboard with %d karma this month!", household.Name, hero.MonthlyKarma),
			Attributes:  map[string]string{"type": "MONTHLY_HERO"},
		}
		if err := jr.store.Notifications.Create(ctx, note); err != nil {
			logger.Error("Hero notification failed", "household_id", hid, "user_id", hero.UserID, "error", err)
		}

		user, err := jr.store.Users.GetByID(ctx, hero.UserID)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				logger.Error("Hero user lookup failed", "user_id", hero.UserID, "error", err)
			}
			continue
		}
		if err := jr.services.Email.SendMonthlyHeroNotification(ctx, user.Email, user.Name, household.Name, hero.MonthlyKarma); err != nil {
			logger.ExternalServiceResult("smtp", "SendMonthlyHeroNotification", err, "household_id", hid)
		}

		logger.Info("Monthly hero crowned", "household_id", hid, "user_id", hero.UserID, "monthly_karma", hero.MonthlyKarma)
	}
}
