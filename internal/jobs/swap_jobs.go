package jobs

import (
	"context"
	"time"

	"hearthshare-backend/internal/logger"
)

// ExpireSwaps moves swaps whose deadline passed while still unmatched to
// EXPIRED.
func (jr *JobRunner) ExpireSwaps() {
	jr.runWithRecovery("ExpireSwaps", func() {
		count, err := jr.store.Swaps.ExpireOverdue(context.Background(), time.Now())
		logger.DatabaseResult("ExpireOverdue", count, err)
	})
}

// FailUnpaidMatches fails matched swaps whose deadline passed with confirmed
// but unpaid participants.
func (jr *JobRunner) FailUnpaidMatches() {
	jr.runWithRecovery("FailUnpaidMatches", func() {
		count, err := jr.store.Swaps.FailUnpaidMatches(context.Background(), time.Now())
		logger.DatabaseResult("FailUnpaidMatches", count, err)
	})
}

// DeactivateExpiredBoosts switches off boost overlays past their expiry.
func (jr *JobRunner) DeactivateExpiredBoosts() {
	jr.runWithRecovery("DeactivateExpiredBoosts", func() {
		count, err := jr.store.Swaps.DeactivateExpiredBoosts(context.Background(), time.Now())
		logger.DatabaseResult("DeactivateExpiredBoosts", count, err)
	})
}

// ReconcileSwapFillAmounts recomputes every open swap's filled amount from
// its participants, repairing counter drift.
func (jr *JobRunner) ReconcileSwapFillAmounts() {
	jr.runWithRecovery("ReconcileSwapFillAmounts", func() {
		count, err := jr.store.Swaps.ReconcileFilledAmounts(context.Background())
		if err != nil {
			logger.Error("Fill reconciliation failed", "error", err)
			return
		}
		if count > 0 {
			logger.Warn("Repaired drifted swap fill amounts", "count", count)
		}
	})
}
