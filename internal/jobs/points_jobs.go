package jobs

import (
	"context"

	"hearthshare-backend/internal/logger"
)

// ReconcilePointsBalances replays the points ledger against every cached
// balance and rewrites the ones that drifted. The ledger is authoritative.
func (jr *JobRunner) ReconcilePointsBalances() {
	jr.runWithRecovery("ReconcilePointsBalances", func() {
		count, err := jr.store.Points.ReconcileBalances(context.Background())
		if err != nil {
			logger.Error("Points reconciliation failed", "error", err)
			return
		}
		if count > 0 {
			logger.Warn("Repaired drifted points balances", "count", count)
		}
	})
}
