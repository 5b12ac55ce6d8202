package domain

import "time"

type PointsReason string

const (
	PointsReasonSwapCompleted  PointsReason = "SWAP_COMPLETED"
	PointsReasonFirstSwapBonus PointsReason = "FIRST_SWAP_BONUS"
	PointsReasonFeeWaiver      PointsReason = "FEE_WAIVER"
	PointsReasonDisputeRefund  PointsReason = "DISPUTE_REFUND"
	PointsReasonAdjustment     PointsReason = "ADJUSTMENT"
)

func (r PointsReason) Valid() bool {
	switch r {
	case PointsReasonSwapCompleted, PointsReasonFirstSwapBonus,
		PointsReasonFeeWaiver, PointsReasonDisputeRefund, PointsReasonAdjustment:
		return true
	}
	return false
}

// PointsLedgerEntry is append-only. The cached balance on user_points must
// always equal the sum of a user's entries; when they disagree the entries
// win and the cache is rebuilt by replay.
type PointsLedgerEntry struct {
	ID            int32        `json:"id"`
	UserID        int32        `json:"user_id"`
	DeltaPoints   int32        `json:"delta_points"`
	Reason        PointsReason `json:"reason"`
	RelatedSwapID *int32       `json:"related_swap_id,omitempty"`
	Description   string       `json:"description,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

type PointsSummary struct {
	Balance        int32 `json:"balance"`
	LifetimeEarned int32 `json:"lifetime_earned"` // sum of positive ledger entries
	// ApproxLifetimeEarned preserves the legacy completed-swaps multiplied by
	// per-swap points shortcut for clients that still display it.
	ApproxLifetimeEarned int32 `json:"approx_lifetime_earned"`
	CompletedSwaps       int32 `json:"completed_swaps"`
	FeeWaiversUsed       int32 `json:"fee_waivers_used"`
	EntryCount           int32 `json:"entry_count"`
}
