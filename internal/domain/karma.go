package domain

import "time"

type KarmaEventType string

const (
	KarmaEventBillUploaded  KarmaEventType = "BILL_UPLOADED"
	KarmaEventBillPaid      KarmaEventType = "BILL_PAID"
	KarmaEventSwapCompleted KarmaEventType = "SWAP_COMPLETED"
	KarmaEventDisputeWon    KarmaEventType = "DISPUTE_WON"
	KarmaEventMemberJoined  KarmaEventType = "MEMBER_JOINED"
	KarmaEventAdjustment    KarmaEventType = "ADJUSTMENT" // signed manual correction
)

func (t KarmaEventType) Valid() bool {
	switch t {
	case KarmaEventBillUploaded, KarmaEventBillPaid, KarmaEventSwapCompleted,
		KarmaEventDisputeWon, KarmaEventMemberJoined, KarmaEventAdjustment:
		return true
	}
	return false
}

// KarmaEvent is append-only; rows are never mutated or deleted. Member karma
// counters are caches over these events.
type KarmaEvent struct {
	ID            int32          `json:"id"`
	HouseholdID   int32          `json:"household_id"`
	UserID        int32          `json:"user_id"`
	EventType     KarmaEventType `json:"event_type"`
	KarmaChange   int32          `json:"karma_change"`
	Description   string         `json:"description,omitempty"`
	RelatedBillID *int32         `json:"related_bill_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// LeaderboardEntry is derived, never stored. Rank is 1-based and contiguous
// within the household, ordered by monthly karma descending with ties broken
// by lifetime karma, then join date, then member id.
type LeaderboardEntry struct {
	Member        Member `json:"member"`
	Rank          int32  `json:"rank"`
	IsCurrentUser bool   `json:"is_current_user"`
	RankChange    *int32 `json:"rank_change,omitempty"` // nil without a prior snapshot
}

// LeaderboardSnapshot persists one member's rank for a period so the next
// period can report rank deltas.
type LeaderboardSnapshot struct {
	HouseholdID int32  `json:"household_id"`
	MemberID    int32  `json:"member_id"`
	Period      string `json:"period"` // 'YYYY-MM'
	Rank        int32  `json:"rank"`
}

type MonthlyHero struct {
	Member       Member         `json:"member"`
	TopEventType KarmaEventType `json:"top_event_type"`
	EventCount   int32          `json:"event_count"`
}

type KarmaSummary struct {
	TotalKarma   int32                    `json:"total_karma"`
	MonthlyKarma int32                    `json:"monthly_karma"`
	Rank         int32                    `json:"rank"`
	Breakdown    map[KarmaEventType]int32 `json:"breakdown"`
}
