package domain

import "time"

type SwapType string

const (
	SwapTypeExactMatch SwapType = "EXACT_MATCH"
	SwapTypeFractional SwapType = "FRACTIONAL"
	SwapTypeMultiParty SwapType = "MULTI_PARTY"
	SwapTypeGroup      SwapType = "GROUP"
	SwapTypeFlexible   SwapType = "FLEXIBLE"
)

func (t SwapType) Valid() bool {
	switch t {
	case SwapTypeExactMatch, SwapTypeFractional, SwapTypeMultiParty, SwapTypeGroup, SwapTypeFlexible:
		return true
	}
	return false
}

type SwapStatus string

const (
	SwapStatusPending    SwapStatus = "PENDING"
	SwapStatusRecruiting SwapStatus = "RECRUITING"
	SwapStatusFilled     SwapStatus = "FILLED"
	SwapStatusInProgress SwapStatus = "IN_PROGRESS"
	SwapStatusCompleted  SwapStatus = "COMPLETED"
	SwapStatusCancelled  SwapStatus = "CANCELLED"
	SwapStatusExpired    SwapStatus = "EXPIRED"
	SwapStatusFailed     SwapStatus = "FAILED" // matched but unpaid past deadline
)

func (s SwapStatus) Terminal() bool {
	switch s {
	case SwapStatusCompleted, SwapStatusCancelled, SwapStatusExpired, SwapStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo encodes the swap state machine. Cancelled and expired are
// reachable from any non-terminal state; failed only from filled or
// in_progress (a matched swap whose payment never landed).
func (s SwapStatus) CanTransitionTo(next SwapStatus) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case SwapStatusCancelled, SwapStatusExpired:
		return true
	case SwapStatusRecruiting:
		return s == SwapStatusPending || s == SwapStatusFilled
	case SwapStatusFilled:
		return s == SwapStatusRecruiting
	case SwapStatusInProgress:
		return s == SwapStatusFilled
	case SwapStatusCompleted:
		return s == SwapStatusInProgress
	case SwapStatusFailed:
		return s == SwapStatusFilled || s == SwapStatusInProgress
	}
	return false
}

type ParticipantStatus string

const (
	ParticipantStatusInvited   ParticipantStatus = "INVITED"
	ParticipantStatusPending   ParticipantStatus = "PENDING"
	ParticipantStatusConfirmed ParticipantStatus = "CONFIRMED"
	ParticipantStatusPaid      ParticipantStatus = "PAID"
	ParticipantStatusVerified  ParticipantStatus = "VERIFIED"
	ParticipantStatusDeclined  ParticipantStatus = "DECLINED"
	ParticipantStatusRemoved   ParticipantStatus = "REMOVED"
)

// CountsTowardFill reports whether a participant's contribution is included
// when recomputing a swap's filled amount.
func (s ParticipantStatus) CountsTowardFill() bool {
	return s == ParticipantStatusConfirmed || s == ParticipantStatusPaid || s == ParticipantStatusVerified
}

func (s ParticipantStatus) CanTransitionTo(next ParticipantStatus) bool {
	switch next {
	case ParticipantStatusPending:
		return s == ParticipantStatusInvited
	case ParticipantStatusConfirmed:
		return s == ParticipantStatusInvited || s == ParticipantStatusPending
	case ParticipantStatusPaid:
		return s == ParticipantStatusConfirmed
	case ParticipantStatusVerified:
		return s == ParticipantStatusPaid
	case ParticipantStatusDeclined, ParticipantStatusRemoved:
		return s == ParticipantStatusInvited || s == ParticipantStatusPending || s == ParticipantStatusConfirmed
	}
	return false
}

type MultiPartySwap struct {
	ID                int32      `json:"id"`
	SwapType          SwapType   `json:"swap_type"`
	Status            SwapStatus `json:"status"`
	OrganizerUserID   int32      `json:"organizer_user_id"`
	TargetBillID      *int32     `json:"target_bill_id,omitempty"`
	TargetAmountCents int64      `json:"target_amount_cents"` // > 0
	FilledAmountCents int64      `json:"filled_amount_cents"` // recomputable from participants
	MinContribution   *int64     `json:"min_contribution_cents,omitempty"`
	MaxParticipants   int32      `json:"max_participants"` // >= 2
	GroupID           *int32     `json:"group_id,omitempty"`
	ExecutionDeadline *time.Time `json:"execution_deadline,omitempty"`
	TierRequired      int32      `json:"tier_required"` // 0..3
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type SwapParticipant struct {
	ID                 int32             `json:"id"`
	SwapID             int32             `json:"swap_id"`
	UserID             int32             `json:"user_id"`
	BillID             *int32            `json:"bill_id,omitempty"`
	ContributionCents  int64             `json:"contribution_cents"` // > 0
	Status             ParticipantStatus `json:"status"`
	FeePaid            bool              `json:"fee_paid"`
	ScreenshotURL      string            `json:"screenshot_url,omitempty"`
	ScreenshotVerified bool              `json:"screenshot_verified"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
	Rating             *int32            `json:"rating,omitempty"` // 1..5
	CreatedAt          time.Time         `json:"created_at"`
}

// SwapBoost is a time-boxed visibility overlay. It never gates swap state
// transitions.
type SwapBoost struct {
	ID         int32     `json:"id"`
	SwapID     int32     `json:"swap_id"`
	Multiplier float64   `json:"multiplier"` // 1.0..5.0, default 1.5
	Active     bool      `json:"active"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	BoostMultiplierMin     = 1.0
	BoostMultiplierMax     = 5.0
	BoostMultiplierDefault = 1.5
)
