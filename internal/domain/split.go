package domain

// BillSplit is one member's obligation from a single split calculation. It is
// derived output, never persisted on its own.
type BillSplit struct {
	MemberID    int32   `json:"member_id"`
	UserID      int32   `json:"user_id"`
	AmountCents int64   `json:"amount_cents"`
	Percentage  float64 `json:"percentage"`
	Paid        bool    `json:"paid"`
}

type BalanceStatus string

const (
	BalanceStatusBalanced           BalanceStatus = "BALANCED"
	BalanceStatusSlightlyUnbalanced BalanceStatus = "SLIGHTLY_UNBALANCED"
	BalanceStatusUnbalanced         BalanceStatus = "UNBALANCED"
	BalanceStatusUnknown            BalanceStatus = "UNKNOWN"
)
