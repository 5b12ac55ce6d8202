package domain

import "time"

type MemberRole string

const (
	MemberRoleHead   MemberRole = "HEAD"
	MemberRoleAdmin  MemberRole = "ADMIN"
	MemberRoleMember MemberRole = "MEMBER"
)

func (r MemberRole) Valid() bool {
	switch r {
	case MemberRoleHead, MemberRoleAdmin, MemberRoleMember:
		return true
	}
	return false
}

// CanManageMembers reports whether the role may change other members' roles
// or remove them.
func (r MemberRole) CanManageMembers() bool {
	return r == MemberRoleHead || r == MemberRoleAdmin
}

// CanEditSettings reports whether the role may update household settings.
func (r MemberRole) CanEditSettings() bool {
	return r == MemberRoleHead || r == MemberRoleAdmin
}

type Member struct {
	ID          int32      `json:"id"`
	UserID      int32      `json:"user_id"`
	HouseholdID int32      `json:"household_id"`
	DisplayName string     `json:"display_name"`
	Role        MemberRole `json:"role"`
	// EquityPercentage is only meaningful under FairnessModeCustom. Nil means
	// the member has not been assigned a share yet.
	EquityPercentage *float64   `json:"equity_percentage,omitempty"`
	KarmaScore       int32      `json:"karma_score"`
	MonthlyKarma     int32      `json:"monthly_karma"`
	Active           bool       `json:"active"`
	JoinedAt         time.Time  `json:"joined_at"`
	LeftAt           *time.Time `json:"left_at,omitempty"` // nil while active
}
