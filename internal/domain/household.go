package domain

type FairnessMode string

const (
	FairnessModeEqual    FairnessMode = "EQUAL"
	FairnessModeCustom   FairnessMode = "CUSTOM"
	FairnessModeWeighted FairnessMode = "WEIGHTED" // reputation-weighted (income proxy)
)

func (m FairnessMode) Valid() bool {
	switch m {
	case FairnessModeEqual, FairnessModeCustom, FairnessModeWeighted:
		return true
	}
	return false
}

type Household struct {
	ID                int32        `json:"id"`
	Name              string       `json:"name"`
	FairnessMode      FairnessMode `json:"fairness_mode"`
	MaxMembers        int32        `json:"max_members"`
	Active            bool         `json:"active"`
	AutoPilot         bool         `json:"auto_pilot"`
	InviteCode        string       `json:"invite_code"` // unique, compared case-insensitively
	HeadOfHouseholdID int32        `json:"head_of_household_id"`
	CreatedOn         string       `json:"created_on"`
}

// HouseholdUpdate is a typed partial update. Nil fields are left untouched;
// an update with all fields nil is a no-op.
type HouseholdUpdate struct {
	Name         *string
	FairnessMode *FairnessMode
	AutoPilot    *bool
}

func (u HouseholdUpdate) Empty() bool {
	return u.Name == nil && u.FairnessMode == nil && u.AutoPilot == nil
}
