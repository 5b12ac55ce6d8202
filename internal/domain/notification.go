package domain

type Notification struct {
	ID          int32             `json:"id"`
	UserID      int32             `json:"user_id"`
	HouseholdID int32             `json:"household_id"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	IsRead      bool              `json:"is_read"`
	CreatedOn   string            `json:"created_on"`
}
