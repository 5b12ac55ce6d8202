package domain

type User struct {
	ID            int32  `json:"id"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phone_number"`
	PasswordHash  string `json:"-"`
	Name          string `json:"name"`
	AvatarURL     string `json:"avatar_url"`
	EmailVerified bool   `json:"email_verified"`
	PhoneVerified bool   `json:"phone_verified"`
	Banned        bool   `json:"banned"`
	CreatedOn     string `json:"created_on"`
	UpdatedOn     string `json:"updated_on"`
}
