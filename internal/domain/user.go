package domain

import "time"

type Gender string

const (
	GenderMale      Gender = "Male"
	GenderFemale    Gender = "Female"
	GenderNonBinary Gender = "Non Binary"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonBinary:
		return true
	}
	return false
}

// User is the application row for an authenticated identity. It is created
// lazily once first name and date of birth are known.
type User struct {
	ID                int              `json:"id" db:"id"`
	AuthUserID        string           `json:"auth_user_id" db:"auth_user_id"`
	Phone             *string          `json:"phone" db:"phone"`
	FirstName         string           `json:"first_name" db:"first_name"`
	LastName          *string          `json:"last_name" db:"last_name"`
	BirthDate         *time.Time       `json:"birth_date" db:"birth_date"`
	Gender            *string          `json:"gender" db:"gender"`
	CurrentLocation   *string          `json:"current_location" db:"current_location"`
	OnboardingStatus  OnboardingStatus `json:"onboarding_status" db:"onboarding_status"`
	LastCompletedStep *string          `json:"last_completed_step" db:"last_completed_step"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at" db:"updated_at"`
}

// Age returns the user's age in whole years, or 0 when the birth date is unknown.
func (u *User) Age() int {
	if u.BirthDate == nil {
		return 0
	}
	return AgeAt(*u.BirthDate, time.Now())
}

// AgeAt returns completed years between birth and now.
func AgeAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// AuthIdentity is the phone-verified identity issued by the auth layer.
type AuthIdentity struct {
	ID        string    `json:"id" db:"id"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Identity is what a request carries once its token was verified.
type Identity struct {
	AuthUserID string
	Phone      string
}

func (i Identity) IsZero() bool { return i.AuthUserID == "" }

type Session struct {
	ID         int       `json:"id" db:"id"`
	AuthUserID string    `json:"auth_user_id" db:"auth_user_id"`
	Token      string    `json:"-" db:"token_hash"`
	DeviceInfo *string   `json:"device_info" db:"device_info"`
	IPAddress  *string   `json:"ip_address" db:"ip_address"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// VerificationCode is a pending one-time code for a phone number.
type VerificationCode struct {
	Phone     string    `json:"phone"`
	CodeHash  string    `json:"code_hash"`
	Attempts  int       `json:"attempts"`
	ExpiresAt time.Time `json:"expires_at"`
}
