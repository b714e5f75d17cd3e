package models

import "time"

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User is the identity record. Email is the lookup key for every other
// table; the integer ID exists only as the primary key.
type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Name         string   `json:"name"`
	Profession   string   `json:"profession"`
	Role         UserRole `gorm:"type:varchar(20);default:'user'" json:"role"`
	Blocked      bool     `gorm:"default:false" json:"blocked"`
	Verified     bool     `gorm:"default:false" json:"verified"`

	// Single outstanding token per kind. A consumed verification token is
	// left in place with a nil expiry so re-presenting it stays a no-op
	// for the already-verified user; reset tokens clear both fields.
	VerificationToken       string     `json:"-"`
	VerificationTokenExpiry *time.Time `json:"-"`
	ResetToken              string     `json:"-"`
	ResetTokenExpiry        *time.Time `json:"-"`
}

// RefreshToken is a server-side session handle. Deleting a user's rows
// forces re-login, which is how password reset invalidates sessions.
type RefreshToken struct {
	BaseModel
	UserEmail string    `gorm:"not null;index" json:"user_email"`
	Token     string    `gorm:"not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
