package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	Name           string
	IsVerified     bool `gorm:"not null;default:false"`

	// Single-use tokens for the email verification and password reset
	// flows; expiry is checked when the token is consumed.
	VerificationToken        *string `gorm:"index"`
	VerificationTokenExpires *time.Time
	ResetPasswordToken       *string `gorm:"index"`
	ResetPasswordExpires     *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
