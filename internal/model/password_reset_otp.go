package model

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetOTP holds the one active reset code per email address.
type PasswordResetOTP struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Email     string    `gorm:"uniqueIndex;not null"`
	OTP       string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PasswordResetOTP) TableName() string {
	return "password_reset_otps"
}
