package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name           string    `gorm:"not null"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	Role           string    `gorm:"not null;default:'member';check:role IN ('admin', 'member')"`
	AvatarPath     string
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time
}

// UserSummary is the projection of a user used by assignment views.
type UserSummary struct {
	ID    uuid.UUID
	Name  string
	Email string
}
