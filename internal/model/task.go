package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `gorm:"not null"`
	Description string
	Status      string    `gorm:"not null;default:'created'"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	Creator     User         `gorm:"foreignKey:CreatedBy"`
	Assignments []Assignment `gorm:"foreignKey:TaskID"`
}

// Trashed reports whether the task is currently soft-deleted.
func (t *Task) Trashed() bool {
	return t.DeletedAt.Valid
}
