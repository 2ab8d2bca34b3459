package model

import (
	"time"

	"github.com/google/uuid"
)

// Assignment links one task to one assignee (user or group) and carries its
// own lifecycle status. Task.Status stays informational; the authoritative
// per-assignee progress lives here. The (task_id, assignee_type, assignee_id)
// tuple is unique: a task cannot be assigned twice to the same user or group.
type Assignment struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_task_assignee"`
	AssigneeType string    `gorm:"not null;uniqueIndex:idx_task_assignee;check:assignee_type IN ('user', 'group')"`
	AssigneeID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_task_assignee"`
	AssignedBy   uuid.UUID `gorm:"type:uuid;not null"`
	AssignedAt   time.Time `gorm:"not null"`
	Status       string    `gorm:"not null;default:'created'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Task     Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Assigner User `gorm:"foreignKey:AssignedBy"`
}

func (Assignment) TableName() string {
	return "task_assignments"
}
