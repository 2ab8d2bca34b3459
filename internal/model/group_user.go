package model

import (
	"github.com/google/uuid"
)

// GroupUser is the membership edge between users and groups. The extra unique
// index on user_id alone is what holds the one-group-per-user invariant.
type GroupUser struct {
	GroupID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey;uniqueIndex"`
}

func (GroupUser) TableName() string {
	return "group_user"
}
