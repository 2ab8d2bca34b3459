package repository

import (
	"context"
	"errors"

	"taskmanager/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GroupRepository struct {
	db *gorm.DB
}

type GroupRepositoryInterface interface {
	Create(ctx context.Context, group *model.Group) error
	List(ctx context.Context, limit, offset int) ([]model.Group, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Group, error)
	Update(ctx context.Context, group *model.Group) error
	Delete(ctx context.Context, id uuid.UUID) error
	Members(ctx context.Context, groupID uuid.UUID, limit, offset int) ([]model.User, int64, error)
	AddMembers(ctx context.Context, groupID uuid.UUID, userIDs []uuid.UUID) error
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	GroupIDsOf(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Count(ctx context.Context) (int64, error)
}

var _ GroupRepositoryInterface = (*GroupRepository)(nil)

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *GroupRepository) List(ctx context.Context, limit, offset int) ([]model.Group, int64, error) {
	var groups []model.Group
	var total int64

	if err := r.db.WithContext(ctx).Model(&model.Group{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&groups).Error
	return groups, total, err
}

func (r *GroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) Update(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Save(group).Error
}

// Delete removes the group and its membership edges. Assignments that pointed
// at the group are left in place; views resolve them to "N/A".
func (r *GroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&model.GroupUser{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Group{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrGroupNotFound
		}
		return nil
	})
}

func (r *GroupRepository) Members(ctx context.Context, groupID uuid.UUID, limit, offset int) ([]model.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.GroupUser{}).
		Where("group_id = ?", groupID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN group_user ON group_user.user_id = users.id").
		Where("group_user.group_id = ?", groupID).
		Order("users.name").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, total, err
}

// AddMembers attaches the given users to the group. Users already in another
// group make the whole call fail; users already in this group are skipped.
// The check and the inserts run in one transaction, with the unique index on
// group_user.user_id as the enforcement of last resort.
func (r *GroupRepository) AddMembers(ctx context.Context, groupID uuid.UUID, userIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []model.GroupUser
		if err := tx.Where("user_id IN ?", userIDs).Find(&existing).Error; err != nil {
			return err
		}

		alreadyHere := make(map[uuid.UUID]bool)
		var conflicting []uuid.UUID
		for _, gu := range existing {
			if gu.GroupID == groupID {
				alreadyHere[gu.UserID] = true
			} else {
				conflicting = append(conflicting, gu.UserID)
			}
		}

		if len(conflicting) > 0 {
			var names []string
			if err := tx.Model(&model.User{}).
				Where("id IN ?", conflicting).
				Order("name").
				Pluck("name", &names).Error; err != nil {
				return err
			}
			return &UsersInAnotherGroupError{Names: names}
		}

		for _, userID := range userIDs {
			if alreadyHere[userID] {
				continue
			}
			if err := tx.Create(&model.GroupUser{GroupID: groupID, UserID: userID}).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return &UsersInAnotherGroupError{Names: []string{userID.String()}}
				}
				return err
			}
		}
		return nil
	})
}

// RemoveMember is idempotent: removing an absent member is not an error.
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&model.GroupUser{}).Error
}

// IsMember checks current membership. Callers that gate authorization on
// group membership must use this rather than any snapshot.
func (r *GroupRepository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.GroupUser{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *GroupRepository) GroupIDsOf(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.GroupUser{}).
		Where("user_id = ?", userID).
		Pluck("group_id", &ids).Error
	return ids, err
}

func (r *GroupRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Group{}).Count(&count).Error
	return count, err
}
