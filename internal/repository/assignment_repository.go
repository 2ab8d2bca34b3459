package repository

import (
	"context"
	"errors"

	"taskmanager/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentRepository struct {
	db *gorm.DB
}

type AssignmentRepositoryInterface interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	Get(ctx context.Context, taskID, assignmentID uuid.UUID) (*model.Assignment, error)
	GetByID(ctx context.Context, assignmentID uuid.UUID) (*model.Assignment, error)
	Delete(ctx context.Context, assignmentID uuid.UUID) error
	UpdateStatus(ctx context.Context, assignmentID uuid.UUID, status string) (*model.Assignment, error)
	ListByTask(ctx context.Context, taskID uuid.UUID, limit, offset int) ([]model.Assignment, int64, error)
	ResolveAssignee(ctx context.Context, assigneeType string, assigneeID uuid.UUID) (string, bool, error)
	AssignedUsers(ctx context.Context, taskID uuid.UUID) ([]model.UserSummary, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountForAssignee(ctx context.Context, userID uuid.UUID, groupIDs []uuid.UUID, status string) (int64, error)
}

var _ AssignmentRepositoryInterface = (*AssignmentRepository)(nil)

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts the assignment after checking tuple uniqueness. The check
// and the insert share one transaction; a unique-index violation from a
// concurrent insert surfaces as the same ErrAlreadyAssigned.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.Assignment{}).
			Where("task_id = ? AND assignee_type = ? AND assignee_id = ?",
				assignment.TaskID, assignment.AssigneeType, assignment.AssigneeID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyAssigned
		}

		if err := tx.Create(assignment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyAssigned
			}
			return err
		}
		return nil
	})
}

// Get retrieves an assignment scoped to its owning task.
func (r *AssignmentRepository) Get(ctx context.Context, taskID, assignmentID uuid.UUID) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND id = ?", taskID, assignmentID).
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssignmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// GetByID retrieves an assignment regardless of task. Callers defending
// against cross-task id confusion compare TaskID themselves.
func (r *AssignmentRepository) GetByID(ctx context.Context, assignmentID uuid.UUID) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).Where("id = ?", assignmentID).First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssignmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Delete removes an assignment permanently. Assignments have no soft delete.
func (r *AssignmentRepository) Delete(ctx context.Context, assignmentID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Assignment{}, "id = ?", assignmentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

// UpdateStatus stamps the new status and returns the fresh row.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, assignmentID uuid.UUID, status string) (*model.Assignment, error) {
	result := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("id = ?", assignmentID).
		Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAssignmentNotFound
	}

	var assignment model.Assignment
	if err := r.db.WithContext(ctx).Where("id = ?", assignmentID).First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListByTask returns a recency-ordered page of a task's assignments with the
// assigning admin preloaded.
func (r *AssignmentRepository) ListByTask(ctx context.Context, taskID uuid.UUID, limit, offset int) ([]model.Assignment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("task_id = ?", taskID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Assigner").
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&assignments).Error
	return assignments, total, err
}

// ResolveAssignee is the single place a type-tagged assignee reference is
// turned into a concrete record. It reports the display name and whether the
// referent still exists; dangling references (deleted user or group) come
// back as not found, which views render as "N/A".
func (r *AssignmentRepository) ResolveAssignee(ctx context.Context, assigneeType string, assigneeID uuid.UUID) (string, bool, error) {
	var name string
	var err error

	switch assigneeType {
	case model.AssigneeTypeUser:
		var user model.User
		err = r.db.WithContext(ctx).Where("id = ?", assigneeID).First(&user).Error
		name = user.Name
	case model.AssigneeTypeGroup:
		var group model.Group
		err = r.db.WithContext(ctx).Where("id = ?", assigneeID).First(&group).Error
		name = group.Name
	default:
		return "", false, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

// AssignedUsers derives the de-duplicated set of users concretely affected by
// a task: direct user assignees plus the current members of every assigned
// group. It is recomputed on every read so it always reflects live
// membership, never membership at assignment time.
func (r *AssignmentRepository) AssignedUsers(ctx context.Context, taskID uuid.UUID) ([]model.UserSummary, error) {
	var direct []model.UserSummary
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("users.id, users.name, users.email").
		Joins("JOIN task_assignments ON task_assignments.assignee_id = users.id").
		Where("task_assignments.task_id = ? AND task_assignments.assignee_type = ?", taskID, model.AssigneeTypeUser).
		Scan(&direct).Error
	if err != nil {
		return nil, err
	}

	var viaGroups []model.UserSummary
	err = r.db.WithContext(ctx).Model(&model.User{}).
		Select("users.id, users.name, users.email").
		Joins("JOIN group_user ON group_user.user_id = users.id").
		Joins("JOIN task_assignments ON task_assignments.assignee_id = group_user.group_id").
		Where("task_assignments.task_id = ? AND task_assignments.assignee_type = ?", taskID, model.AssigneeTypeGroup).
		Scan(&viaGroups).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(direct)+len(viaGroups))
	users := make([]model.UserSummary, 0, len(direct)+len(viaGroups))
	for _, u := range append(direct, viaGroups...) {
		if seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		users = append(users, u)
	}
	return users, nil
}

func (r *AssignmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Assignment{}).Count(&count).Error
	return count, err
}

func (r *AssignmentRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// CountForAssignee counts assignments reaching the user directly or through
// any of the given groups, optionally filtered by status.
func (r *AssignmentRepository) CountForAssignee(ctx context.Context, userID uuid.UUID, groupIDs []uuid.UUID, status string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Assignment{})

	if len(groupIDs) > 0 {
		query = query.Where(
			"(assignee_type = ? AND assignee_id = ?) OR (assignee_type = ? AND assignee_id IN ?)",
			model.AssigneeTypeUser, userID, model.AssigneeTypeGroup, groupIDs,
		)
	} else {
		query = query.Where("assignee_type = ? AND assignee_id = ?", model.AssigneeTypeUser, userID)
	}

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}
