package repository

import (
	"context"
	"errors"

	"taskmanager/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID, includeTrashed bool) (*model.Task, error)
	List(ctx context.Context, limit, offset int) ([]model.Task, int64, error)
	ListTrashed(ctx context.Context, limit, offset int) ([]model.Task, int64, error)
	Update(ctx context.Context, task *model.Task) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	ForceDelete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by its ID. With includeTrashed the lookup also
// resolves soft-deleted tasks, which stay addressable for restore and
// force-delete and remain valid assignment targets.
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID, includeTrashed bool) (*model.Task, error) {
	query := r.db.WithContext(ctx)
	if includeTrashed {
		query = query.Unscoped()
	}

	var task model.Task
	result := query.Preload("Creator").First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// List returns a recency-ordered page of live tasks.
func (r *TaskRepository) List(ctx context.Context, limit, offset int) ([]model.Task, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Assignments").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tasks).Error
	return tasks, total, err
}

// ListTrashed returns soft-deleted tasks, most recently deleted first.
func (r *TaskRepository) ListTrashed(ctx context.Context, limit, offset int) ([]model.Task, int64, error) {
	base := r.db.WithContext(ctx).Unscoped().Model(&model.Task{}).Where("deleted_at IS NOT NULL")

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []model.Task
	err := r.db.WithContext(ctx).Unscoped().
		Preload("Creator").
		Where("deleted_at IS NOT NULL").
		Order("deleted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tasks).Error
	return tasks, total, err
}

// Update persists changed task fields.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// SoftDelete marks the task deleted; it disappears from default listings but
// stays addressable.
func (r *TaskRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Restore clears the soft-delete mark.
func (r *TaskRepository) Restore(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Unscoped().Model(&model.Task{}).
		Where("id = ?", id).
		Update("deleted_at", nil)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ForceDelete permanently removes the task and cascades removal of its
// assignments in one transaction.
func (r *TaskRepository) ForceDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.Assignment{}).Error; err != nil {
			return err
		}
		result := tx.Unscoped().Delete(&model.Task{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}

func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).Count(&count).Error
	return count, err
}
