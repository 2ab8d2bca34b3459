package repository

import (
	"context"
	"errors"

	"taskmanager/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

// UserDirectoryEntry is a user row augmented with its (at most one) group id.
type UserDirectoryEntry struct {
	ID      uuid.UUID
	Name    string
	Email   string
	Role    string
	GroupID *uuid.UUID
}

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context) ([]UserDirectoryEntry, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

var _ UserRepositoryInterface = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// List returns every user with the id of the group they belong to, if any.
func (r *UserRepository) List(ctx context.Context) ([]UserDirectoryEntry, error) {
	var entries []UserDirectoryEntry
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("users.id, users.name, users.email, users.role, group_user.group_id AS group_id").
		Joins("LEFT JOIN group_user ON group_user.user_id = users.id").
		Order("users.created_at").
		Scan(&entries).Error
	return entries, err
}

func (r *UserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}
