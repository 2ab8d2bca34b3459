package repository

import (
	"context"
	"errors"
	"time"

	"taskmanager/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OTPRepository struct {
	db *gorm.DB
}

type OTPRepositoryInterface interface {
	Upsert(ctx context.Context, email, otp string, expiresAt time.Time) error
	Find(ctx context.Context, email, otp string) (*model.PasswordResetOTP, error)
	DeleteByEmail(ctx context.Context, email string) error
}

var _ OTPRepositoryInterface = (*OTPRepository)(nil)

func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Upsert keeps exactly one active reset code per email address.
func (r *OTPRepository) Upsert(ctx context.Context, email, otp string, expiresAt time.Time) error {
	record := model.PasswordResetOTP{
		Email:     email,
		OTP:       otp,
		ExpiresAt: expiresAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"otp", "expires_at", "updated_at"}),
	}).Create(&record).Error
}

func (r *OTPRepository) Find(ctx context.Context, email, otp string) (*model.PasswordResetOTP, error) {
	var record model.PasswordResetOTP
	err := r.db.WithContext(ctx).
		Where("email = ? AND otp = ?", email, otp).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOTPNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *OTPRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", email).Delete(&model.PasswordResetOTP{}).Error
}
