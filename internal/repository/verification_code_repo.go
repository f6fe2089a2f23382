package repository

import (
	"context"
	"errors"
	"time"

	"github.com/wdbprojects/instamart-backend/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VerificationCodeRepository interface {
	Create(ctx context.Context, code *entity.VerificationCode) error
	FindValid(ctx context.Context, id uuid.UUID, codeType entity.VerificationCodeType, now time.Time) (*entity.VerificationCode, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountRecentByUser(ctx context.Context, userID uuid.UUID, codeType entity.VerificationCodeType, since time.Time) (int64, error)
}

type verificationCodeRepository struct {
	db *gorm.DB
}

func NewVerificationCodeRepository(db *gorm.DB) VerificationCodeRepository {
	return &verificationCodeRepository{db: db}
}

func (r *verificationCodeRepository) Create(ctx context.Context, c *entity.VerificationCode) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *verificationCodeRepository) FindValid(
	ctx context.Context,
	id uuid.UUID,
	codeType entity.VerificationCodeType,
	now time.Time,
) (*entity.VerificationCode, error) {

	var code entity.VerificationCode
	err := r.db.WithContext(ctx).
		Where("id = ? AND type = ? AND expires_at > ?", id, codeType, now).
		First(&code).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &code, err
}

func (r *verificationCodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.VerificationCode{}).
		Error
}

func (r *verificationCodeRepository) CountRecentByUser(
	ctx context.Context,
	userID uuid.UUID,
	codeType entity.VerificationCodeType,
	since time.Time,
) (int64, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.VerificationCode{}).
		Where("user_id = ? AND type = ? AND created_at > ?", userID, codeType, since).
		Count(&count).Error
	return count, err
}
