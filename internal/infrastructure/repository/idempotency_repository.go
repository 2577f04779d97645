package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-backend/internal/domain/repository"
	"github.com/sangkips/pos-backend/internal/infrastructure/store"
	"github.com/sangkips/pos-backend/pkg/apperror"
	"gorm.io/gorm"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := r.db.WithContext(ctx).
		Where("key = ? AND user_id = ?", key, userID).
		First(&ikey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, store.MapError(err)
	}
	return &ikey, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return store.MapError(r.db.WithContext(ctx).Create(ikey).Error)
}

func (r *idempotencyRepository) Complete(ctx context.Context, id uuid.UUID, code int, body string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.IdempotencyKey{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"response_code": code, "response_body": body})
	if res.Error != nil {
		return store.MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NewNotFoundError("Idempotency key", id.String())
	}
	return nil
}

func (r *idempotencyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return store.MapError(r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.IdempotencyKey{}).Error)
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&entity.IdempotencyKey{})
	return res.RowsAffected, store.MapError(res.Error)
}
