package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and user ID.
	// It returns nil when the key is unknown.
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	// Create stores a new idempotency key. A second key with the same key
	// string and user fails with a unique constraint error.
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Complete records the response for a pending key.
	Complete(ctx context.Context, id uuid.UUID, code int, body string) error
	// Delete releases a key so the request can be retried.
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes keys that expired before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
