package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
)

// CustomerRepository reads customers. Writes belong to the CRM side.
type CustomerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
}

type PaymentMethodRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error)
	GetByCode(ctx context.Context, code string) (*entity.PaymentMethod, error)
	List(ctx context.Context) ([]entity.PaymentMethod, error)
}

type ItemRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)
}

// UserRepository reads operators for login.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
