package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	"github.com/sangkips/pos-backend/internal/domain/enum"
	"github.com/sangkips/pos-backend/pkg/money"
	"github.com/sangkips/pos-backend/pkg/pagination"
)

// SalesOrderRepository persists order aggregates. Lookups by id return a
// not-found AppError when nothing matches.
type SalesOrderRepository interface {
	Create(ctx context.Context, order *entity.SalesOrder) error
	CreateItems(ctx context.Context, items []entity.SalesOrderItem) error
	CreateCharges(ctx context.Context, charges []entity.SalesOrderCharge) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SalesOrder, error)
	// GetForUpdate reads the order and, where the engine supports it, locks
	// the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.SalesOrder, error)
	// GetWithDetails loads items, charges and payments and sets the derived
	// paid and balance amounts.
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.SalesOrder, error)
	// MarkVoided flips a created order to voided. It reports false when the
	// order was not in the created state.
	MarkVoided(ctx context.Context, id uuid.UUID, by *uuid.UUID, at time.Time) (bool, error)
	List(ctx context.Context, params *SalesOrderFilterParams) ([]entity.SalesOrder, int64, error)
}

// SalesOrderFilterParams contains filtering parameters for order queries
type SalesOrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	State      *enum.OrderState
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// SalesOrderPaymentRepository persists payments against orders.
type SalesOrderPaymentRepository interface {
	Create(ctx context.Context, payment *entity.SalesOrderPayment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SalesOrderPayment, error)
	// Update rewrites the editable fields of a completed payment. It reports
	// false when the payment is no longer completed.
	Update(ctx context.Context, payment *entity.SalesOrderPayment) (bool, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.SalesOrderPayment, error)
	// SumCompleted totals completed payments on the order, optionally
	// leaving one payment out.
	SumCompleted(ctx context.Context, orderID uuid.UUID, exclude *uuid.UUID) (money.Money, error)
	MarkVoided(ctx context.Context, id uuid.UUID, by *uuid.UUID, at time.Time) (bool, error)
	// VoidCompletedByOrder voids every completed payment on the order and
	// returns how many changed.
	VoidCompletedByOrder(ctx context.Context, orderID uuid.UUID, by *uuid.UUID, at time.Time) (int64, error)
}
