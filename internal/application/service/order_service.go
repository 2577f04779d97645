package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	"github.com/sangkips/pos-backend/internal/domain/pricing"
	"github.com/sangkips/pos-backend/internal/domain/repository"
	"github.com/sangkips/pos-backend/pkg/apperror"
	"github.com/sangkips/pos-backend/pkg/pagination"
)

// OrderService handles the sales order lifecycle
type OrderService struct {
	uow     repository.UnitOfWork
	builder *pricing.Builder
	now     func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(uow repository.UnitOfWork, builder *pricing.Builder) *OrderService {
	if builder == nil {
		builder = pricing.NewBuilder()
	}
	return &OrderService{
		uow:     uow,
		builder: builder,
		now:     builder.Now,
	}
}

// CreateOrderInput represents the create order input. Customer name and
// phone override the values copied from the customer record.
type CreateOrderInput struct {
	UserID        *uuid.UUID
	CustomerID    *uuid.UUID
	CustomerName  *string
	CustomerPhone *string
	Items         []pricing.LineItemInput
	Charges       []pricing.ChargeInput
}

// CreateOrder prices the cart and persists the order with its lines and
// charges in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.SalesOrder, error) {
	// Price before touching the store so invalid carts never open a transaction
	order, err := s.builder.Build(pricing.CustomerSnapshot{
		ID:    input.CustomerID,
		Name:  input.CustomerName,
		Phone: input.CustomerPhone,
	}, input.Items, input.Charges)
	if err != nil {
		return nil, err
	}
	order.CreatedBy = input.UserID

	var created *entity.SalesOrder
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		if order.CustomerID != nil {
			customer, err := repos.Customers().GetByID(ctx, *order.CustomerID)
			if err != nil {
				return err
			}
			if order.CustomerName == nil {
				order.CustomerName = &customer.Name
			}
			if order.CustomerPhone == nil {
				order.CustomerPhone = customer.Phone
			}
		}

		if err := repos.Orders().Create(ctx, order); err != nil {
			return err
		}
		if err := repos.Orders().CreateItems(ctx, order.Items); err != nil {
			return err
		}
		if err := repos.Orders().CreateCharges(ctx, order.Charges); err != nil {
			return err
		}

		created, err = repos.Orders().GetWithDetails(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// VoidOrder voids the order and every completed payment on it. Voiding is
// terminal.
func (s *OrderService) VoidOrder(ctx context.Context, orderID uuid.UUID, userID *uuid.UUID) (*entity.SalesOrder, error) {
	var voided *entity.SalesOrder
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		order, err := repos.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.IsVoided() {
			return apperror.NewAlreadyVoidedError("SalesOrder", orderID.String())
		}

		at := s.now()
		ok, err := repos.Orders().MarkVoided(ctx, orderID, userID, at)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewAlreadyVoidedError("SalesOrder", orderID.String())
		}
		if _, err := repos.Payments().VoidCompletedByOrder(ctx, orderID, userID, at); err != nil {
			return err
		}

		voided, err = repos.Orders().GetWithDetails(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return voided, nil
}

// GetOrder returns the order with items, charges, payments and the derived
// paid and balance amounts.
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*entity.SalesOrder, error) {
	return s.uow.Orders().GetWithDetails(ctx, orderID)
}

// ListOrders returns one page of order headers, newest first.
func (s *OrderService) ListOrders(ctx context.Context, params *repository.SalesOrderFilterParams) (*pagination.PaginatedResult[entity.SalesOrder], error) {
	if params == nil {
		params = &repository.SalesOrderFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	if params.StartDate != nil && params.EndDate != nil && params.EndDate.Before(*params.StartDate) {
		return nil, apperror.NewInvalidInputError("end_date", "must not be before start_date")
	}

	orders, total, err := s.uow.Orders().List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(orders, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}
