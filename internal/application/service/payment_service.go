package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	"github.com/sangkips/pos-backend/internal/domain/enum"
	"github.com/sangkips/pos-backend/internal/domain/repository"
	"github.com/sangkips/pos-backend/pkg/apperror"
	"github.com/sangkips/pos-backend/pkg/money"
)

// PaymentService records money received against orders
type PaymentService struct {
	uow   repository.UnitOfWork
	now   func() time.Time
	newID func() uuid.UUID
}

// NewPaymentService creates a new payment service
func NewPaymentService(uow repository.UnitOfWork) *PaymentService {
	return &PaymentService{
		uow:   uow,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.New,
	}
}

// CreatePaymentInput represents the create payment input. PaymentDate
// defaults to now.
type CreatePaymentInput struct {
	UserID          *uuid.UUID
	OrderID         uuid.UUID
	PaymentMethodID uuid.UUID
	PaymentDate     *time.Time
	Amount          money.Money
	ReferenceNo     *string
	Notes           *string
}

// CreatePayment records a completed payment. The balance check and the
// insert run in the same transaction.
func (s *PaymentService) CreatePayment(ctx context.Context, input *CreatePaymentInput) (*entity.SalesOrderPayment, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewInvalidInputError("amount", "must be greater than zero")
	}

	now := s.now()
	payment := &entity.SalesOrderPayment{
		ID:              s.newID(),
		SalesOrderID:    input.OrderID,
		PaymentMethodID: input.PaymentMethodID,
		PaymentDate:     now,
		Amount:          input.Amount,
		ReferenceNo:     input.ReferenceNo,
		Notes:           input.Notes,
		State:           enum.PaymentStateCompleted,
		CreatedBy:       input.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if input.PaymentDate != nil {
		payment.PaymentDate = input.PaymentDate.UTC()
	}

	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		order, err := repos.Orders().GetForUpdate(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if order.IsVoided() {
			return apperror.NewOrderVoidedError(order.ID.String())
		}
		if _, err := repos.PaymentMethods().GetByID(ctx, input.PaymentMethodID); err != nil {
			return err
		}
		if err := checkBalance(ctx, repos, order, nil, input.Amount); err != nil {
			return err
		}
		return repos.Payments().Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdatePaymentInput represents the update payment input. Nil fields keep
// their current value.
type UpdatePaymentInput struct {
	PaymentID       uuid.UUID
	PaymentMethodID *uuid.UUID
	PaymentDate     *time.Time
	Amount          *money.Money
	ReferenceNo     *string
	Notes           *string
}

// UpdatePayment edits a completed payment. The new amount is checked
// against the order balance without the payment's current amount.
func (s *PaymentService) UpdatePayment(ctx context.Context, input *UpdatePaymentInput) (*entity.SalesOrderPayment, error) {
	if input.Amount != nil && !input.Amount.IsPositive() {
		return nil, apperror.NewInvalidInputError("amount", "must be greater than zero")
	}

	var updated *entity.SalesOrderPayment
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		payment, err := repos.Payments().GetByID(ctx, input.PaymentID)
		if err != nil {
			return err
		}
		if !payment.IsCompleted() {
			return apperror.NewAlreadyVoidedError("SalesOrderPayment", payment.ID.String())
		}
		order, err := repos.Orders().GetForUpdate(ctx, payment.SalesOrderID)
		if err != nil {
			return err
		}
		if order.IsVoided() {
			return apperror.NewOrderVoidedError(order.ID.String())
		}

		if input.PaymentMethodID != nil {
			if _, err := repos.PaymentMethods().GetByID(ctx, *input.PaymentMethodID); err != nil {
				return err
			}
			payment.PaymentMethodID = *input.PaymentMethodID
		}
		if input.PaymentDate != nil {
			payment.PaymentDate = input.PaymentDate.UTC()
		}
		if input.Amount != nil {
			payment.Amount = *input.Amount
		}
		if input.ReferenceNo != nil {
			payment.ReferenceNo = input.ReferenceNo
		}
		if input.Notes != nil {
			payment.Notes = input.Notes
		}
		payment.UpdatedAt = s.now()

		if err := checkBalance(ctx, repos, order, &payment.ID, payment.Amount); err != nil {
			return err
		}
		ok, err := repos.Payments().Update(ctx, payment)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewAlreadyVoidedError("SalesOrderPayment", payment.ID.String())
		}
		updated = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// VoidPayment voids a completed payment. Voiding is terminal.
func (s *PaymentService) VoidPayment(ctx context.Context, paymentID uuid.UUID, userID *uuid.UUID) (*entity.SalesOrderPayment, error) {
	var voided *entity.SalesOrderPayment
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		payment, err := repos.Payments().GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if !payment.IsCompleted() {
			return apperror.NewAlreadyVoidedError("SalesOrderPayment", paymentID.String())
		}
		ok, err := repos.Payments().MarkVoided(ctx, paymentID, userID, s.now())
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewAlreadyVoidedError("SalesOrderPayment", paymentID.String())
		}
		voided, err = repos.Payments().GetByID(ctx, paymentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return voided, nil
}

// ListPayments returns every payment on the order, voided ones included.
func (s *PaymentService) ListPayments(ctx context.Context, orderID uuid.UUID) ([]entity.SalesOrderPayment, error) {
	if _, err := s.uow.Orders().GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.uow.Payments().ListByOrder(ctx, orderID)
}

// GetPayment returns a single payment
func (s *PaymentService) GetPayment(ctx context.Context, paymentID uuid.UUID) (*entity.SalesOrderPayment, error) {
	return s.uow.Payments().GetByID(ctx, paymentID)
}

// checkBalance fails with an overpayment error when amount plus the other
// completed payments would exceed the order total.
func checkBalance(ctx context.Context, repos repository.Repositories, order *entity.SalesOrder, exclude *uuid.UUID, amount money.Money) error {
	paid, err := repos.Payments().SumCompleted(ctx, order.ID, exclude)
	if err != nil {
		return err
	}
	// Both sides are non-negative and paid never exceeds the total, so the
	// remaining balance cannot leave the Money range.
	if amount.Cmp(order.TotalAmount.Sub(paid)) > 0 {
		return apperror.NewOverpaymentError(order.ID.String(), amount.String(), paid.String(), order.TotalAmount.String())
	}
	return nil
}
