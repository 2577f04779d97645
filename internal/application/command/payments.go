package command

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/application/service"
	"github.com/sangkips/pos-backend/internal/domain/entity"
)

// CreatePayment records a payment taken by the session's operator.
type CreatePayment struct {
	Input service.CreatePaymentInput
}

func (CreatePayment) Name() string { return "create_payment" }

func (cmd CreatePayment) Exec(ctx context.Context, c *Context) (*entity.SalesOrderPayment, error) {
	in := cmd.Input
	in.UserID = c.UserID
	return c.Payments.CreatePayment(ctx, &in)
}

type UpdatePayment struct {
	Input service.UpdatePaymentInput
}

func (UpdatePayment) Name() string { return "update_payment" }

func (cmd UpdatePayment) Exec(ctx context.Context, c *Context) (*entity.SalesOrderPayment, error) {
	in := cmd.Input
	return c.Payments.UpdatePayment(ctx, &in)
}

type VoidPayment struct {
	PaymentID uuid.UUID
}

func (VoidPayment) Name() string { return "void_payment" }

func (cmd VoidPayment) Exec(ctx context.Context, c *Context) (*entity.SalesOrderPayment, error) {
	return c.Payments.VoidPayment(ctx, cmd.PaymentID, c.UserID)
}

type ListPayments struct {
	OrderID uuid.UUID
}

func (ListPayments) Name() string { return "list_payments" }

func (cmd ListPayments) Exec(ctx context.Context, c *Context) ([]entity.SalesOrderPayment, error) {
	return c.Payments.ListPayments(ctx, cmd.OrderID)
}

type GetPayment struct {
	PaymentID uuid.UUID
}

func (GetPayment) Name() string { return "get_payment" }

func (cmd GetPayment) Exec(ctx context.Context, c *Context) (*entity.SalesOrderPayment, error) {
	return c.Payments.GetPayment(ctx, cmd.PaymentID)
}
