package command

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/application/service"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	"github.com/sangkips/pos-backend/internal/domain/repository"
	"github.com/sangkips/pos-backend/pkg/pagination"
)

// CreateOrder prices and stores a new order for the session's operator.
type CreateOrder struct {
	Input service.CreateOrderInput
}

func (CreateOrder) Name() string { return "create_order" }

func (cmd CreateOrder) Exec(ctx context.Context, c *Context) (*entity.SalesOrder, error) {
	in := cmd.Input
	in.UserID = c.UserID
	return c.Orders.CreateOrder(ctx, &in)
}

type VoidOrder struct {
	OrderID uuid.UUID
}

func (VoidOrder) Name() string { return "void_order" }

func (cmd VoidOrder) Exec(ctx context.Context, c *Context) (*entity.SalesOrder, error) {
	return c.Orders.VoidOrder(ctx, cmd.OrderID, c.UserID)
}

type GetOrder struct {
	OrderID uuid.UUID
}

func (GetOrder) Name() string { return "get_order" }

func (cmd GetOrder) Exec(ctx context.Context, c *Context) (*entity.SalesOrder, error) {
	return c.Orders.GetOrder(ctx, cmd.OrderID)
}

type ListOrders struct {
	Filter repository.SalesOrderFilterParams
}

func (ListOrders) Name() string { return "list_orders" }

func (cmd ListOrders) Exec(ctx context.Context, c *Context) (*pagination.PaginatedResult[entity.SalesOrder], error) {
	filter := cmd.Filter
	return c.Orders.ListOrders(ctx, &filter)
}
