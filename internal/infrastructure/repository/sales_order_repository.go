package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	"github.com/sangkips/pos-backend/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-backend/internal/domain/repository"
	"github.com/sangkips/pos-backend/internal/infrastructure/store"
	"github.com/sangkips/pos-backend/pkg/apperror"
	"github.com/sangkips/pos-backend/pkg/pagination"
)

const (
	salesOrdersTable        = "sales_orders"
	salesOrderItemsTable    = "sales_order_items"
	salesOrderChargesTable  = "sales_order_charges"
	salesOrderPaymentsTable = "sales_order_payments"
)

type salesOrderRepository struct {
	q store.Querier
}

// NewSalesOrderRepository creates a new sales order repository
func NewSalesOrderRepository(q store.Querier) domainRepo.SalesOrderRepository {
	return &salesOrderRepository{q: q}
}

func (r *salesOrderRepository) Create(ctx context.Context, order *entity.SalesOrder) error {
	_, err := r.q.Execute(ctx, store.Insert(salesOrdersTable, entity.SalesOrderColumns, order.Values()))
	return err
}

func (r *salesOrderRepository) CreateItems(ctx context.Context, items []entity.SalesOrderItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([][]any, len(items))
	for i := range items {
		rows[i] = items[i].Values()
	}
	_, err := r.q.Execute(ctx, store.InsertMany(salesOrderItemsTable, entity.SalesOrderItemColumns, rows))
	return err
}

func (r *salesOrderRepository) CreateCharges(ctx context.Context, charges []entity.SalesOrderCharge) error {
	if len(charges) == 0 {
		return nil
	}
	rows := make([][]any, len(charges))
	for i := range charges {
		rows[i] = charges[i].Values()
	}
	_, err := r.q.Execute(ctx, store.InsertMany(salesOrderChargesTable, entity.SalesOrderChargeColumns, rows))
	return err
}

func (r *salesOrderRepository) selectByID(id uuid.UUID) store.Statement {
	return store.NewStatement(
		"SELECT "+store.Columns(entity.SalesOrderColumns)+" FROM "+salesOrdersTable+" WHERE id = ?", id)
}

func (r *salesOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SalesOrder, error) {
	order, err := store.QueryOne[entity.SalesOrder](ctx, r.q, r.selectByID(id))
	return order, notFound(err, "SalesOrder", id)
}

func (r *salesOrderRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.SalesOrder, error) {
	order, err := store.QueryOne[entity.SalesOrder](ctx, r.q, r.selectByID(id).ForUpdate(r.q.Dialect()))
	return order, notFound(err, "SalesOrder", id)
}

func (r *salesOrderRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.SalesOrder, error) {
	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := store.QueryMany[entity.SalesOrderItem](ctx, r.q, store.NewStatement(
		"SELECT "+store.Columns(entity.SalesOrderItemColumns)+" FROM "+salesOrderItemsTable+
			" WHERE sales_order_id = ? ORDER BY line_no", id))
	if err != nil {
		return nil, err
	}
	charges, err := store.QueryMany[entity.SalesOrderCharge](ctx, r.q, store.NewStatement(
		"SELECT "+store.Columns(entity.SalesOrderChargeColumns)+" FROM "+salesOrderChargesTable+
			" WHERE sales_order_id = ? ORDER BY line_no", id))
	if err != nil {
		return nil, err
	}
	payments, err := NewSalesOrderPaymentRepository(r.q).ListByOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	order.Items = deref(items)
	order.Charges = deref(charges)
	order.Payments = payments
	order.ApplyPayments()
	return order, nil
}

func (r *salesOrderRepository) MarkVoided(ctx context.Context, id uuid.UUID, by *uuid.UUID, at time.Time) (bool, error) {
	n, err := r.q.Execute(ctx, store.NewStatement(
		"UPDATE "+salesOrdersTable+" SET state = ?, voided_by = ?, voided_at = ?, updated_at = ? WHERE id = ? AND state = ?",
		enum.OrderStateVoided, by, at, at, id, enum.OrderStateCreated))
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// orderWithPaid decodes an order row plus the paid_amount subquery column.
type orderWithPaid struct {
	entity.SalesOrder
}

func (o *orderWithPaid) Scan(r *store.Row) error {
	if err := o.SalesOrder.Scan(r); err != nil {
		return err
	}
	o.SetPaid(r.Money("paid_amount"))
	return r.Err()
}

func (r *salesOrderRepository) List(ctx context.Context, params *domainRepo.SalesOrderFilterParams) ([]entity.SalesOrder, int64, error) {
	if params == nil {
		params = &domainRepo.SalesOrderFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	var conds []string
	var args []any
	if s := strings.TrimSpace(params.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		conds = append(conds, "(LOWER(o.order_no) LIKE ? OR LOWER(COALESCE(o.customer_name, '')) LIKE ?)")
		args = append(args, like, like)
	}
	if params.State != nil {
		conds = append(conds, "o.state = ?")
		args = append(args, *params.State)
	}
	if params.CustomerID != nil {
		conds = append(conds, "o.customer_id = ?")
		args = append(args, *params.CustomerID)
	}
	if params.StartDate != nil {
		conds = append(conds, "o.order_date >= ?")
		args = append(args, *params.StartDate)
	}
	if params.EndDate != nil {
		conds = append(conds, "o.order_date <= ?")
		args = append(args, *params.EndDate)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	total, err := store.QueryInt64(ctx, r.q,
		store.NewStatement("SELECT COUNT(*) AS n FROM "+salesOrdersTable+" o"+where, args...), "n")
	if err != nil {
		return nil, 0, err
	}

	stmt := store.NewStatement(
		"SELECT "+store.QualifiedColumns("o", entity.SalesOrderColumns)+
			", (SELECT CAST(COALESCE(SUM(p.amount), 0) AS BIGINT) FROM "+salesOrderPaymentsTable+
			" p WHERE p.sales_order_id = o.id AND p.state = ?) AS paid_amount"+
			" FROM "+salesOrdersTable+" o"+where,
		append([]any{enum.PaymentStateCompleted}, args...)...,
	).Append("ORDER BY o.order_date DESC, o.id DESC LIMIT ? OFFSET ?", params.Pagination.PerPage, params.Pagination.Offset())

	rows, err := store.QueryMany[orderWithPaid](ctx, r.q, stmt)
	if err != nil {
		return nil, 0, err
	}
	orders := make([]entity.SalesOrder, len(rows))
	for i, row := range rows {
		orders[i] = row.SalesOrder
	}
	return orders, total, nil
}

// notFound names the resource on a bare not-found from the store.
func notFound(err error, resource string, id uuid.UUID) error {
	if err != nil && errors.Is(err, apperror.ErrNotFound) {
		return apperror.NewNotFoundError(resource, id.String())
	}
	return err
}

func deref[T any](in []*T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = *v
	}
	return out
}
