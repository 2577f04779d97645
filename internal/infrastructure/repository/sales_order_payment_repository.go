package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	"github.com/sangkips/pos-backend/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-backend/internal/domain/repository"
	"github.com/sangkips/pos-backend/internal/infrastructure/store"
	"github.com/sangkips/pos-backend/pkg/money"
)

type salesOrderPaymentRepository struct {
	q store.Querier
}

func NewSalesOrderPaymentRepository(q store.Querier) domainRepo.SalesOrderPaymentRepository {
	return &salesOrderPaymentRepository{q: q}
}

func (r *salesOrderPaymentRepository) Create(ctx context.Context, payment *entity.SalesOrderPayment) error {
	_, err := r.q.Execute(ctx, store.Insert(salesOrderPaymentsTable, entity.SalesOrderPaymentColumns, payment.Values()))
	return err
}

func (r *salesOrderPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SalesOrderPayment, error) {
	p, err := store.QueryOne[entity.SalesOrderPayment](ctx, r.q, store.NewStatement(
		"SELECT "+store.Columns(entity.SalesOrderPaymentColumns)+" FROM "+salesOrderPaymentsTable+" WHERE id = ?", id))
	return p, notFound(err, "SalesOrderPayment", id)
}

func (r *salesOrderPaymentRepository) Update(ctx context.Context, p *entity.SalesOrderPayment) (bool, error) {
	n, err := r.q.Execute(ctx, store.NewStatement(
		"UPDATE "+salesOrderPaymentsTable+
			" SET payment_method_id = ?, payment_date = ?, amount = ?, reference_no = ?, notes = ?, updated_at = ?"+
			" WHERE id = ? AND state = ?",
		p.PaymentMethodID, p.PaymentDate, p.Amount, p.ReferenceNo, p.Notes, p.UpdatedAt,
		p.ID, enum.PaymentStateCompleted))
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *salesOrderPaymentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.SalesOrderPayment, error) {
	list, err := store.QueryMany[entity.SalesOrderPayment](ctx, r.q, store.NewStatement(
		"SELECT "+store.Columns(entity.SalesOrderPaymentColumns)+" FROM "+salesOrderPaymentsTable+
			" WHERE sales_order_id = ? ORDER BY payment_date, created_at, id", orderID))
	if err != nil {
		return nil, err
	}
	return deref(list), nil
}

func (r *salesOrderPaymentRepository) SumCompleted(ctx context.Context, orderID uuid.UUID, exclude *uuid.UUID) (money.Money, error) {
	stmt := store.NewStatement(
		"SELECT CAST(COALESCE(SUM(amount), 0) AS BIGINT) AS total FROM "+salesOrderPaymentsTable+
			" WHERE sales_order_id = ? AND state = ?", orderID, enum.PaymentStateCompleted)
	if exclude != nil {
		stmt = stmt.Append("AND id <> ?", *exclude)
	}
	n, err := store.QueryInt64(ctx, r.q, stmt, "total")
	if err != nil {
		return money.Zero, err
	}
	return money.FromMinor(n), nil
}

func (r *salesOrderPaymentRepository) MarkVoided(ctx context.Context, id uuid.UUID, by *uuid.UUID, at time.Time) (bool, error) {
	n, err := r.q.Execute(ctx, store.NewStatement(
		"UPDATE "+salesOrderPaymentsTable+" SET state = ?, voided_by = ?, voided_at = ?, updated_at = ? WHERE id = ? AND state = ?",
		enum.PaymentStateVoided, by, at, at, id, enum.PaymentStateCompleted))
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *salesOrderPaymentRepository) VoidCompletedByOrder(ctx context.Context, orderID uuid.UUID, by *uuid.UUID, at time.Time) (int64, error) {
	return r.q.Execute(ctx, store.NewStatement(
		"UPDATE "+salesOrderPaymentsTable+" SET state = ?, voided_by = ?, voided_at = ?, updated_at = ? WHERE sales_order_id = ? AND state = ?",
		enum.PaymentStateVoided, by, at, at, orderID, enum.PaymentStateCompleted))
}
