package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	"github.com/sangkips/pos-backend/internal/domain/enum"
	"github.com/sangkips/pos-backend/pkg/apperror"
	"github.com/sangkips/pos-backend/pkg/money"
)

type paymentRepo struct {
	ss session
}

func (r *paymentRepo) Create(ctx context.Context, p *entity.SalesOrderPayment) error {
	return r.ss.run(func(t *tables) error {
		if _, ok := t.orders[p.SalesOrderID]; !ok {
			return apperror.NewForeignKeyError("sales_order_payments.sales_order_id", nil)
		}
		if _, ok := t.paymentMethods[p.PaymentMethodID]; !ok {
			return apperror.NewForeignKeyError("sales_order_payments.payment_method_id", nil)
		}
		if _, ok := t.payments[p.ID]; ok {
			return apperror.NewUniqueConstraintError("sales_order_payments.id", nil)
		}
		row := *p
		row.PaymentMethod = nil
		t.payments[row.ID] = row
		return nil
	})
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.SalesOrderPayment, error) {
	var out *entity.SalesOrderPayment
	err := r.ss.run(func(t *tables) error {
		p, ok := t.payments[id]
		if !ok {
			return apperror.NewNotFoundError("SalesOrderPayment", id.String())
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *paymentRepo) Update(ctx context.Context, p *entity.SalesOrderPayment) (bool, error) {
	changed := false
	err := r.ss.run(func(t *tables) error {
		cur, ok := t.payments[p.ID]
		if !ok || !cur.IsCompleted() {
			return nil
		}
		if _, ok := t.paymentMethods[p.PaymentMethodID]; !ok {
			return apperror.NewForeignKeyError("sales_order_payments.payment_method_id", nil)
		}
		cur.PaymentMethodID = p.PaymentMethodID
		cur.PaymentDate = p.PaymentDate
		cur.Amount = p.Amount
		cur.ReferenceNo = p.ReferenceNo
		cur.Notes = p.Notes
		cur.UpdatedAt = p.UpdatedAt
		t.payments[p.ID] = cur
		changed = true
		return nil
	})
	return changed, err
}

func (r *paymentRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.SalesOrderPayment, error) {
	var out []entity.SalesOrderPayment
	err := r.ss.run(func(t *tables) error {
		out = paymentsOf(t, orderID)
		return nil
	})
	return out, err
}

func (r *paymentRepo) SumCompleted(ctx context.Context, orderID uuid.UUID, exclude *uuid.UUID) (money.Money, error) {
	var sum money.Money
	err := r.ss.run(func(t *tables) error {
		sum = completedSum(t, orderID, exclude)
		return nil
	})
	return sum, err
}

func (r *paymentRepo) MarkVoided(ctx context.Context, id uuid.UUID, by *uuid.UUID, at time.Time) (bool, error) {
	changed := false
	err := r.ss.run(func(t *tables) error {
		p, ok := t.payments[id]
		if !ok || !p.IsCompleted() {
			return nil
		}
		t.payments[id] = voided(p, by, at)
		changed = true
		return nil
	})
	return changed, err
}

func (r *paymentRepo) VoidCompletedByOrder(ctx context.Context, orderID uuid.UUID, by *uuid.UUID, at time.Time) (int64, error) {
	var n int64
	err := r.ss.run(func(t *tables) error {
		for id, p := range t.payments {
			if p.SalesOrderID == orderID && p.IsCompleted() {
				t.payments[id] = voided(p, by, at)
				n++
			}
		}
		return nil
	})
	return n, err
}

func voided(p entity.SalesOrderPayment, by *uuid.UUID, at time.Time) entity.SalesOrderPayment {
	p.State = enum.PaymentStateVoided
	p.VoidedBy = by
	p.VoidedAt = &at
	p.UpdatedAt = at
	return p
}
