package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	"github.com/sangkips/pos-backend/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-backend/internal/domain/repository"
	"github.com/sangkips/pos-backend/pkg/apperror"
	"github.com/sangkips/pos-backend/pkg/money"
	"github.com/sangkips/pos-backend/pkg/pagination"
)

type orderRepo struct {
	ss session
}

func (r *orderRepo) Create(ctx context.Context, order *entity.SalesOrder) error {
	return r.ss.run(func(t *tables) error {
		if _, ok := t.orders[order.ID]; ok {
			return apperror.NewUniqueConstraintError("sales_orders.id", nil)
		}
		for _, o := range t.orders {
			if o.OrderNo == order.OrderNo {
				return apperror.NewUniqueConstraintError("sales_orders.order_no", nil)
			}
		}
		if order.CustomerID != nil {
			if _, ok := t.customers[*order.CustomerID]; !ok {
				return apperror.NewForeignKeyError("sales_orders.customer_id", nil)
			}
		}
		row := *order
		row.Customer, row.Items, row.Charges, row.Payments = nil, nil, nil, nil
		t.orders[row.ID] = row
		return nil
	})
}

func (r *orderRepo) CreateItems(ctx context.Context, items []entity.SalesOrderItem) error {
	return r.ss.run(func(t *tables) error {
		for _, it := range items {
			if _, ok := t.orders[it.SalesOrderID]; !ok {
				return apperror.NewForeignKeyError("sales_order_items.sales_order_id", nil)
			}
			if _, ok := t.catalog[it.ItemID]; !ok {
				return apperror.NewForeignKeyError("sales_order_items.item_id", nil)
			}
			if _, ok := t.orderItems[it.ID]; ok {
				return apperror.NewUniqueConstraintError("sales_order_items.id", nil)
			}
			it.Item = nil
			t.orderItems[it.ID] = it
		}
		return nil
	})
}

func (r *orderRepo) CreateCharges(ctx context.Context, charges []entity.SalesOrderCharge) error {
	return r.ss.run(func(t *tables) error {
		for _, c := range charges {
			if _, ok := t.orders[c.SalesOrderID]; !ok {
				return apperror.NewForeignKeyError("sales_order_charges.sales_order_id", nil)
			}
			if _, ok := t.orderCharges[c.ID]; ok {
				return apperror.NewUniqueConstraintError("sales_order_charges.id", nil)
			}
			t.orderCharges[c.ID] = c
		}
		return nil
	})
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.SalesOrder, error) {
	var out *entity.SalesOrder
	err := r.ss.run(func(t *tables) error {
		o, ok := t.orders[id]
		if !ok {
			return apperror.NewNotFoundError("SalesOrder", id.String())
		}
		out = &o
		return nil
	})
	return out, err
}

// GetForUpdate needs no row lock: the caller already holds the store lock.
func (r *orderRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.SalesOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.SalesOrder, error) {
	var out *entity.SalesOrder
	err := r.ss.run(func(t *tables) error {
		o, ok := t.orders[id]
		if !ok {
			return apperror.NewNotFoundError("SalesOrder", id.String())
		}
		for _, it := range t.orderItems {
			if it.SalesOrderID == id {
				o.Items = append(o.Items, it)
			}
		}
		slices.SortFunc(o.Items, func(a, b entity.SalesOrderItem) int { return cmp.Compare(a.LineNo, b.LineNo) })
		for _, c := range t.orderCharges {
			if c.SalesOrderID == id {
				o.Charges = append(o.Charges, c)
			}
		}
		slices.SortFunc(o.Charges, func(a, b entity.SalesOrderCharge) int { return cmp.Compare(a.LineNo, b.LineNo) })
		o.Payments = paymentsOf(t, id)
		o.ApplyPayments()
		out = &o
		return nil
	})
	return out, err
}

func (r *orderRepo) MarkVoided(ctx context.Context, id uuid.UUID, by *uuid.UUID, at time.Time) (bool, error) {
	changed := false
	err := r.ss.run(func(t *tables) error {
		o, ok := t.orders[id]
		if !ok || o.State != enum.OrderStateCreated {
			return nil
		}
		o.State = enum.OrderStateVoided
		o.VoidedBy = by
		o.VoidedAt = &at
		o.UpdatedAt = at
		t.orders[id] = o
		changed = true
		return nil
	})
	return changed, err
}

func (r *orderRepo) List(ctx context.Context, params *domainRepo.SalesOrderFilterParams) ([]entity.SalesOrder, int64, error) {
	if params == nil {
		params = &domainRepo.SalesOrderFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	var out []entity.SalesOrder
	var total int64
	err := r.ss.run(func(t *tables) error {
		search := strings.ToLower(strings.TrimSpace(params.Search))
		var matched []entity.SalesOrder
		for _, o := range t.orders {
			if !matches(o, params, search) {
				continue
			}
			o.SetPaid(completedSum(t, o.ID, nil))
			matched = append(matched, o)
		}
		slices.SortFunc(matched, func(a, b entity.SalesOrder) int {
			if c := b.OrderDate.Compare(a.OrderDate); c != 0 {
				return c
			}
			return strings.Compare(b.ID.String(), a.ID.String())
		})

		total = int64(len(matched))
		start := min(params.Pagination.Offset(), len(matched))
		end := min(start+params.Pagination.PerPage, len(matched))
		out = matched[start:end]
		return nil
	})
	return out, total, err
}

func matches(o entity.SalesOrder, p *domainRepo.SalesOrderFilterParams, search string) bool {
	if search != "" {
		name := ""
		if o.CustomerName != nil {
			name = *o.CustomerName
		}
		if !strings.Contains(strings.ToLower(o.OrderNo), search) && !strings.Contains(strings.ToLower(name), search) {
			return false
		}
	}
	if p.State != nil && o.State != *p.State {
		return false
	}
	if p.CustomerID != nil && (o.CustomerID == nil || *o.CustomerID != *p.CustomerID) {
		return false
	}
	if p.StartDate != nil && o.OrderDate.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && o.OrderDate.After(*p.EndDate) {
		return false
	}
	return true
}

func paymentsOf(t *tables, orderID uuid.UUID) []entity.SalesOrderPayment {
	var out []entity.SalesOrderPayment
	for _, p := range t.payments {
		if p.SalesOrderID == orderID {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b entity.SalesOrderPayment) int {
		if c := a.PaymentDate.Compare(b.PaymentDate); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

func completedSum(t *tables, orderID uuid.UUID, exclude *uuid.UUID) money.Money {
	var sum money.Money
	for _, p := range t.payments {
		if p.SalesOrderID != orderID || !p.IsCompleted() {
			continue
		}
		if exclude != nil && p.ID == *exclude {
			continue
		}
		sum = sum.Add(p.Amount)
	}
	return sum
}
