// Package pricing turns a cart into a fully priced sales order aggregate.
//
// Building performs no I/O. Given the same inputs, clock and id generator
// it always produces the same aggregate.
package pricing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	"github.com/sangkips/pos-backend/internal/domain/enum"
	"github.com/sangkips/pos-backend/pkg/apperror"
	"github.com/sangkips/pos-backend/pkg/money"
	"github.com/sangkips/pos-backend/pkg/utils"
)

const OrderNoPrefix = "SO"

// CustomerSnapshot is copied onto the order. A nil ID is a walk-in sale.
type CustomerSnapshot struct {
	ID    *uuid.UUID
	Name  *string
	Phone *string
}

// LineItemInput is one cart line. Tax is either an explicit amount or a
// rate applied to the taxable amount, never both.
type LineItemInput struct {
	ItemID   uuid.UUID
	Name     string
	SKU      *string
	Price    money.Money
	Quantity int64
	Discount money.Money
	Tax      money.Money
	TaxRate  *money.Percentage
}

// ChargeInput is an order level fee. Charges are not discounted.
type ChargeInput struct {
	Name       string
	Amount     money.Money
	Tax        money.Money
	TaxRate    *money.Percentage
	TaxGroupID *uuid.UUID
}

type Builder struct {
	Now   func() time.Time
	NewID func() uuid.UUID
}

func NewBuilder() *Builder {
	return &Builder{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.New,
	}
}

// Build validates the cart and prices every line.
func (b *Builder) Build(customer CustomerSnapshot, items []LineItemInput, charges []ChargeInput) (*entity.SalesOrder, error) {
	if len(items) == 0 {
		return nil, apperror.NewEmptyOrderError()
	}
	if fieldErrs := validate(items, charges); len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	now := b.Now()
	orderID := b.NewID()
	order := &entity.SalesOrder{
		ID:            orderID,
		OrderNo:       utils.GenerateOrderNo(OrderNoPrefix, orderID),
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		OrderDate:     now,
		State:         enum.OrderStateCreated,
		CreatedAt:     now,
		UpdatedAt:     now,
		Items:         make([]entity.SalesOrderItem, 0, len(items)),
		Charges:       make([]entity.SalesOrderCharge, 0, len(charges)),
	}

	var sum checkedSum
	for i, in := range items {
		gross := sum.mul(in.Price, in.Quantity)
		taxable := gross.Sub(in.Discount)
		tax := in.Tax
		if in.TaxRate != nil {
			tax = taxable.ApplyPercentage(*in.TaxRate)
		}

		order.Items = append(order.Items, entity.SalesOrderItem{
			ID:            b.NewID(),
			SalesOrderID:  orderID,
			LineNo:        i + 1,
			ItemID:        in.ItemID,
			ItemName:      strings.TrimSpace(in.Name),
			ItemSKU:       in.SKU,
			PriceAmount:   in.Price,
			Quantity:      in.Quantity,
			DiscAmount:    in.Discount,
			TaxableAmount: taxable,
			TaxAmount:     tax,
			TotalAmount:   sum.add(taxable, tax),
			CreatedAt:     now,
			UpdatedAt:     now,
		})

		order.NetAmount = sum.add(order.NetAmount, gross)
		order.DiscAmount = sum.add(order.DiscAmount, in.Discount)
		order.TaxableAmount = sum.add(order.TaxableAmount, taxable)
		order.TaxAmount = sum.add(order.TaxAmount, tax)
	}

	chargesTotal := money.Zero
	for i, in := range charges {
		tax := in.Tax
		if in.TaxRate != nil {
			tax = in.Amount.ApplyPercentage(*in.TaxRate)
		}
		order.Charges = append(order.Charges, entity.SalesOrderCharge{
			ID:           b.NewID(),
			SalesOrderID: orderID,
			LineNo:       i + 1,
			ChargeName:   strings.TrimSpace(in.Name),
			Amount:       in.Amount,
			TaxAmount:    tax,
			TaxGroupID:   in.TaxGroupID,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		chargesTotal = sum.add(chargesTotal, sum.add(in.Amount, tax))
	}

	order.TotalAmount = sum.add(sum.add(order.TaxableAmount, order.TaxAmount), chargesTotal)
	if sum.overflow {
		return nil, apperror.NewInvalidInputError("items", "order total is too large")
	}
	order.SetPaid(money.Zero)
	return order, nil
}

func validate(items []LineItemInput, charges []ChargeInput) []apperror.FieldError {
	var errs []apperror.FieldError
	add := func(field, msg string) {
		errs = append(errs, apperror.FieldError{Field: field, Message: msg})
	}

	for i, in := range items {
		f := fmt.Sprintf("items[%d]", i)
		if in.ItemID == uuid.Nil {
			add(f+".item_id", "is required")
		}
		if strings.TrimSpace(in.Name) == "" {
			add(f+".name", "is required")
		}
		if in.Quantity < 1 {
			add(f+".quantity", "must be at least 1")
		}
		if in.Price.IsNegative() {
			add(f+".price", "must not be negative")
		}
		if in.Discount.IsNegative() {
			add(f+".discount", "must not be negative")
		}
		if in.Tax.IsNegative() {
			add(f+".tax", "must not be negative")
		}
		if in.TaxRate != nil && !in.Tax.IsZero() {
			add(f+".tax", "cannot be combined with tax_rate")
		}
		if in.Quantity >= 1 && !in.Price.IsNegative() {
			if in.Price.MinorUnits() > math.MaxInt64/in.Quantity {
				add(f+".quantity", "line amount is too large")
			} else if in.Discount.Cmp(in.Price.Mul(in.Quantity)) > 0 {
				add(f+".discount", "must not exceed price times quantity")
			}
		}
	}

	for i, in := range charges {
		f := fmt.Sprintf("charges[%d]", i)
		if strings.TrimSpace(in.Name) == "" {
			add(f+".name", "is required")
		}
		if in.Amount.IsNegative() {
			add(f+".amount", "must not be negative")
		}
		if in.Tax.IsNegative() {
			add(f+".tax", "must not be negative")
		}
		if in.TaxRate != nil && !in.Tax.IsZero() {
			add(f+".tax", "cannot be combined with tax_rate")
		}
	}
	return errs
}

// checkedSum does order arithmetic and remembers whether any step left the
// Money range. Results after an overflow are meaningless.
type checkedSum struct {
	overflow bool
}

func (s *checkedSum) add(a, b money.Money) money.Money {
	r, err := a.AddChecked(b)
	if err != nil {
		s.overflow = true
	}
	return r
}

func (s *checkedSum) mul(m money.Money, qty int64) money.Money {
	r, err := m.MulChecked(qty)
	if err != nil {
		s.overflow = true
	}
	return r
}
