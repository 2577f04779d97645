package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/application/service"
	"github.com/sangkips/pos-backend/internal/domain/pricing"
	"github.com/sangkips/pos-backend/pkg/money"
)

// CreateOrderRequest represents a checkout. Item lines are validated by
// the pricing builder so an empty cart reports empty_order.
type CreateOrderRequest struct {
	CustomerID    *uuid.UUID           `json:"customer_id"`
	CustomerName  *string              `json:"customer_name" binding:"omitempty,max=255"`
	CustomerPhone *string              `json:"customer_phone" binding:"omitempty,max=50"`
	Items         []OrderItemRequest   `json:"items"`
	Charges       []OrderChargeRequest `json:"charges"`
}

type OrderItemRequest struct {
	ItemID   uuid.UUID         `json:"item_id"`
	Name     string            `json:"name"`
	SKU      *string           `json:"sku"`
	Price    money.Money       `json:"price"`
	Quantity int64             `json:"quantity"`
	Discount money.Money       `json:"discount"`
	Tax      money.Money       `json:"tax"`
	TaxRate  *money.Percentage `json:"tax_rate"`
}

type OrderChargeRequest struct {
	Name       string            `json:"name"`
	Amount     money.Money       `json:"amount"`
	Tax        money.Money       `json:"tax"`
	TaxRate    *money.Percentage `json:"tax_rate"`
	TaxGroupID *uuid.UUID        `json:"tax_group_id"`
}

// ToInput converts the request into service input
func (r *CreateOrderRequest) ToInput() service.CreateOrderInput {
	in := service.CreateOrderInput{
		CustomerID:    r.CustomerID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Items:         make([]pricing.LineItemInput, len(r.Items)),
		Charges:       make([]pricing.ChargeInput, len(r.Charges)),
	}
	for i, it := range r.Items {
		in.Items[i] = pricing.LineItemInput{
			ItemID:   it.ItemID,
			Name:     it.Name,
			SKU:      it.SKU,
			Price:    it.Price,
			Quantity: it.Quantity,
			Discount: it.Discount,
			Tax:      it.Tax,
			TaxRate:  it.TaxRate,
		}
	}
	for i, ch := range r.Charges {
		in.Charges[i] = pricing.ChargeInput{
			Name:       ch.Name,
			Amount:     ch.Amount,
			Tax:        ch.Tax,
			TaxRate:    ch.TaxRate,
			TaxGroupID: ch.TaxGroupID,
		}
	}
	return in
}

// CreatePaymentRequest represents a payment against an order
type CreatePaymentRequest struct {
	PaymentMethodID uuid.UUID   `json:"payment_method_id" binding:"required"`
	PaymentDate     *time.Time  `json:"payment_date"`
	Amount          money.Money `json:"amount"`
	ReferenceNo     *string     `json:"reference_no" binding:"omitempty,max=100"`
	Notes           *string     `json:"notes"`
}

// UpdatePaymentRequest carries only the fields to change
type UpdatePaymentRequest struct {
	PaymentMethodID *uuid.UUID   `json:"payment_method_id"`
	PaymentDate     *time.Time   `json:"payment_date"`
	Amount          *money.Money `json:"amount"`
	ReferenceNo     *string      `json:"reference_no" binding:"omitempty,max=100"`
	Notes           *string      `json:"notes"`
}
