package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/enum"
	"github.com/sangkips/pos-backend/pkg/money"
	"github.com/sangkips/pos-backend/pkg/rowscan"
)

// SalesOrder is the order aggregate root. Customer name and phone are
// snapshots taken when the order was created.
type SalesOrder struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNo       string          `gorm:"size:32;uniqueIndex;not null" json:"order_no"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName  *string         `gorm:"size:255" json:"customer_name,omitempty"`
	CustomerPhone *string         `gorm:"size:50" json:"customer_phone,omitempty"`
	OrderDate     time.Time       `gorm:"not null;index" json:"order_date"`
	NetAmount     money.Money     `gorm:"not null;default:0" json:"net_amount"`
	DiscAmount    money.Money     `gorm:"not null;default:0" json:"disc_amount"`
	TaxableAmount money.Money     `gorm:"not null;default:0" json:"taxable_amount"`
	TaxAmount     money.Money     `gorm:"not null;default:0" json:"tax_amount"`
	TotalAmount   money.Money     `gorm:"not null;default:0" json:"total_amount"`
	State         enum.OrderState `gorm:"type:varchar(16);not null;index" json:"state"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid" json:"created_by,omitempty"`
	VoidedBy      *uuid.UUID      `gorm:"type:uuid" json:"voided_by,omitempty"`
	VoidedAt      *time.Time      `json:"voided_at,omitempty"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`

	// Derived from completed payments on read, never stored.
	PaidAmount    money.Money `gorm:"-" json:"paid_amount"`
	BalanceAmount money.Money `gorm:"-" json:"balance_amount"`

	// Relationships
	Customer *Customer          `gorm:"foreignKey:CustomerID" json:"-"`
	Items    []SalesOrderItem    `gorm:"foreignKey:SalesOrderID;constraint:OnDelete:RESTRICT" json:"items,omitempty"`
	Charges  []SalesOrderCharge  `gorm:"foreignKey:SalesOrderID;constraint:OnDelete:RESTRICT" json:"charges,omitempty"`
	Payments []SalesOrderPayment `gorm:"foreignKey:SalesOrderID;constraint:OnDelete:RESTRICT" json:"payments,omitempty"`
}

// TableName returns the table name for the SalesOrder model
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// SalesOrderColumns is the single column list for reads and writes.
// Values and Scan follow the same order.
var SalesOrderColumns = []string{
	"id", "order_no", "customer_id", "customer_name", "customer_phone", "order_date",
	"net_amount", "disc_amount", "taxable_amount", "tax_amount", "total_amount",
	"state", "created_by", "voided_by", "voided_at", "created_at", "updated_at",
}

func (o *SalesOrder) Values() []any {
	return []any{
		o.ID, o.OrderNo, o.CustomerID, o.CustomerName, o.CustomerPhone, o.OrderDate,
		o.NetAmount, o.DiscAmount, o.TaxableAmount, o.TaxAmount, o.TotalAmount,
		o.State, o.CreatedBy, o.VoidedBy, o.VoidedAt, o.CreatedAt, o.UpdatedAt,
	}
}

func (o *SalesOrder) Scan(r *rowscan.Row) error {
	o.ID = r.UUID("id")
	o.OrderNo = r.String("order_no")
	o.CustomerID = r.NullUUID("customer_id")
	o.CustomerName = r.NullString("customer_name")
	o.CustomerPhone = r.NullString("customer_phone")
	o.OrderDate = r.Time("order_date")
	o.NetAmount = r.Money("net_amount")
	o.DiscAmount = r.Money("disc_amount")
	o.TaxableAmount = r.Money("taxable_amount")
	o.TaxAmount = r.Money("tax_amount")
	o.TotalAmount = r.Money("total_amount")
	o.State = scanOrderState(r, "state")
	o.CreatedBy = r.NullUUID("created_by")
	o.VoidedBy = r.NullUUID("voided_by")
	o.VoidedAt = r.NullTime("voided_at")
	o.CreatedAt = r.Time("created_at")
	o.UpdatedAt = r.Time("updated_at")
	return r.Err()
}

func (o *SalesOrder) IsVoided() bool {
	return o.State == enum.OrderStateVoided
}

// ApplyPayments sets the derived paid and balance amounts from the
// completed payments in Payments.
func (o *SalesOrder) ApplyPayments() {
	var paid money.Money
	for _, p := range o.Payments {
		if p.IsCompleted() {
			paid = paid.Add(p.Amount)
		}
	}
	o.SetPaid(paid)
}

func (o *SalesOrder) SetPaid(paid money.Money) {
	o.PaidAmount = paid
	o.BalanceAmount = o.TotalAmount.Sub(paid)
}

// SalesOrderItem is one line of an order with catalog data snapshotted.
type SalesOrderItem struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	SalesOrderID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"sales_order_id"`
	LineNo        int         `gorm:"not null" json:"line_no"`
	ItemID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"item_id"`
	ItemName      string      `gorm:"size:255;not null" json:"item_name"`
	ItemSKU       *string     `gorm:"column:item_sku;size:100" json:"item_sku,omitempty"`
	PriceAmount   money.Money `gorm:"not null" json:"price_amount"`
	Quantity      int64       `gorm:"not null;check:quantity >= 1" json:"quantity"`
	DiscAmount    money.Money `gorm:"not null;default:0" json:"disc_amount"`
	TaxableAmount money.Money `gorm:"not null" json:"taxable_amount"`
	TaxAmount     money.Money `gorm:"not null;default:0" json:"tax_amount"`
	TotalAmount   money.Money `gorm:"not null" json:"total_amount"`
	CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`

	Item *Item `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (SalesOrderItem) TableName() string {
	return "sales_order_items"
}

var SalesOrderItemColumns = []string{
	"id", "sales_order_id", "line_no", "item_id", "item_name", "item_sku", "price_amount", "quantity",
	"disc_amount", "taxable_amount", "tax_amount", "total_amount", "created_at", "updated_at",
}

func (i *SalesOrderItem) Values() []any {
	return []any{
		i.ID, i.SalesOrderID, i.LineNo, i.ItemID, i.ItemName, i.ItemSKU, i.PriceAmount, i.Quantity,
		i.DiscAmount, i.TaxableAmount, i.TaxAmount, i.TotalAmount, i.CreatedAt, i.UpdatedAt,
	}
}

func (i *SalesOrderItem) Scan(r *rowscan.Row) error {
	i.ID = r.UUID("id")
	i.SalesOrderID = r.UUID("sales_order_id")
	i.LineNo = r.Int("line_no")
	i.ItemID = r.UUID("item_id")
	i.ItemName = r.String("item_name")
	i.ItemSKU = r.NullString("item_sku")
	i.PriceAmount = r.Money("price_amount")
	i.Quantity = r.Int64("quantity")
	i.DiscAmount = r.Money("disc_amount")
	i.TaxableAmount = r.Money("taxable_amount")
	i.TaxAmount = r.Money("tax_amount")
	i.TotalAmount = r.Money("total_amount")
	i.CreatedAt = r.Time("created_at")
	i.UpdatedAt = r.Time("updated_at")
	return r.Err()
}

// SalesOrderCharge is an order level fee such as a service charge.
type SalesOrderCharge struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	SalesOrderID uuid.UUID   `gorm:"type:uuid;not null;index" json:"sales_order_id"`
	LineNo       int         `gorm:"not null" json:"line_no"`
	ChargeName   string      `gorm:"size:255;not null" json:"charge_name"`
	Amount       money.Money `gorm:"not null" json:"amount"`
	TaxAmount    money.Money `gorm:"not null;default:0" json:"tax_amount"`
	TaxGroupID   *uuid.UUID  `gorm:"type:uuid" json:"tax_group_id,omitempty"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}

func (SalesOrderCharge) TableName() string {
	return "sales_order_charges"
}

var SalesOrderChargeColumns = []string{
	"id", "sales_order_id", "line_no", "charge_name", "amount", "tax_amount", "tax_group_id", "created_at", "updated_at",
}

func (c *SalesOrderCharge) Values() []any {
	return []any{c.ID, c.SalesOrderID, c.LineNo, c.ChargeName, c.Amount, c.TaxAmount, c.TaxGroupID, c.CreatedAt, c.UpdatedAt}
}

func (c *SalesOrderCharge) Scan(r *rowscan.Row) error {
	c.ID = r.UUID("id")
	c.SalesOrderID = r.UUID("sales_order_id")
	c.LineNo = r.Int("line_no")
	c.ChargeName = r.String("charge_name")
	c.Amount = r.Money("amount")
	c.TaxAmount = r.Money("tax_amount")
	c.TaxGroupID = r.NullUUID("tax_group_id")
	c.CreatedAt = r.Time("created_at")
	c.UpdatedAt = r.Time("updated_at")
	return r.Err()
}

func scanOrderState(r *rowscan.Row, col string) enum.OrderState {
	txt := r.String(col)
	if r.Err() != nil {
		return 0
	}
	st, err := enum.ParseOrderState(txt)
	if err != nil {
		r.Fail(col, "order state", txt)
		return 0
	}
	return st
}
