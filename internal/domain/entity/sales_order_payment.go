package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/enum"
	"github.com/sangkips/pos-backend/pkg/money"
	"github.com/sangkips/pos-backend/pkg/rowscan"
)

// SalesOrderPayment records money received against an order.
type SalesOrderPayment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	SalesOrderID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"sales_order_id"`
	PaymentMethodID uuid.UUID         `gorm:"type:uuid;not null;index" json:"payment_method_id"`
	PaymentDate     time.Time         `gorm:"not null" json:"payment_date"`
	Amount          money.Money       `gorm:"not null" json:"amount"`
	ReferenceNo     *string           `gorm:"size:100" json:"reference_no,omitempty"`
	Notes           *string           `gorm:"type:text" json:"notes,omitempty"`
	State           enum.PaymentState `gorm:"type:varchar(16);not null;index" json:"state"`
	CreatedBy       *uuid.UUID        `gorm:"type:uuid" json:"created_by,omitempty"`
	VoidedBy        *uuid.UUID        `gorm:"type:uuid" json:"voided_by,omitempty"`
	VoidedAt        *time.Time        `json:"voided_at,omitempty"`
	CreatedAt       time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null" json:"updated_at"`

	PaymentMethod *PaymentMethod `gorm:"foreignKey:PaymentMethodID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (SalesOrderPayment) TableName() string {
	return "sales_order_payments"
}

var SalesOrderPaymentColumns = []string{
	"id", "sales_order_id", "payment_method_id", "payment_date", "amount", "reference_no", "notes",
	"state", "created_by", "voided_by", "voided_at", "created_at", "updated_at",
}

func (p *SalesOrderPayment) Values() []any {
	return []any{
		p.ID, p.SalesOrderID, p.PaymentMethodID, p.PaymentDate, p.Amount, p.ReferenceNo, p.Notes,
		p.State, p.CreatedBy, p.VoidedBy, p.VoidedAt, p.CreatedAt, p.UpdatedAt,
	}
}

func (p *SalesOrderPayment) Scan(r *rowscan.Row) error {
	p.ID = r.UUID("id")
	p.SalesOrderID = r.UUID("sales_order_id")
	p.PaymentMethodID = r.UUID("payment_method_id")
	p.PaymentDate = r.Time("payment_date")
	p.Amount = r.Money("amount")
	p.ReferenceNo = r.NullString("reference_no")
	p.Notes = r.NullString("notes")
	p.State = scanPaymentState(r, "state")
	p.CreatedBy = r.NullUUID("created_by")
	p.VoidedBy = r.NullUUID("voided_by")
	p.VoidedAt = r.NullTime("voided_at")
	p.CreatedAt = r.Time("created_at")
	p.UpdatedAt = r.Time("updated_at")
	return r.Err()
}

func (p *SalesOrderPayment) IsCompleted() bool {
	return p.State == enum.PaymentStateCompleted
}

func scanPaymentState(r *rowscan.Row, col string) enum.PaymentState {
	txt := r.String(col)
	if r.Err() != nil {
		return 0
	}
	st, err := enum.ParsePaymentState(txt)
	if err != nil {
		r.Fail(col, "payment state", txt)
		return 0
	}
	return st
}
