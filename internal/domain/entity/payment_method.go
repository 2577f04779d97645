package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/pkg/rowscan"
	"gorm.io/gorm"
)

// PaymentMethod is reference data such as cash or card.
type PaymentMethod struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code      string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *PaymentMethod) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}

var PaymentMethodColumns = []string{"id", "code", "name", "created_at", "updated_at"}

func (m *PaymentMethod) Values() []any {
	return []any{m.ID, m.Code, m.Name, m.CreatedAt, m.UpdatedAt}
}

func (m *PaymentMethod) Scan(r *rowscan.Row) error {
	m.ID = r.UUID("id")
	m.Code = r.String("code")
	m.Name = r.String("name")
	m.CreatedAt = r.Time("created_at")
	m.UpdatedAt = r.Time("updated_at")
	return r.Err()
}
