package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/pkg/rowscan"
	"gorm.io/gorm"
)

// Customer is reference data; orders copy its name and phone at sale time.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     *string   `gorm:"size:255" json:"email,omitempty"`
	Phone     *string   `gorm:"size:50" json:"phone,omitempty"`
	Address   *string   `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

var CustomerColumns = []string{"id", "name", "email", "phone", "address", "created_at", "updated_at"}

func (c *Customer) Values() []any {
	return []any{c.ID, c.Name, c.Email, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt}
}

func (c *Customer) Scan(r *rowscan.Row) error {
	c.ID = r.UUID("id")
	c.Name = r.String("name")
	c.Email = r.NullString("email")
	c.Phone = r.NullString("phone")
	c.Address = r.NullString("address")
	c.CreatedAt = r.Time("created_at")
	c.UpdatedAt = r.Time("updated_at")
	return r.Err()
}
