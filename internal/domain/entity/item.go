package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/pkg/money"
	"github.com/sangkips/pos-backend/pkg/rowscan"
	"gorm.io/gorm"
)

// Item is a catalog entry. Its CRUD lives outside this service; order lines
// reference it by foreign key and copy name, sku and price.
type Item struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string      `gorm:"size:255;not null" json:"name"`
	SKU         *string     `gorm:"column:sku;size:100;uniqueIndex" json:"sku,omitempty"`
	PriceAmount money.Money `gorm:"not null;default:0" json:"price_amount"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (Item) TableName() string {
	return "items"
}

var ItemColumns = []string{"id", "name", "sku", "price_amount", "created_at", "updated_at"}

func (i *Item) Values() []any {
	return []any{i.ID, i.Name, i.SKU, i.PriceAmount, i.CreatedAt, i.UpdatedAt}
}

func (i *Item) Scan(r *rowscan.Row) error {
	i.ID = r.UUID("id")
	i.Name = r.String("name")
	i.SKU = r.NullString("sku")
	i.PriceAmount = r.Money("price_amount")
	i.CreatedAt = r.Time("created_at")
	i.UpdatedAt = r.Time("updated_at")
	return r.Err()
}
