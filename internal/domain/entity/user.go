package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/pkg/rowscan"
	"gorm.io/gorm"
)

// User is a till operator. Their id stamps the created_by and voided_by
// audit columns.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:50;not null;default:'cashier'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

var UserColumns = []string{"id", "name", "email", "password", "role", "created_at", "updated_at"}

func (u *User) Values() []any {
	return []any{u.ID, u.Name, u.Email, u.Password, u.Role, u.CreatedAt, u.UpdatedAt}
}

func (u *User) Scan(r *rowscan.Row) error {
	u.ID = r.UUID("id")
	u.Name = r.String("name")
	u.Email = r.String("email")
	u.Password = r.String("password")
	u.Role = r.String("role")
	u.CreatedAt = r.Time("created_at")
	u.UpdatedAt = r.Time("updated_at")
	return r.Err()
}
