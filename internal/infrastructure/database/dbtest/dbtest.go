// Package dbtest opens isolated in-memory SQLite databases with the full
// schema for integration tests.
package dbtest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/config"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	"github.com/sangkips/pos-backend/internal/infrastructure/database"
	"github.com/sangkips/pos-backend/internal/infrastructure/store"
	"github.com/sangkips/pos-backend/pkg/logger"
	"github.com/sangkips/pos-backend/pkg/money"
	"gorm.io/gorm"
)

// DB returns a migrated, seeded database private to the test.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	cfg := &config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel:   "silent",
	}
	db, err := database.Open(cfg, logger.Nop())
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	if err := database.SeedDefaultData(db, config.AdminConfig{}, logger.Nop()); err != nil {
		tb.Fatalf("seed: %v", err)
	}
	return db
}

// Store wraps DB in the querier used by repositories.
func Store(tb testing.TB) *store.DB {
	tb.Helper()
	return store.New(DB(tb), logger.Nop())
}

// Fixtures holds reference rows commonly needed by order tests.
type Fixtures struct {
	Customer entity.Customer
	Items    []entity.Item
	Cash     entity.PaymentMethod
	Card     entity.PaymentMethod
	Operator entity.User
}

// Seed inserts a customer, two catalog items and an operator.
func Seed(tb testing.TB, db *gorm.DB) Fixtures {
	tb.Helper()
	now := time.Now().UTC()
	phone := "+254700000001"
	fx := Fixtures{
		Customer: entity.Customer{ID: uuid.New(), Name: "Jane Wanjiku", Phone: &phone, CreatedAt: now, UpdatedAt: now},
		Items: []entity.Item{
			{ID: uuid.New(), Name: "Tea", PriceAmount: money.MustParse("50.00"), CreatedAt: now, UpdatedAt: now},
			{ID: uuid.New(), Name: "Mandazi", PriceAmount: money.MustParse("20.00"), CreatedAt: now, UpdatedAt: now},
		},
		Operator: entity.User{ID: uuid.New(), Name: "Till One", Email: "till1@example.com", Password: "x", Role: entity.RoleCashier},
	}
	if err := db.Create(&fx.Customer).Error; err != nil {
		tb.Fatalf("seed customer: %v", err)
	}
	if err := db.Create(&fx.Items).Error; err != nil {
		tb.Fatalf("seed items: %v", err)
	}
	if err := db.Create(&fx.Operator).Error; err != nil {
		tb.Fatalf("seed operator: %v", err)
	}
	if err := db.Where("code = ?", "cash").First(&fx.Cash).Error; err != nil {
		tb.Fatalf("load cash method: %v", err)
	}
	if err := db.Where("code = ?", "card").First(&fx.Card).Error; err != nil {
		tb.Fatalf("load card method: %v", err)
	}
	return fx
}

// CountRows returns the row count of table.
func CountRows(tb testing.TB, db *gorm.DB, table string) int64 {
	tb.Helper()
	var n int64
	if err := db.Table(table).Count(&n).Error; err != nil {
		tb.Fatalf("count %s: %v", table, err)
	}
	return n
}
