package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/pos-backend/internal/config"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	applog "github.com/sangkips/pos-backend/pkg/logger"
	"github.com/sangkips/pos-backend/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured engine. SQLite is limited to a single
// connection so writers never contend for the file lock.
func Open(cfg *config.DatabaseConfig, log *applog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		})
	case config.DriverSQLite, "":
		dialector = sqlite.Open(cfg.SQLiteDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if db.Dialector.Name() == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	log.Info("database connected", "driver", db.Dialector.Name())
	return db, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		// Reference data
		&entity.User{},
		&entity.Customer{},
		&entity.Item{},
		&entity.PaymentMethod{},

		// Order aggregate
		&entity.SalesOrder{},
		&entity.SalesOrderItem{},
		&entity.SalesOrderCharge{},
		&entity.SalesOrderPayment{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// DefaultPaymentMethods are created on first start.
var DefaultPaymentMethods = []entity.PaymentMethod{
	{Code: "cash", Name: "Cash"},
	{Code: "card", Name: "Card"},
	{Code: "mobile_money", Name: "Mobile Money"},
}

// SeedDefaultData creates the default payment methods and, when configured,
// the admin operator. Existing rows are left alone.
func SeedDefaultData(db *gorm.DB, admin config.AdminConfig, log *applog.Logger) error {
	for _, pm := range DefaultPaymentMethods {
		pm := pm
		var existing entity.PaymentMethod
		if err := db.Where("code = ?", pm.Code).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&pm).Error; err != nil {
			return fmt.Errorf("seed payment method %s: %w", pm.Code, err)
		}
	}

	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" || admin.Password == "" {
		return nil
	}

	var existing entity.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Debug("admin operator already exists", "email", email)
		return nil
	}

	hashed, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	name := admin.Name
	if name == "" {
		name = "Store Admin"
	}
	user := entity.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     entity.RoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("seed admin operator: %w", err)
	}
	log.Info("admin operator created", "email", email)
	return nil
}
