package store

import (
	"context"
	"fmt"

	"github.com/sangkips/pos-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Querier executes statements against one connection or one transaction.
type Querier interface {
	// Rows runs a query and materializes every result row.
	Rows(ctx context.Context, stmt Statement) ([]*Row, error)
	// Execute runs a write and returns the affected row count.
	Execute(ctx context.Context, stmt Statement) (int64, error)
	// Transaction runs fn against a querier scoped to a single transaction.
	// Returning an error or panicking rolls back every write made through
	// that querier. Calling Transaction on the scoped querier fails with
	// ErrNestedTransaction.
	Transaction(ctx context.Context, fn func(q Querier) error) error
	Dialect() string
	Logger() *logger.Logger
}

// DB is the gorm backed Querier.
type DB struct {
	db   *gorm.DB
	log  *logger.Logger
	inTx bool
}

func New(db *gorm.DB, log *logger.Logger) *DB {
	if log == nil {
		log = logger.Nop()
	}
	return &DB{db: db, log: log}
}

// Gorm exposes the handle for collaborators that use gorm models directly.
func (d *DB) Gorm() *gorm.DB {
	return d.db
}

func (d *DB) Dialect() string {
	return d.db.Dialector.Name()
}

func (d *DB) Logger() *logger.Logger {
	return d.log
}

func (d *DB) Rows(ctx context.Context, stmt Statement) ([]*Row, error) {
	rows, err := d.db.WithContext(ctx).Raw(stmt.SQL, stmt.Args...).Rows()
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, MapError(err)
	}

	var out []*Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, MapError(err)
		}
		out = append(out, NewRow(cols, values))
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return out, nil
}

func (d *DB) Execute(ctx context.Context, stmt Statement) (int64, error) {
	res := d.db.WithContext(ctx).Exec(stmt.SQL, stmt.Args...)
	if res.Error != nil {
		return 0, MapError(res.Error)
	}
	return res.RowsAffected, nil
}

func (d *DB) Transaction(ctx context.Context, fn func(q Querier) error) error {
	if d.inTx {
		return ErrNestedTransaction
	}
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) (err error) {
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("transaction body panicked, rolling back", "panic", r)
				err = fmt.Errorf("transaction body panicked: %v", r)
			}
		}()
		return fn(&DB{db: tx, log: d.log, inTx: true})
	})
	return MapError(err)
}
