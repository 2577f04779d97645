package store

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/pos-backend/pkg/apperror"
	"gorm.io/gorm"
)

// ErrNestedTransaction is returned when Transaction is called on a querier
// that is already scoped to a transaction.
var ErrNestedTransaction = errors.New("store: nested transactions are not supported")

// MapError translates engine failures into the application taxonomy.
// Errors that already carry an AppError pass through unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NewNotFoundError("Record", "")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.NewUniqueConstraintError(err.Error(), err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperror.NewForeignKeyError(err.Error(), err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505": // unique_violation
			return apperror.NewUniqueConstraintError(pgErr.ConstraintName, err)
		case "23503": // foreign_key_violation
			return apperror.NewForeignKeyError(pgErr.ConstraintName, err)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint failed"),
		strings.Contains(msg, "duplicate key"):
		return apperror.NewUniqueConstraintError(err.Error(), err)
	case strings.Contains(msg, "foreign key constraint failed"),
		strings.Contains(msg, "violates foreign key constraint"):
		return apperror.NewForeignKeyError(err.Error(), err)
	default:
		return apperror.NewStoreError("store error", err)
	}
}
