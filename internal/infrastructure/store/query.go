package store

import (
	"context"

	"github.com/sangkips/pos-backend/pkg/apperror"
)

// Scanner is implemented by every persisted type.
type Scanner interface {
	Scan(r *Row) error
}

// ptrScanner lets the helpers allocate a T and decode through *T.
type ptrScanner[T any] interface {
	*T
	Scanner
}

func decode[T any, PT ptrScanner[T]](r *Row) (*T, error) {
	v := new(T)
	if err := PT(v).Scan(r); err != nil {
		return nil, err
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return v, nil
}

// QueryOne returns exactly one decoded row, or a not-found error.
func QueryOne[T any, PT ptrScanner[T]](ctx context.Context, q Querier, stmt Statement) (*T, error) {
	rows, err := q.Rows(ctx, stmt)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.NewNotFoundError("Record", "")
	}
	return decode[T, PT](rows[0])
}

// QueryOptional returns nil when nothing matches. With several matches the
// first row wins and a warning is logged.
func QueryOptional[T any, PT ptrScanner[T]](ctx context.Context, q Querier, stmt Statement) (*T, error) {
	rows, err := q.Rows(ctx, stmt)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
	default:
		q.Logger().Warn("optional query matched more than one row, using the first",
			"rows", len(rows), "sql", stmt.SQL)
	}
	return decode[T, PT](rows[0])
}

// QueryMany decodes every row in engine order.
func QueryMany[T any, PT ptrScanner[T]](ctx context.Context, q Querier, stmt Statement) ([]*T, error) {
	rows, err := q.Rows(ctx, stmt)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(rows))
	for _, r := range rows {
		v, err := decode[T, PT](r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// QueryInt64 reads a single integer column from a single row, typically an
// aggregate such as COUNT or SUM.
func QueryInt64(ctx context.Context, q Querier, stmt Statement, col string) (int64, error) {
	rows, err := q.Rows(ctx, stmt)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, apperror.NewNotFoundError("Record", "")
	}
	n := rows[0].Int64(col)
	return n, rows[0].Err()
}

// Execute runs a write statement.
func Execute(ctx context.Context, q Querier, stmt Statement) (int64, error) {
	return q.Execute(ctx, stmt)
}
