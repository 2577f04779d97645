// Package rowscan decodes materialized result rows into typed values.
package rowscan

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/pkg/apperror"
	"github.com/sangkips/pos-backend/pkg/money"
)

// Row is one materialized result row addressed by column name.
//
// Getters never panic. The first missing column or type mismatch is recorded
// and returned by Err; later getters return zero values once an error is set.
type Row struct {
	index  map[string]int
	values []any
	err    error
}

// NewRow builds a row from parallel column and value slices.
func NewRow(columns []string, values []any) *Row {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[strings.ToLower(c)] = i
	}
	return &Row{index: idx, values: values}
}

// Err returns the first decode error, if any.
func (r *Row) Err() error {
	return r.err
}

func (r *Row) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Row) lookup(col, expected string) (any, bool) {
	if r.err != nil {
		return nil, false
	}
	i, ok := r.index[strings.ToLower(col)]
	if !ok {
		r.fail(apperror.NewMissingColumnError(col, expected))
		return nil, false
	}
	return r.values[i], true
}

func (r *Row) mismatch(col, expected string, got any) {
	r.fail(apperror.NewDecodeError(col, expected, got))
}

// Fail records a decode error found by the caller, such as an unknown enum
// text in an otherwise well-typed column.
func (r *Row) Fail(col, expected string, got any) {
	r.mismatch(col, expected, got)
}

// IsNull reports whether the column is present and NULL.
func (r *Row) IsNull(col string) bool {
	v, ok := r.lookup(col, "any")
	return ok && v == nil
}

func (r *Row) String(col string) string {
	v, ok := r.lookup(col, "string")
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		r.mismatch(col, "string", v)
		return ""
	}
}

func (r *Row) NullString(col string) *string {
	v, ok := r.lookup(col, "string")
	if !ok || v == nil {
		return nil
	}
	s := r.String(col)
	if r.err != nil {
		return nil
	}
	return &s
}

func (r *Row) Int64(col string) int64 {
	v, ok := r.lookup(col, "int64")
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case int64:
		return t
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case string:
		return r.parseInt(col, t)
	case []byte:
		return r.parseInt(col, string(t))
	default:
		r.mismatch(col, "int64", v)
		return 0
	}
}

func (r *Row) parseInt(col, s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		r.mismatch(col, "int64", s)
		return 0
	}
	return n
}

func (r *Row) Int(col string) int {
	return int(r.Int64(col))
}

// Money reads a minor-unit integer column.
func (r *Row) Money(col string) money.Money {
	return money.FromMinor(r.Int64(col))
}

func (r *Row) UUID(col string) uuid.UUID {
	v, ok := r.lookup(col, "uuid")
	if !ok {
		return uuid.Nil
	}
	switch t := v.(type) {
	case string:
		return r.parseUUID(col, t)
	case []byte:
		if len(t) == 16 {
			id, err := uuid.FromBytes(t)
			if err == nil {
				return id
			}
		}
		return r.parseUUID(col, string(t))
	case [16]byte:
		return uuid.UUID(t)
	case uuid.UUID:
		return t
	default:
		r.mismatch(col, "uuid", v)
		return uuid.Nil
	}
}

func (r *Row) parseUUID(col, s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		r.mismatch(col, "uuid", s)
		return uuid.Nil
	}
	return id
}

func (r *Row) NullUUID(col string) *uuid.UUID {
	v, ok := r.lookup(col, "uuid")
	if !ok || v == nil {
		return nil
	}
	id := r.UUID(col)
	if r.err != nil {
		return nil
	}
	return &id
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (r *Row) Time(col string) time.Time {
	v, ok := r.lookup(col, "time")
	if !ok {
		return time.Time{}
	}
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		return r.parseTime(col, t)
	case []byte:
		return r.parseTime(col, string(t))
	default:
		r.mismatch(col, "time", v)
		return time.Time{}
	}
}

func (r *Row) parseTime(col, s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	r.mismatch(col, "time", s)
	return time.Time{}
}

func (r *Row) NullTime(col string) *time.Time {
	v, ok := r.lookup(col, "time")
	if !ok || v == nil {
		return nil
	}
	ts := r.Time(col)
	if r.err != nil {
		return nil
	}
	return &ts
}
