package store

import "github.com/sangkips/pos-backend/pkg/rowscan"

// Row is the decoded form of one result row. Entities scan themselves from it.
type Row = rowscan.Row

// NewRow builds a row from parallel column and value slices.
func NewRow(columns []string, values []any) *Row {
	return rowscan.NewRow(columns, values)
}
