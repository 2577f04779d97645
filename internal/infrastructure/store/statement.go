// Package store is the narrow data access layer used by the repositories.
//
// Statements are plain SQL with "?" placeholders; gorm rebinds them for the
// active dialect. Result rows are materialized into Row values and decoded by
// the persisted types themselves, so the engine never guesses a mapping.
package store

import (
	"strings"
)

// Statement is a parameterized SQL statement.
type Statement struct {
	SQL  string
	Args []any
}

func NewStatement(sql string, args ...any) Statement {
	return Statement{SQL: sql, Args: args}
}

// Append adds raw SQL and its arguments to the end of the statement.
func (s Statement) Append(sql string, args ...any) Statement {
	s.SQL += " " + sql
	s.Args = append(append([]any(nil), s.Args...), args...)
	return s
}

// ForUpdate locks the selected rows on engines that support it. SQLite
// serializes writers already, so the clause is omitted there.
func (s Statement) ForUpdate(dialect string) Statement {
	if dialect == DialectPostgres {
		s.SQL += " FOR UPDATE"
	}
	return s
}

// Columns joins a column list for SELECT and INSERT clauses.
func Columns(cols []string) string {
	return strings.Join(cols, ", ")
}

// QualifiedColumns prefixes every column with a table alias.
func QualifiedColumns(alias string, cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return strings.Join(out, ", ")
}

// Placeholders returns "?, ?, ..." for n values.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// Insert builds an INSERT for the given columns and values.
func Insert(table string, cols []string, values []any) Statement {
	return NewStatement(
		"INSERT INTO "+table+" ("+Columns(cols)+") VALUES ("+Placeholders(len(cols))+")",
		values...,
	)
}

// InsertMany builds a multi-row INSERT. Every row must match cols.
func InsertMany(table string, cols []string, rows [][]any) Statement {
	groups := make([]string, len(rows))
	args := make([]any, 0, len(rows)*len(cols))
	for i, r := range rows {
		groups[i] = "(" + Placeholders(len(cols)) + ")"
		args = append(args, r...)
	}
	return NewStatement(
		"INSERT INTO "+table+" ("+Columns(cols)+") VALUES "+strings.Join(groups, ", "),
		args...,
	)
}
