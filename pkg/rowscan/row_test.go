package rowscan

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/pkg/apperror"
)

func TestRowAcceptsDriverRepresentations(t *testing.T) {
	id := uuid.New()
	ts := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	r := NewRow(
		[]string{"ID", "raw_id", "amount", "text_amount", "created_at", "text_time", "note", "voided_at"},
		[]any{id.String(), id[:], int64(1234), []byte("99"), ts, "2024-03-01 10:30:00", nil, nil},
	)

	if got := r.UUID("id"); got != id {
		t.Fatalf("uuid from string: %s", got)
	}
	if got := r.UUID("raw_id"); got != id {
		t.Fatalf("uuid from bytes: %s", got)
	}
	if got := r.Money("amount"); got.String() != "12.34" {
		t.Fatalf("money: %s", got)
	}
	if got := r.Int64("text_amount"); got != 99 {
		t.Fatalf("int from bytes: %d", got)
	}
	if got := r.Time("created_at"); !got.Equal(ts) {
		t.Fatalf("time: %s", got)
	}
	if got := r.Time("text_time"); !got.Equal(ts) {
		t.Fatalf("time from text: %s", got)
	}
	if r.NullString("note") != nil || r.NullTime("voided_at") != nil {
		t.Fatalf("nulls should decode to nil")
	}
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRowErrorIsSticky(t *testing.T) {
	r := NewRow([]string{"amount", "name"}, []any{"abc", "ok"})

	_ = r.Int64("amount")
	_ = r.String("missing")
	_ = r.String("name")

	err := r.Err()
	if !errors.Is(err, apperror.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
	appErr := apperror.GetAppError(err)
	if appErr.Column != "amount" || appErr.Expected != "int64" {
		t.Fatalf("first failure should win: %+v", appErr)
	}
}

func TestRowNullInRequiredColumnFails(t *testing.T) {
	r := NewRow([]string{"total_amount"}, []any{nil})
	_ = r.Money("total_amount")
	if r.Err() == nil {
		t.Fatalf("NULL must not silently decode to zero")
	}
}
