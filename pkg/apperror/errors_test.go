package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestSentinelsMatchByKindAndReason(t *testing.T) {
	err := fmt.Errorf("create payment: %w", NewOverpaymentError("o-1", "50.00", "60.00", "100.00"))

	if !errors.Is(err, ErrOverpayment) {
		t.Fatalf("expected overpayment match")
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("reasonless validation sentinel should match any validation error")
	}
	if errors.Is(err, ErrAlreadyVoided) {
		t.Fatalf("different reason must not match")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("different kind must not match")
	}

	appErr := GetAppError(err)
	if appErr.ID != "o-1" || appErr.Details["attempted_amount"] != "50.00" {
		t.Fatalf("structured detail lost: %+v", appErr)
	}
}

func TestGetAppErrorWrapsPlainErrors(t *testing.T) {
	plain := errors.New("disk on fire")
	appErr := GetAppError(plain)
	if appErr.Code != http.StatusInternalServerError || appErr.Kind != KindStore {
		t.Fatalf("unexpected mapping: %+v", appErr)
	}
	if !errors.Is(appErr, plain) {
		t.Fatalf("cause should unwrap")
	}
}

func TestDecodeErrorNamesColumn(t *testing.T) {
	err := NewDecodeError("total_amount", "int64", "abc")
	if err.Column != "total_amount" || err.Expected != "int64" {
		t.Fatalf("unexpected decode error: %+v", err)
	}
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected decode sentinel match")
	}
}
