package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers that need to branch on it.
type Kind string

const (
	KindNotFound             Kind = "not_found"
	KindDecode               Kind = "decode"
	KindUniqueConstraint     Kind = "unique_constraint"
	KindForeignKeyConstraint Kind = "foreign_key_constraint"
	KindHasChildren          Kind = "has_children"
	KindValidation           Kind = "validation"
	KindStore                Kind = "store"
	KindUnauthorized         Kind = "unauthorized"
	KindForbidden            Kind = "forbidden"
)

// Reason narrows a validation error to the rule that was broken.
type Reason string

const (
	ReasonEmptyOrder    Reason = "empty_order"
	ReasonOverpayment   Reason = "overpayment"
	ReasonOrderVoided   Reason = "order_voided"
	ReasonAlreadyVoided Reason = "already_voided"
	ReasonInvalidInput  Reason = "invalid_input"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code     int            `json:"code"`
	Kind     Kind           `json:"kind"`
	Reason   Reason         `json:"reason,omitempty"`
	Message  string         `json:"message"`
	Resource string         `json:"resource,omitempty"`
	ID       string         `json:"id,omitempty"`
	Column   string         `json:"column,omitempty"`
	Expected string         `json:"expected,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
	Errors   []FieldError   `json:"errors,omitempty"`
	Cause    error          `json:"-"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Cause != nil && e.Kind == KindStore {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Kind, and on Reason when the target carries one, so the
// sentinels below work with errors.Is regardless of the identifiers attached.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// Common errors
var (
	ErrNotFound             = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrDecode               = &AppError{Code: http.StatusInternalServerError, Kind: KindDecode, Message: "Row decode failed"}
	ErrUniqueConstraint     = &AppError{Code: http.StatusConflict, Kind: KindUniqueConstraint, Message: "Resource already exists"}
	ErrForeignKeyConstraint = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindForeignKeyConstraint, Message: "Referenced resource does not exist"}
	ErrHasChildren          = &AppError{Code: http.StatusConflict, Kind: KindHasChildren, Message: "Resource has dependent records"}
	ErrValidation           = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindValidation, Message: "Validation failed"}
	ErrStore                = &AppError{Code: http.StatusInternalServerError, Kind: KindStore, Message: "Store error"}

	ErrEmptyOrder    = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindValidation, Reason: ReasonEmptyOrder, Message: "Order must contain at least one item"}
	ErrOverpayment   = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindValidation, Reason: ReasonOverpayment, Message: "Payment exceeds order balance"}
	ErrOrderVoided   = &AppError{Code: http.StatusConflict, Kind: KindValidation, Reason: ReasonOrderVoided, Message: "Order is voided"}
	ErrAlreadyVoided = &AppError{Code: http.StatusConflict, Kind: KindValidation, Reason: ReasonAlreadyVoided, Message: "Already voided"}
	ErrInvalidInput  = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindValidation, Reason: ReasonInvalidInput, Message: "Invalid input"}

	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: "Forbidden"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid email or password"}
)

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Reason:  ReasonInvalidInput,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewInvalidInputError reports a single bad field.
func NewInvalidInputError(field, message string) *AppError {
	return NewValidationError([]FieldError{{Field: field, Message: message}})
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource, id string) *AppError {
	return &AppError{
		Code:     http.StatusNotFound,
		Kind:     KindNotFound,
		Message:  resource + " not found",
		Resource: resource,
		ID:       id,
	}
}

// NewDecodeError names the column that could not be mapped.
func NewDecodeError(column, expected string, got any) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Kind:     KindDecode,
		Message:  fmt.Sprintf("column %q: expected %s, got %T", column, expected, got),
		Column:   column,
		Expected: expected,
	}
}

// NewMissingColumnError is a decode error for a column absent from the row.
func NewMissingColumnError(column, expected string) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Kind:     KindDecode,
		Message:  fmt.Sprintf("column %q: missing, expected %s", column, expected),
		Column:   column,
		Expected: expected,
	}
}

// NewUniqueConstraintError creates a conflict error with a custom message
func NewUniqueConstraintError(detail string, cause error) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindUniqueConstraint,
		Message: "unique constraint violated: " + detail,
		Cause:   cause,
	}
}

func NewForeignKeyError(detail string, cause error) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindForeignKeyConstraint,
		Message: "foreign key constraint violated: " + detail,
		Cause:   cause,
	}
}

func NewHasChildrenError(resource, id string) *AppError {
	return &AppError{
		Code:     http.StatusConflict,
		Kind:     KindHasChildren,
		Message:  resource + " has dependent records",
		Resource: resource,
		ID:       id,
	}
}

// NewStoreError wraps an engine failure that has no more specific kind.
func NewStoreError(detail string, cause error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindStore,
		Message: detail,
		Cause:   cause,
	}
}

func NewEmptyOrderError() *AppError {
	return &AppError{
		Code:     http.StatusUnprocessableEntity,
		Kind:     KindValidation,
		Reason:   ReasonEmptyOrder,
		Message:  "Order must contain at least one item",
		Resource: "SalesOrder",
	}
}

// NewOverpaymentError records the amounts that broke the balance rule.
func NewOverpaymentError(orderID, attempted, alreadyPaid, total string) *AppError {
	return &AppError{
		Code:     http.StatusUnprocessableEntity,
		Kind:     KindValidation,
		Reason:   ReasonOverpayment,
		Message:  fmt.Sprintf("payment of %s exceeds balance: paid %s of %s", attempted, alreadyPaid, total),
		Resource: "SalesOrder",
		ID:       orderID,
		Details: map[string]any{
			"attempted_amount": attempted,
			"paid_amount":      alreadyPaid,
			"total_amount":     total,
		},
	}
}

func NewOrderVoidedError(orderID string) *AppError {
	return &AppError{
		Code:     http.StatusConflict,
		Kind:     KindValidation,
		Reason:   ReasonOrderVoided,
		Message:  "Sales order " + orderID + " is voided",
		Resource: "SalesOrder",
		ID:       orderID,
	}
}

func NewAlreadyVoidedError(resource, id string) *AppError {
	return &AppError{
		Code:     http.StatusConflict,
		Kind:     KindValidation,
		Reason:   ReasonAlreadyVoided,
		Message:  resource + " " + id + " is already voided",
		Resource: resource,
		ID:       id,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindStore,
		Message: err.Error(),
		Cause:   err,
	}
}
