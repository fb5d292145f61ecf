package entity

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnknownToken         = errors.New("unknown token")
	ErrUnsupportedNetwork   = errors.New("unsupported network")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInsufficientGas      = errors.New("insufficient gas")
	ErrNotFound             = errors.New("not found")
	ErrExternalService      = errors.New("external service error")
	ErrTimeout              = errors.New("timeout")
	ErrNotConfigured        = errors.New("not configured")
)

// InsufficientFundsError carries the figures behind a failed balance check.
// Amounts are human-readable decimal strings.
type InsufficientFundsError struct {
	Kind      error // ErrInsufficientBalance or ErrInsufficientGas
	Symbol    string
	Required  string
	Available string
	Shortfall string
}

func (e *InsufficientFundsError) Error() string {
	if errors.Is(e.Kind, ErrInsufficientGas) {
		return fmt.Sprintf("insufficient %s for gas: required %s, available %s", e.Symbol, e.Required, e.Available)
	}
	return fmt.Sprintf("insufficient %s balance: requested %s, available %s", e.Symbol, e.Required, e.Available)
}

func (e *InsufficientFundsError) Unwrap() error {
	return e.Kind
}

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when request input fails validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid request"
	}
	return fmt.Sprintf("invalid request: %s: %s", e.Fields[0].Field, e.Fields[0].Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
