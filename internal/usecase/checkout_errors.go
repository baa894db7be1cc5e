package usecase

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCheckoutInput = errors.New("invalid checkout input")
	ErrUserNotFound         = errors.New("user not found")
	ErrVariantNotFound      = errors.New("some variants were not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrOrderNotFound        = errors.New("order not found")
	ErrWebhookVerification  = errors.New("webhook verification failed")
)

// FieldViolation is one invalid field of a checkout request.
type FieldViolation struct {
	Field   string
	Message string
}

// ValidationError lists every invalid field. It unwraps to ErrInvalidCheckoutInput.
type ValidationError struct {
	Fields []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrInvalidCheckoutInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidCheckoutInput }

// InsufficientStockError reports the first line that cannot be fulfilled.
type InsufficientStockError struct {
	VariantID   string
	ProductName string
	Color       string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s). Available: %d", e.ProductName, e.Color, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
