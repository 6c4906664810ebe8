package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConcurrencyConflict indica que el ledger cambió entre la lectura y la escritura.
	ErrConcurrencyConflict = errors.New("stock was modified concurrently, please retry")
	ErrDuplicateRequest    = errors.New("duplicate request")
)

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

type InsufficientStockError struct {
	Size      Size
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock. Only %d %s size items remaining.", e.Available, e.Size)
}
