package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced product, category, user, address or order does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock is returned when a line item asks for more than the product has on hand.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConstraintViolation covers unique and referential integrity violations.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrConcurrencyConflict means a concurrent writer invalidated a stock check; the caller may retry.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	// ErrInvalidTransition is returned for order status changes the state machine does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrValidation is returned when input fails a precondition.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized is returned for bad credentials or tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the caller may not act on a resource.
	ErrForbidden = errors.New("forbidden")
)

// InsufficientStockError identifies the product that stopped an order.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (%s): requested %d, available %d",
		e.ProductID, e.ProductName, e.Requested, e.Available)
}

// Is lets errors.Is(err, ErrInsufficientStock) match.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// NotFound wraps ErrNotFound with the kind and id of the missing record.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s with ID %s %w", kind, id, ErrNotFound)
}

// Validation wraps ErrValidation with a message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsRetryable reports whether the caller may retry the whole operation from scratch.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}
