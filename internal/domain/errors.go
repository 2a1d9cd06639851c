package domain

import (
	"errors"
	"fmt"
)

// Not-found sentinels
var (
	// ErrProductNotFound is returned when a product is not registered in the catalog
	ErrProductNotFound = errors.New("product not found")

	// ErrProductAlreadyExists is returned when creating a product with a registered id
	ErrProductAlreadyExists = errors.New("product already registered")

	// ErrOrderNotFound is returned when an order cannot be found
	ErrOrderNotFound = errors.New("order not found")

	// ErrLedgerNotFound is returned when no ledger exists for a location
	ErrLedgerNotFound = errors.New("ledger not found for location")
)

// ValidationError rejects bad input before any mutation is applied
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for a field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError is a recoverable business-rule conflict. It reports
// what was required against what was actually available so the caller can
// retry a smaller quantity or restock first.
type InsufficientStockError struct {
	LocationID string
	ProductID  string
	Required   int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s at %s: required %d, available %d",
		e.ProductID, e.LocationID, e.Required, e.Available)
}

// InvalidTransitionError is a workflow error. It is never coerced to a
// "closest valid" status.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order transition from %s to %s", e.From, e.To)
}

// InvalidStateError rejects a mutation of an order that left its editable state
type InvalidStateError struct {
	OrderID   string
	Status    OrderStatus
	Operation string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s on order %s in status %s", e.Operation, e.OrderID, e.Status)
}
