package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrTooManyImages    = errors.New("too many images for product")
)

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IncompleteUpdateError reports a quantity change whose removal succeeded
// but whose re-add did not. The line is gone from the server cart.
type IncompleteUpdateError struct {
	ItemID    int64
	ProductID int64
	Quantity  int
	Err       error
}

func (e *IncompleteUpdateError) Error() string {
	return fmt.Sprintf("cart item %d removed but product %d (qty %d) could not be re-added: %v",
		e.ItemID, e.ProductID, e.Quantity, e.Err)
}

func (e *IncompleteUpdateError) Unwrap() error {
	return e.Err
}
