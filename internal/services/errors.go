package services

import (
	"errors"
	"fmt"
)

var (
	ErrFamilyNotFound  = errors.New("family not found")
	ErrNameRequired    = errors.New("name is required")
	ErrInventoryUpdate = errors.New("inventory update failed")
)

// QuantityError rejects a submitted quantity that is not a non-negative integer
type QuantityError struct {
	Product string
	Value   string
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("quantity for %s must be a non-negative integer, got %q", e.Product, e.Value)
}
