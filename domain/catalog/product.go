// Package catalog is the read side of the product catalog the order
// subsystem prices items from. Catalog management lives elsewhere.
package catalog

import (
	"context"
	"errors"

	"storefront/domain/shared"
)

// ErrProductNotFound product id does not resolve
var ErrProductNotFound = errors.New("product not found")

// Product the fields orders read from the catalog
type Product struct {
	ID    string
	Name  string
	Price shared.Money
}

// Reader looks up products by id
type Reader interface {
	// GetProduct fails with ErrProductNotFound for unknown ids
	GetProduct(ctx context.Context, id string) (*Product, error)
}

// NewProductNotFoundError unwraps to both ErrProductNotFound and shared.ErrNotFound
func NewProductNotFoundError(id string) error {
	return &productNotFoundError{
		id:    id,
		stack: shared.CaptureStack(3),
	}
}

type productNotFoundError struct {
	id    string
	stack []uintptr
}

func (e *productNotFoundError) Error() string { return "product not found: " + e.id }

func (e *productNotFoundError) Unwrap() []error {
	return []error{ErrProductNotFound, shared.ErrNotFound}
}

func (e *productNotFoundError) Field() string { return "product_id" }

func (e *productNotFoundError) Stack() []string {
	return shared.FormatStack(e.stack)
}
