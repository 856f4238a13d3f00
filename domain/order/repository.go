package order

import (
	"context"

	"storefront/domain/shared"
)

// Repository Order repository interface
type Repository interface {
	CodeChecker

	// Save inserts a new order with its items, or updates status,
	// cancel_reason and total of an existing one.
	// Insert fails with ErrDuplicateCode when the code is taken.
	// Update fails with ErrConcurrentModification when the stored version moved.
	Save(ctx context.Context, order *Order) error

	// FindByCode fails with ErrOrderNotFound when no order has that code
	FindByCode(ctx context.Context, code string) (*Order, error)

	// FindBySpecification returns matching orders, newest created_at first
	FindBySpecification(ctx context.Context, spec shared.Specification[*Order]) ([]*Order, error)
}
