package shared

import (
	"context"
)

// Specification encapsulates a query rule over entities of type T.
// IsSatisfiedBy is used for in-memory filtering; SQL repositories translate
// the concrete specification types into WHERE clauses instead.
type Specification[T any] interface {
	IsSatisfiedBy(ctx context.Context, entity T) bool
}

// ============================================================================
// Composite Specifications
// ============================================================================

// AndSpecification is satisfied when both sides are.
type AndSpecification[T any] struct {
	Left  Specification[T]
	Right Specification[T]
}

func (spec AndSpecification[T]) IsSatisfiedBy(ctx context.Context, entity T) bool {
	return spec.Left.IsSatisfiedBy(ctx, entity) && spec.Right.IsSatisfiedBy(ctx, entity)
}

// And creates a new AndSpecification
func And[T any](left, right Specification[T]) Specification[T] {
	return AndSpecification[T]{Left: left, Right: right}
}

// AllSpecification matches every entity. Used for unscoped listings.
type AllSpecification[T any] struct{}

func (AllSpecification[T]) IsSatisfiedBy(context.Context, T) bool { return true }

// All creates a specification that matches everything
func All[T any]() Specification[T] {
	return AllSpecification[T]{}
}
