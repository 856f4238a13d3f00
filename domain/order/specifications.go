package order

import (
	"context"

	"storefront/domain/shared"
)

// ByOwnerSpecification filters orders by owner identity
type ByOwnerSpecification struct {
	OwnerID string
}

func (spec ByOwnerSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	return entity.OwnerID() == spec.OwnerID
}

// ByStatusSpecification filters orders by status
type ByStatusSpecification struct {
	Status Status
}

func (spec ByStatusSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	return entity.Status() == spec.Status
}

// NewByOwnerSpecification creates a specification to filter by owner
func NewByOwnerSpecification(ownerID string) shared.Specification[*Order] {
	return ByOwnerSpecification{OwnerID: ownerID}
}

// NewByStatusSpecification creates a specification to filter by status
func NewByStatusSpecification(status Status) shared.Specification[*Order] {
	return ByStatusSpecification{Status: status}
}
