package specification

import (
	"fmt"

	"storefront/domain/order"
	"storefront/domain/shared"

	"gorm.io/gorm"
)

// Scope narrows a GORM query
type Scope func(*gorm.DB) *gorm.DB

// OrderTranslator converts order specifications to GORM scopes.
// An unsupported specification is an error rather than an unfiltered query,
// so a dropped owner filter can never widen a listing.
type OrderTranslator struct{}

func NewOrderTranslator() *OrderTranslator {
	return &OrderTranslator{}
}

// Translate nil means no filter
func (t *OrderTranslator) Translate(spec shared.Specification[*order.Order]) (Scope, error) {
	if spec == nil {
		return identity, nil
	}

	switch s := spec.(type) {
	case shared.AllSpecification[*order.Order]:
		return identity, nil
	case shared.AndSpecification[*order.Order]:
		return t.translateAnd(s)
	case order.ByOwnerSpecification:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("owner_id = ?", s.OwnerID)
		}, nil
	case order.ByStatusSpecification:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", string(s.Status))
		}, nil
	}

	return nil, fmt.Errorf("unsupported order specification %T", spec)
}

func (t *OrderTranslator) translateAnd(spec shared.AndSpecification[*order.Order]) (Scope, error) {
	left, err := t.Translate(spec.Left)
	if err != nil {
		return nil, err
	}
	right, err := t.Translate(spec.Right)
	if err != nil {
		return nil, err
	}
	return func(db *gorm.DB) *gorm.DB {
		return right(left(db))
	}, nil
}

func identity(db *gorm.DB) *gorm.DB { return db }
