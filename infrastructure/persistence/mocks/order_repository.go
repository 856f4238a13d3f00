package mocks

import (
	"context"
	"sort"
	"sync"

	"storefront/domain/order"
	"storefront/domain/shared"
)

// MockOrderRepository in-memory order.Repository.
// Orders are stored as snapshots; callers always get their own copy, so a
// stale copy saved later fails the version check just like the SQL store.
type MockOrderRepository struct {
	mu     sync.RWMutex
	byID   map[string]*order.Order
	byCode map[string]string

	// OnSave runs before every Save; a non-nil error aborts the save
	OnSave func(ctx context.Context, o *order.Order) error
}

// NewMockOrderRepository Create Mock order repository
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		byID:   make(map[string]*order.Order),
		byCode: make(map[string]string),
	}
}

func (r *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	if r.OnSave != nil {
		if err := r.OnSave(ctx, o); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if o.IsNew() {
		if _, taken := r.byCode[o.Code()]; taken {
			return order.NewDuplicateCodeError(o.Code())
		}
		o.MarkPersisted()
		r.byID[o.ID()] = clone(o)
		r.byCode[o.Code()] = o.ID()
		return nil
	}

	existing, ok := r.byID[o.ID()]
	if !ok {
		return order.NewOrderNotFoundError(o.Code())
	}
	if existing.Version() != o.Version() {
		return order.NewConcurrentModificationError(o.ID())
	}
	o.IncrementVersionForSave()
	r.byID[o.ID()] = clone(o)
	return nil
}

func (r *MockOrderRepository) FindByCode(ctx context.Context, code string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCode[code]
	if !ok {
		return nil, order.NewOrderNotFoundError(code)
	}
	return clone(r.byID[id]), nil
}

func (r *MockOrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]*order.Order, 0)
	for _, o := range r.byID {
		if spec.IsSatisfiedBy(ctx, o) {
			orders = append(orders, clone(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt().Equal(orders[j].CreatedAt()) {
			return orders[i].CreatedAt().After(orders[j].CreatedAt())
		}
		return orders[i].ID() > orders[j].ID()
	})
	return orders, nil
}

func (r *MockOrderRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byCode[code]
	return ok, nil
}

// Put stores o as-is, bypassing version checks. Used to seed fixtures,
// including rows whose stored total has drifted from their items.
func (r *MockOrderRepository) Put(o *order.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.MarkPersisted()
	r.byID[o.ID()] = clone(o)
	r.byCode[o.Code()] = o.ID()
}

// Len number of stored orders
func (r *MockOrderRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func clone(o *order.Order) *order.Order {
	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:           o.ID(),
		Code:         o.Code(),
		OwnerID:      o.OwnerID(),
		OwnerName:    o.OwnerName(),
		Items:        o.Items(),
		TotalPrice:   o.TotalPrice(),
		Status:       o.Status(),
		CancelReason: o.CancelReason(),
		Version:      o.Version(),
		CreatedAt:    o.CreatedAt(),
		UpdatedAt:    o.UpdatedAt(),
	})
}

var _ order.Repository = (*MockOrderRepository)(nil)
