package mocks

import (
	"context"
	"sync"

	"storefront/domain/catalog"
	"storefront/domain/shared"
)

// MockCatalog in-memory catalog.Reader
type MockCatalog struct {
	mu       sync.RWMutex
	products map[string]catalog.Product
}

func NewMockCatalog(products ...catalog.Product) *MockCatalog {
	c := &MockCatalog{products: make(map[string]catalog.Product)}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *MockCatalog) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	if !ok {
		return nil, catalog.NewProductNotFoundError(id)
	}
	return &p, nil
}

func (c *MockCatalog) Put(p catalog.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}

// SetPrice changes the catalog price of an existing product
func (c *MockCatalog) SetPrice(id string, price shared.Money) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.products[id]
	p.ID = id
	p.Price = price
	c.products[id] = p
}

var _ catalog.Reader = (*MockCatalog)(nil)
