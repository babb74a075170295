package catalog

import (
	"github.com/xenking/storefront/internal/domain/product"
)

var _ product.Repository = (*Memory)(nil)

// Memory implements product.Repository over a product slice loaded once at
// startup. The slice order is preserved for display.
type Memory struct {
	products []product.Product
	byID     map[int64]int
}

// NewMemory builds an in-memory repository from the given products.
func NewMemory(products []product.Product) *Memory {
	byID := make(map[int64]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}
	return &Memory{products: products, byID: byID}
}

// List returns all products in catalog order. The returned slice is a copy,
// callers cannot mutate the catalog through it.
func (m *Memory) List() []product.Product {
	out := make([]product.Product, len(m.products))
	copy(out, m.products)
	return out
}

// GetByID returns a single product by its identifier, or product.ErrNotFound.
func (m *Memory) GetByID(id int64) (*product.Product, error) {
	i, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	p := m.products[i]
	return &p, nil
}

// Len reports the number of products in the catalog.
func (m *Memory) Len() int {
	return len(m.products)
}
