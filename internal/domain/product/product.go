package product

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. Products are
// loaded once from the catalog resource and never mutated afterwards.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
}

// Repository defines read operations for the product catalog. The catalog is
// an immutable in-memory snapshot, so reads carry no context and cannot fail
// beyond a missing id.
type Repository interface {
	List() []Product
	GetByID(id int64) (*Product, error)
}
