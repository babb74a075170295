package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/product"
)

// Line is one product's presence in the cart together with its quantity.
// Quantity is always >= 1; a line that would drop to zero is removed instead.
type Line struct {
	Product  product.Product
	Quantity int
}

// Subtotal returns price × quantity for this line.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Receipt records one simulated checkout.
type Receipt struct {
	ID        string
	Lines     []Line
	Total     decimal.Decimal
	CreatedAt time.Time
}

// View receives synchronous notifications from the store so the display
// surface never lags cart state.
type View interface {
	// CartChanged fires after every cart mutation.
	CartChanged()
	// CartClosed fires when the cart display should collapse, after a
	// confirmed checkout.
	CartClosed()
}

// nopView is the default when no display surface is attached.
type nopView struct{}

func (nopView) CartChanged() {}
func (nopView) CartClosed()  {}

// FormatPrice renders a money amount the way the storefront displays it.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2) + " €"
}
