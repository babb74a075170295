package cart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/domain/dialog"
	"github.com/xenking/storefront/internal/domain/product"
)

// recordingView counts store notifications so tests can assert that every
// mutation re-projects synchronously.
type recordingView struct {
	changed int
	closed  int
}

func (v *recordingView) CartChanged() { v.changed++ }
func (v *recordingView) CartClosed()  { v.closed++ }

func newTestProduct(id int64, name, price string) product.Product {
	return product.Product{
		ID:          id,
		Name:        name,
		Description: "test product",
		Price:       decimal.RequireFromString(price),
		Image:       "img.jpg",
	}
}

func newTestStore(products ...product.Product) (*Store, *dialog.Gate, *recordingView) {
	gate := dialog.New()
	view := &recordingView{}
	s := NewStore(catalog.NewMemory(products), gate, view, nil)
	s.newID = func() string { return "r-1" }
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s, gate, view
}

func TestAdd_DistinctProducts(t *testing.T) {
	s, gate, _ := newTestStore(
		newTestProduct(1, "Widget", "9.99"),
		newTestProduct(2, "Gadget", "5.50"),
	)

	s.Add(1)
	gate.Dismiss() // informational acknowledgment
	s.Add(2)
	gate.Dismiss()

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].Product.ID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, int64(2), lines[1].Product.ID)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestAdd_NewProductShowsAutoDismissingNotice(t *testing.T) {
	s, gate, view := newTestStore(newTestProduct(1, "Widget", "9.99"))

	s.Add(1)

	// The line exists before any confirmation: the notice is informational.
	require.Len(t, s.Lines(), 1)
	assert.Equal(t, 1, view.changed)

	p, ok := gate.Current()
	require.True(t, ok)
	assert.True(t, p.AutoDismiss)
	assert.Nil(t, p.Action)
	assert.Equal(t, "Product added", p.Title)
}

func TestAdd_DuplicateConfirmed(t *testing.T) {
	s, gate, _ := newTestStore(newTestProduct(1, "Widget", "9.99"))

	s.Add(1)
	gate.Dismiss()
	s.Add(1)

	// Nothing changed yet: the increment waits in the gate.
	require.Equal(t, 1, s.Lines()[0].Quantity)

	p, ok := gate.Current()
	require.True(t, ok)
	assert.Equal(t, "Already in cart", p.Title)
	assert.Contains(t, p.Message, "Widget")

	gate.Confirm()
	assert.Equal(t, 2, s.Lines()[0].Quantity)
	assert.Equal(t, "19.98 €", FormatPrice(s.Total()))
}

func TestAdd_DuplicateDeclined(t *testing.T) {
	s, gate, _ := newTestStore(newTestProduct(1, "Widget", "9.99"))

	s.Add(1)
	gate.Dismiss()
	s.Add(1)
	gate.Dismiss()

	assert.Equal(t, 1, s.Lines()[0].Quantity)
}

func TestAdd_UnknownProductIsNoOp(t *testing.T) {
	s, gate, view := newTestStore(newTestProduct(1, "Widget", "9.99"))

	s.Add(42)

	assert.True(t, s.IsEmpty())
	assert.Equal(t, dialog.StateIdle, gate.State())
	assert.Zero(t, view.changed)
}

func TestRemove_Confirmed(t *testing.T) {
	s, gate, _ := newTestStore(newTestProduct(1, "Widget", "9.99"))
	s.Add(1)
	gate.Dismiss()

	s.Remove(1)
	gate.Confirm()

	assert.True(t, s.IsEmpty())
}

func TestRemove_Declined(t *testing.T) {
	s, gate, _ := newTestStore(newTestProduct(1, "Widget", "9.99"))
	s.Add(1)
	gate.Dismiss()

	s.Remove(1)
	gate.Dismiss()

	assert.Len(t, s.Lines(), 1)
}

func TestRemove_LineGoneByActionTime(t *testing.T) {
	s, gate, _ := newTestStore(
		newTestProduct(1, "Widget", "9.99"),
		newTestProduct(2, "Gadget", "5.50"),
	)
	s.Add(2)
	gate.Dismiss()

	// Removing an id with no line still prompts; the action is a no-op.
	s.Remove(1)
	gate.Confirm()

	assert.Len(t, s.Lines(), 1)
	assert.Equal(t, int64(2), s.Lines()[0].Product.ID)
}

func TestUpdateQuantity_Increments(t *testing.T) {
	s, gate, _ := newTestStore(newTestProduct(1, "Widget", "10.00"))
	s.Add(1)
	gate.Dismiss()

	s.UpdateQuantity(1, 1)
	s.UpdateQuantity(1, 1)

	assert.Equal(t, 3, s.Lines()[0].Quantity)
	assert.Equal(t, 3, s.ItemCount())
	// Quantity updates apply immediately, no confirmation involved.
	assert.Equal(t, dialog.StateIdle, gate.State())
}

func TestUpdateQuantity_ToZeroDelegatesToRemove(t *testing.T) {
	s, gate, _ := newTestStore(newTestProduct(1, "Widget", "9.99"))
	s.Add(1)
	gate.Dismiss()

	s.UpdateQuantity(1, -1)

	// Still there: deletion waits behind the removal confirmation.
	require.Len(t, s.Lines(), 1)
	p, ok := gate.Current()
	require.True(t, ok)
	assert.Equal(t, "Remove product", p.Title)

	gate.Confirm()
	assert.True(t, s.IsEmpty())
}

func TestUpdateQuantity_ToZeroDeclined(t *testing.T) {
	s, gate, _ := newTestStore(newTestProduct(1, "Widget", "9.99"))
	s.Add(1)
	gate.Dismiss()

	s.UpdateQuantity(1, -1)
	gate.Dismiss()

	require.Len(t, s.Lines(), 1)
	assert.Equal(t, 1, s.Lines()[0].Quantity)
}

func TestUpdateQuantity_AbsentLineIsNoOp(t *testing.T) {
	s, gate, view := newTestStore(newTestProduct(1, "Widget", "9.99"))

	s.UpdateQuantity(1, 1)

	assert.True(t, s.IsEmpty())
	assert.Equal(t, dialog.StateIdle, gate.State())
	assert.Zero(t, view.changed)
}

func TestTotals_AlwaysDerived(t *testing.T) {
	s, gate, _ := newTestStore(
		newTestProduct(1, "Widget", "10.00"),
		newTestProduct(2, "Gadget", "5.50"),
	)
	s.Add(1)
	gate.Dismiss()
	s.UpdateQuantity(1, 1)
	s.Add(2)
	gate.Dismiss()

	assert.True(t, decimal.RequireFromString("25.50").Equal(s.Total()))
	assert.Equal(t, 3, s.ItemCount())

	// Decrement above 1 applies immediately and the totals follow.
	s.UpdateQuantity(1, -1)
	assert.True(t, decimal.RequireFromString("15.50").Equal(s.Total()))
	assert.Equal(t, 2, s.ItemCount())
}

func TestClear_EmptyCartRaisesNothing(t *testing.T) {
	s, gate, view := newTestStore()

	s.Clear()

	assert.Equal(t, dialog.StateIdle, gate.State())
	assert.Zero(t, view.changed)
}

func TestClear_Confirmed(t *testing.T) {
	s, gate, _ := newTestStore(
		newTestProduct(1, "Widget", "9.99"),
		newTestProduct(2, "Gadget", "5.50"),
	)
	s.Add(1)
	gate.Dismiss()
	s.Add(2)
	gate.Dismiss()

	s.Clear()
	gate.Confirm()

	assert.True(t, s.IsEmpty())
	assert.True(t, decimal.Zero.Equal(s.Total()))
}

func TestCheckout_EmptyCartNotice(t *testing.T) {
	s, gate, view := newTestStore()

	s.Checkout()

	p, ok := gate.Current()
	require.True(t, ok)
	assert.True(t, p.AutoDismiss)
	assert.Nil(t, p.Action)
	assert.Zero(t, view.closed)
	assert.Empty(t, s.Receipts())
}

func TestCheckout_ConfirmedClearsAndCloses(t *testing.T) {
	s, gate, view := newTestStore(newTestProduct(1, "Widget", "9.99"))
	s.Add(1)
	gate.Dismiss()
	s.UpdateQuantity(1, 1)

	s.Checkout()

	p, ok := gate.Current()
	require.True(t, ok)
	assert.Contains(t, p.Message, "19.98 €")

	gate.Confirm()

	assert.True(t, s.IsEmpty())
	assert.Equal(t, 1, view.closed)

	receipts := s.Receipts()
	require.Len(t, receipts, 1)
	assert.Equal(t, "r-1", receipts[0].ID)
	assert.True(t, decimal.RequireFromString("19.98").Equal(receipts[0].Total))
	require.Len(t, receipts[0].Lines, 1)
	assert.Equal(t, 2, receipts[0].Lines[0].Quantity)
}

func TestCheckout_Declined(t *testing.T) {
	s, gate, view := newTestStore(newTestProduct(1, "Widget", "9.99"))
	s.Add(1)
	gate.Dismiss()

	s.Checkout()
	gate.Dismiss()

	assert.Len(t, s.Lines(), 1)
	assert.Zero(t, view.closed)
	assert.Empty(t, s.Receipts())
}

func TestSecondRequestReplacesPending(t *testing.T) {
	s, gate, _ := newTestStore(
		newTestProduct(1, "Widget", "9.99"),
		newTestProduct(2, "Gadget", "5.50"),
	)
	s.Add(1)
	gate.Dismiss()
	s.Add(2)
	gate.Dismiss()

	// Two removal requests back to back: only the second action may run.
	s.Remove(1)
	s.Remove(2)
	gate.Confirm()

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].Product.ID)
}

func TestEndToEnd_WidgetExample(t *testing.T) {
	s, gate, _ := newTestStore(newTestProduct(1, "Widget", "9.99"))

	s.Add(1)
	require.Len(t, s.Lines(), 1)
	require.Equal(t, 1, s.Lines()[0].Quantity)

	p, ok := gate.Current()
	require.True(t, ok)
	assert.True(t, p.AutoDismiss)
	gate.Dismiss() // stands in for the 2000ms auto-close

	s.Add(1)
	p, ok = gate.Current()
	require.True(t, ok)
	assert.Equal(t, "Already in cart", p.Title)

	gate.Confirm()
	assert.Equal(t, 2, s.Lines()[0].Quantity)
	assert.Equal(t, "19.98 €", FormatPrice(s.Total()))
}
