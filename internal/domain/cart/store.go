// Package cart owns the authoritative in-memory cart state and the
// confirmation flows around its mutations.
package cart

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/dialog"
	"github.com/xenking/storefront/internal/domain/product"
)

// Store is the single owner of cart state. Ambiguous and destructive
// operations do not mutate directly; they park their effect in the
// confirmation gate and only the user's confirm executes it.
//
// The store expects to be driven from a single event loop (the UI's update
// loop or a test), matching the cooperative model of the storefront. The
// gate's auto-dismiss path never mutates cart state, so no locking is needed
// here.
type Store struct {
	products product.Repository
	gate     *dialog.Gate
	view     View
	lg       *zap.Logger

	lines    []Line
	receipts []Receipt

	now   func() time.Time
	newID func() string
}

// NewStore creates a cart store. A nil view detaches the display surface and
// a nil logger silences diagnostics.
func NewStore(products product.Repository, gate *dialog.Gate, view View, lg *zap.Logger) *Store {
	if view == nil {
		view = nopView{}
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Store{
		products: products,
		gate:     gate,
		view:     view,
		lg:       lg,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// Add puts the product in the cart. A product not in the catalog is ignored
// (stale id, catalog not yet loaded). A product already in the cart opens a
// confirmation whose accepted action increments its quantity; a new product
// gets a line with quantity 1 immediately plus an auto-dismissing
// acknowledgment.
func (s *Store) Add(id int64) {
	p, err := s.products.GetByID(id)
	if err != nil {
		s.lg.Debug("add to cart: unknown product", zap.Int64("product_id", id))
		return
	}

	if s.lineIndex(id) >= 0 {
		s.gate.Request(dialog.Prompt{
			Title:   "Already in cart",
			Message: fmt.Sprintf("%s is already in your cart. Add another unit?", p.Name),
			Action:  func() { s.increment(id) },
		})
		return
	}

	s.lines = append(s.lines, Line{Product: *p, Quantity: 1})
	s.view.CartChanged()
	s.gate.Request(dialog.Prompt{
		Title:       "Product added",
		Message:     fmt.Sprintf("%s has been added to your cart.", p.Name),
		AutoDismiss: true,
	})
}

// Remove opens the destructive confirmation for deleting a line. The accepted
// action deletes by product id and no-ops if the line is already gone.
func (s *Store) Remove(id int64) {
	s.gate.Request(dialog.Prompt{
		Title:   "Remove product",
		Message: "Remove this product from your cart?",
		Action:  func() { s.deleteLine(id) },
	})
}

// UpdateQuantity changes a line's quantity by delta. An absent line is a
// no-op. A transition to zero or below is not applied silently; it delegates
// to the Remove confirmation flow.
func (s *Store) UpdateQuantity(id int64, delta int) {
	i := s.lineIndex(id)
	if i < 0 {
		return
	}

	if s.lines[i].Quantity+delta <= 0 {
		s.Remove(id)
		return
	}

	s.lines[i].Quantity += delta
	s.view.CartChanged()
}

// Clear opens the destructive confirmation for discarding every line. An
// already-empty cart raises nothing.
func (s *Store) Clear() {
	if len(s.lines) == 0 {
		return
	}

	s.gate.Request(dialog.Prompt{
		Title:   "Empty cart",
		Message: "Remove every product from your cart?",
		Action: func() {
			s.lines = nil
			s.view.CartChanged()
		},
	})
}

// Checkout confirms the purchase of the current cart. An empty cart only
// shows an auto-dismissing notice. The accepted action records a simulated
// receipt, empties the cart, and collapses the cart display.
func (s *Store) Checkout() {
	if len(s.lines) == 0 {
		s.gate.Request(dialog.Prompt{
			Title:       "Empty cart",
			Message:     "Add products to your cart before checking out.",
			AutoDismiss: true,
		})
		return
	}

	total := s.Total()
	s.gate.Request(dialog.Prompt{
		Title:   "Purchase complete",
		Message: fmt.Sprintf("Your purchase of %s has been processed. Thank you!", FormatPrice(total)),
		Action: func() {
			s.receipts = append(s.receipts, Receipt{
				ID:        s.newID(),
				Lines:     s.Lines(),
				Total:     s.Total().Round(2),
				CreatedAt: s.now(),
			})
			s.lines = nil
			s.view.CartChanged()
			s.view.CartClosed()
		},
	})
}

// Lines returns a snapshot of the cart in insertion order.
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// ItemCount returns the sum of quantities, recomputed from live state.
func (s *Store) ItemCount() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Total returns Σ price × quantity, recomputed from live state.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// IsEmpty reports whether the cart holds no lines.
func (s *Store) IsEmpty() bool {
	return len(s.lines) == 0
}

// Receipts returns the simulated checkout receipts recorded this session.
func (s *Store) Receipts() []Receipt {
	out := make([]Receipt, len(s.receipts))
	copy(out, s.receipts)
	return out
}

func (s *Store) lineIndex(id int64) int {
	for i, l := range s.lines {
		if l.Product.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) increment(id int64) {
	if i := s.lineIndex(id); i >= 0 {
		s.lines[i].Quantity++
		s.view.CartChanged()
	}
}

func (s *Store) deleteLine(id int64) {
	i := s.lineIndex(id)
	if i < 0 {
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.view.CartChanged()
}
