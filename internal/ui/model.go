package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/dialog"
	"github.com/xenking/storefront/internal/domain/product"
)

// Surface is the shared display state the cart store signals into. The tea
// model is copied by value on every update, so the open/closed flag lives
// behind a pointer both sides share.
type Surface struct {
	cartOpen bool
}

var _ cart.View = (*Surface)(nil)

// NewSurface returns a Surface with the cart collapsed.
func NewSurface() *Surface {
	return &Surface{}
}

// CartChanged is a no-op: views are rebuilt from store state on every frame.
func (s *Surface) CartChanged() {}

// CartClosed collapses the cart sidebar (fired after a confirmed checkout).
func (s *Surface) CartClosed() { s.cartOpen = false }

// autoDismissMsg fires when an informational prompt's display time elapsed.
// The generation guards against dismissing a prompt that replaced it.
type autoDismissMsg struct {
	gen uint64
}

// Model is the root bubbletea model of the storefront.
type Model struct {
	products []product.Product
	store    *cart.Store
	gate     *dialog.Gate
	surface  *Surface
	styles   Styles
	viewport viewport.Model

	autoDismiss time.Duration

	cursor       int
	cartCursor   int
	scheduledGen uint64
	width        int
	height       int
	quitting     bool
}

// New builds the storefront screen over its domain collaborators.
func New(products []product.Product, store *cart.Store, gate *dialog.Gate, surface *Surface, autoDismiss time.Duration) Model {
	return Model{
		products:    products,
		store:       store,
		gate:        gate,
		surface:     surface,
		styles:      DefaultStyles(),
		viewport:    viewport.New(80, 20),
		autoDismiss: autoDismiss,
	}
}

// Init implements tea.Model. The catalog is loaded before the program starts,
// so there is nothing to kick off.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Key events are resolved through the dispatch
// table for the focused region; everything else is window bookkeeping.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		// Header, footer, and pane padding take four rows.
		if h := msg.Height - 4; h > 0 {
			m.viewport.Height = h
		} else {
			m.viewport.Height = 1
		}
		return m, nil

	case autoDismissMsg:
		m.gate.DismissExpired(msg.gen)
		return m, nil

	case tea.KeyMsg:
		act, ok := keyTables[m.focus()][msg.String()]
		if !ok {
			return m, nil
		}
		return m.apply(act)
	}
	return m, nil
}

// focus routes events: an open modal captures everything, then the cart
// sidebar when expanded, then the catalog.
func (m Model) focus() focus {
	if m.gate.State() == dialog.StateOpen {
		return focusModal
	}
	if m.surface.cartOpen {
		return focusCart
	}
	return focusCatalog
}

func (m Model) apply(act action) (Model, tea.Cmd) {
	switch act {
	case actionQuit:
		m.quitting = true
		return m, tea.Quit

	case actionCursorUp:
		if m.surface.cartOpen {
			if m.cartCursor > 0 {
				m.cartCursor--
			}
		} else if m.cursor > 0 {
			m.cursor--
		}

	case actionCursorDown:
		if m.surface.cartOpen {
			if m.cartCursor < len(m.store.Lines())-1 {
				m.cartCursor++
			}
		} else if m.cursor < len(m.products)-1 {
			m.cursor++
		}

	case actionAddToCart:
		if len(m.products) > 0 {
			m.store.Add(m.products[m.cursor].ID)
		}

	case actionToggleCart:
		m.surface.cartOpen = !m.surface.cartOpen
		m.cartCursor = 0

	case actionCloseCart:
		m.surface.cartOpen = false

	case actionIncrement:
		if id, ok := m.selectedLine(); ok {
			m.store.UpdateQuantity(id, 1)
		}

	case actionDecrement:
		if id, ok := m.selectedLine(); ok {
			m.store.UpdateQuantity(id, -1)
		}

	case actionRemoveLine:
		if id, ok := m.selectedLine(); ok {
			m.store.Remove(id)
		}

	case actionClearCart:
		m.store.Clear()

	case actionCheckout:
		m.store.Checkout()

	case actionConfirm:
		m.gate.Confirm()

	case actionDismiss:
		m.gate.Dismiss()
	}

	m.clampCartCursor()
	return m.withAutoDismiss()
}

// withAutoDismiss schedules the expiry tick for a freshly opened
// informational prompt. Each generation is scheduled at most once; a stale
// tick is ignored by the gate.
func (m Model) withAutoDismiss() (Model, tea.Cmd) {
	p, ok := m.gate.Current()
	if !ok || !p.AutoDismiss {
		return m, nil
	}
	gen := m.gate.Generation()
	if gen == m.scheduledGen {
		return m, nil
	}
	m.scheduledGen = gen

	return m, tea.Tick(m.autoDismiss, func(time.Time) tea.Msg {
		return autoDismissMsg{gen: gen}
	})
}

func (m Model) selectedLine() (int64, bool) {
	lines := m.store.Lines()
	if len(lines) == 0 || m.cartCursor >= len(lines) {
		return 0, false
	}
	return lines[m.cartCursor].Product.ID, true
}

func (m *Model) clampCartCursor() {
	if n := len(m.store.Lines()); m.cartCursor >= n {
		m.cartCursor = n - 1
	}
	if m.cartCursor < 0 {
		m.cartCursor = 0
	}
}

// View implements tea.Model. The whole frame is rebuilt from current state:
// catalog and cart sizes are small, so full re-render beats diff bookkeeping.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := m.styles.Header.Render(fmt.Sprintf(
		"Storefront · %d items · %s",
		m.store.ItemCount(), cart.FormatPrice(m.store.Total()),
	))

	body := m.styles.Pane.Render(m.catalogPane())
	if m.surface.cartOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			body,
			m.styles.CartPane.Render(m.cartView()),
		)
	}

	frame := lipgloss.JoinVertical(lipgloss.Left, header, body, m.footerView())

	if p, ok := m.gate.Current(); ok {
		modal := m.modalView(p)
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
		}
		return frame + "\n" + modal
	}
	return frame
}

// catalogPane clips the catalog to the window through the viewport, keeping
// the selected entry visible. Before the first WindowSizeMsg the catalog is
// rendered unclipped.
func (m Model) catalogPane() string {
	content := m.catalogView()
	if m.height == 0 {
		return content
	}

	vp := m.viewport
	vp.SetContent(content)

	// Every catalog entry renders as two lines.
	top := m.cursor * 2
	switch {
	case top < vp.YOffset:
		vp.SetYOffset(top)
	case top+2 > vp.YOffset+vp.Height:
		vp.SetYOffset(top + 2 - vp.Height)
	}
	return vp.View()
}

func (m Model) catalogView() string {
	if len(m.products) == 0 {
		return m.styles.Muted.Render("No products available.")
	}

	quantities := make(map[int64]int)
	for _, l := range m.store.Lines() {
		quantities[l.Product.ID] = l.Quantity
	}

	var b strings.Builder
	for i, p := range m.products {
		marker, style := "  ", m.styles.Body
		if i == m.cursor && !m.surface.cartOpen {
			marker, style = "▸ ", m.styles.Selected
		}

		b.WriteString(marker)
		b.WriteString(style.Render(p.Name))
		b.WriteString("  ")
		b.WriteString(m.styles.Price.Render(cart.FormatPrice(p.Price)))
		if q := quantities[p.ID]; q > 0 {
			b.WriteString("  ")
			b.WriteString(m.styles.Badge.Render(fmt.Sprintf("×%d", q)))
		}
		b.WriteString("\n  ")
		b.WriteString(m.styles.Muted.Render(truncate(p.Description, 52)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) cartView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Your cart"))
	b.WriteString("\n\n")

	lines := m.store.Lines()
	if len(lines) == 0 {
		b.WriteString(m.styles.Muted.Render("Your cart is empty."))
		return b.String()
	}

	for i, l := range lines {
		marker, style := "  ", m.styles.Body
		if i == m.cartCursor {
			marker, style = "▸ ", m.styles.Selected
		}
		b.WriteString(fmt.Sprintf("%s%s\n", marker, style.Render(l.Product.Name)))
		b.WriteString(fmt.Sprintf("    %s × %d = %s\n",
			m.styles.Muted.Render(cart.FormatPrice(l.Product.Price)),
			l.Quantity,
			m.styles.Price.Render(cart.FormatPrice(l.Subtotal())),
		))
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s",
		m.styles.Body.Render("Total:"),
		m.styles.Price.Render(cart.FormatPrice(m.store.Total())),
	))
	return b.String()
}

func (m Model) footerView() string {
	var help string
	switch m.focus() {
	case focusModal:
		help = "enter/y confirm · esc/n cancel"
	case focusCart:
		help = "↑/↓ select · + / - quantity · d remove · c clear · enter checkout · tab close · q quit"
	default:
		help = "↑/↓ select · enter add to cart · tab cart · q quit"
	}
	return m.styles.Footer.Render(help)
}

func (m Model) modalView(p dialog.Prompt) string {
	title := m.styles.ModalTitle
	if p.Action != nil && !p.AutoDismiss {
		title = m.styles.Danger
	}

	buttons := "enter/y confirm · esc/n cancel"
	if p.Action == nil {
		buttons = "enter or esc to close"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title.Render(p.Title),
		"",
		m.styles.Body.Width(46).Render(p.Message),
		"",
		m.styles.Muted.Render(buttons),
	)
	return m.styles.Modal.Render(content)
}
