// Package ui renders the interactive terminal storefront: catalog pane, cart
// sidebar, and the confirmation modal. Views are pure projections — every
// frame is rebuilt in full from the current store and gate state.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#8BC34A")
	colorAccent  = lipgloss.Color("#2196F3")
	colorDanger  = lipgloss.Color("#e53935")
	colorMuted   = lipgloss.Color("245")
	colorBorder  = lipgloss.Color("240")
)

// Styles holds the styled components of the storefront screen.
type Styles struct {
	Header   lipgloss.Style
	Footer   lipgloss.Style
	Title    lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Price    lipgloss.Style
	Selected lipgloss.Style
	Badge    lipgloss.Style

	Pane       lipgloss.Style
	CartPane   lipgloss.Style
	Modal      lipgloss.Style
	ModalTitle lipgloss.Style
	Danger     lipgloss.Style
}

// DefaultStyles returns the storefront's default look.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(colorPrimary).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true),

		Body: lipgloss.NewStyle(),

		Muted: lipgloss.NewStyle().
			Foreground(colorMuted),

		Price: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true),

		Badge: lipgloss.NewStyle().
			Background(colorAccent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1),

		Pane: lipgloss.NewStyle().
			Padding(1, 2),

		CartPane: lipgloss.NewStyle().
			Padding(1, 2).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorBorder),

		Modal: lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary),

		ModalTitle: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true),

		Danger: lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true),
	}
}

// truncate shortens s to width runes, appending an ellipsis when cut.
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return strings.TrimRight(string(runes[:width-1]), " ") + "…"
}
