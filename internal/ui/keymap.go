package ui

// action enumerates everything a user interaction can ask of the storefront.
type action int

const (
	actionNone action = iota
	actionQuit
	actionCursorUp
	actionCursorDown
	actionAddToCart
	actionToggleCart
	actionCloseCart
	actionIncrement
	actionDecrement
	actionRemoveLine
	actionClearCart
	actionCheckout
	actionConfirm
	actionDismiss
)

// focus identifies which region of the screen receives key events.
type focus int

const (
	focusCatalog focus = iota
	focusCart
	focusModal
)

// keyTables is the declarative dispatch table from spec'd interaction events
// to storefront actions, one table per focus region. Keeping the mapping as
// data makes the event wiring testable without a terminal.
var keyTables = map[focus]map[string]action{
	focusCatalog: {
		"q":      actionQuit,
		"ctrl+c": actionQuit,
		"up":     actionCursorUp,
		"k":      actionCursorUp,
		"down":   actionCursorDown,
		"j":      actionCursorDown,
		"enter":  actionAddToCart,
		"a":      actionAddToCart,
		"tab":    actionToggleCart,
	},
	focusCart: {
		"q":      actionQuit,
		"ctrl+c": actionQuit,
		"up":     actionCursorUp,
		"k":      actionCursorUp,
		"down":   actionCursorDown,
		"j":      actionCursorDown,
		"+":      actionIncrement,
		"-":      actionDecrement,
		"d":      actionRemoveLine,
		"x":      actionRemoveLine,
		"c":      actionClearCart,
		"enter":  actionCheckout,
		"tab":    actionCloseCart,
		"esc":    actionCloseCart,
	},
	focusModal: {
		"ctrl+c": actionQuit,
		"enter":  actionConfirm,
		"y":      actionConfirm,
		"esc":    actionDismiss,
		"n":      actionDismiss,
	},
}
