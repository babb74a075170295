// Package dialog implements the single-slot confirmation gate that guards
// ambiguous and destructive cart operations.
package dialog

import (
	"sync"
)

// State enumerates the gate's states.
type State int

const (
	// StateIdle means no confirmation is pending.
	StateIdle State = iota
	// StateOpen means a prompt is displayed and its action is held in the slot.
	StateOpen
)

// Prompt describes one pending confirmation. Action is nil for purely
// informational prompts, where confirming and dismissing are equivalent.
type Prompt struct {
	Title       string
	Message     string
	Action      func()
	AutoDismiss bool
}

// Gate holds at most one pending confirmation at a time. Requesting while a
// prompt is already open overwrites the slot: the previous action is silently
// discarded, last request wins.
//
// The gate owns no timer. Callers schedule auto-dismissal themselves and call
// DismissExpired with the generation returned by Request; a late firing for a
// slot that has since been closed or replaced is a harmless no-op.
type Gate struct {
	mu     sync.Mutex
	state  State
	prompt Prompt
	gen    uint64
}

// New returns a Gate in the Idle state.
func New() *Gate {
	return &Gate{}
}

// Request opens the gate with the given prompt, replacing any prompt already
// held. It returns the slot generation used for auto-dismiss scheduling.
func (g *Gate) Request(p Prompt) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = StateOpen
	g.prompt = p
	g.gen++
	return g.gen
}

// State reports the current gate state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Current returns the open prompt, or ok=false when the gate is idle.
func (g *Gate) Current() (p Prompt, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateOpen {
		return Prompt{}, false
	}
	return g.prompt, true
}

// Generation returns the generation of the most recent slot. Pair it with
// DismissExpired when scheduling an auto-dismiss.
func (g *Gate) Generation() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gen
}

// Confirm closes the gate and runs the held action exactly once. Confirming
// an idle gate or a prompt without an action only closes it.
func (g *Gate) Confirm() {
	g.mu.Lock()
	if g.state != StateOpen {
		g.mu.Unlock()
		return
	}
	action := g.prompt.Action
	g.close()
	g.mu.Unlock()

	// Run outside the lock: actions mutate the cart store and may open the
	// gate again.
	if action != nil {
		action()
	}
}

// Dismiss closes the gate and discards the held action without running it.
// Covers cancel, explicit close, and backdrop dismissal. Idempotent.
func (g *Gate) Dismiss() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateOpen {
		g.close()
	}
}

// DismissExpired closes the gate only if gen still identifies the open slot.
// It reports whether the gate was closed.
func (g *Gate) DismissExpired(gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateOpen || g.gen != gen {
		return false
	}
	g.close()
	return true
}

// close resets the slot. Callers must hold g.mu.
func (g *Gate) close() {
	g.state = StateIdle
	g.prompt = Prompt{}
}
