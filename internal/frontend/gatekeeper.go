// internal/frontend/gatekeeper.go
package frontend

import (
	"sync"

	"github.com/google/uuid"
)

// IncompleteDetailsMessage is shown when forward navigation is blocked by
// an incomplete required card input.
const IncompleteDetailsMessage = "Please fill out the payment details before continuing."

// NavAction is the direction of a page change on a multi-page form.
type NavAction string

const (
	NavNext NavAction = "next"
	NavPrev NavAction = "prev"
)

// Gatekeeper blocks forward navigation away from a page holding an
// incomplete required card input. Locks live in an arena keyed by form id,
// one optional locked page per form instance; a lock only governs its own
// page.
type Gatekeeper struct {
	mu    sync.Mutex
	locks map[uuid.UUID]int
}

func NewGatekeeper() *Gatekeeper {
	return &Gatekeeper{locks: make(map[uuid.UUID]int)}
}

// LockedPage returns the locked page index for a form, or 0 when none.
func (g *Gatekeeper) LockedPage(formID uuid.UUID) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.locks[formID]
}

// PageChange decides whether a navigation away from currentPage proceeds.
// It returns false when the navigation must be cancelled.
func (g *Gatekeeper) PageChange(form *FormSession, currentPage int, action NavAction) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Backward navigation is never blocked, and releases the lock.
	if action == NavPrev {
		delete(g.locks, form.ID)
		return true
	}

	// Card not on this page, or optional and untouched: nothing to guard.
	if !form.CardVisibleOnPage(currentPage) {
		return true
	}
	state := form.Card().GetState()
	if !form.CardRequired() && state.Empty {
		return true
	}

	// A lock only governs its own page.
	if locked, ok := g.locks[form.ID]; ok && locked != currentPage {
		return true
	}

	if state.Complete {
		form.ClearCardError()
		delete(g.locks, form.ID)
		return true
	}

	g.locks[form.ID] = currentPage

	// The element already shows its own message when invalid; avoid
	// stacking a second one.
	if !state.Invalid {
		form.SetCardError(IncompleteDetailsMessage)
	}

	return false
}
