package frontend

import (
	"testing"

	"github.com/Tanmoy095/PaySynapse/internal/element"
)

func TestPageChange_BackwardNeverBlocks(t *testing.T) {
	g := NewGatekeeper()

	// Worst case: required card, on this page, empty, already locked.
	form, _ := newCardSession(true)
	g.locks[form.ID] = 1

	if !g.PageChange(form, 1, NavPrev) {
		t.Fatal("backward navigation must never be blocked")
	}
	if g.LockedPage(form.ID) != 0 {
		t.Error("backward navigation must release the lock")
	}
}

func TestPageChange_CardNotOnPageAllows(t *testing.T) {
	g := NewGatekeeper()
	form, _ := newCardSession(true) // card lives on page 1

	if !g.PageChange(form, 2, NavNext) {
		t.Error("navigation must proceed when the card is not on the current page")
	}
}

func TestPageChange_HiddenCardAllows(t *testing.T) {
	g := NewGatekeeper()
	form, _ := newCardSession(true)
	form.SetCardHidden(true)

	if !g.PageChange(form, 1, NavNext) {
		t.Error("a conditionally hidden card must not block navigation")
	}
}

func TestPageChange_OptionalEmptyAllows(t *testing.T) {
	g := NewGatekeeper()
	form, _ := newCardSession(false)

	if !g.PageChange(form, 1, NavNext) {
		t.Error("an optional, empty card must not block navigation")
	}
}

func TestPageChange_LockOnOtherPageAllows(t *testing.T) {
	g := NewGatekeeper()
	form, card := newCardSession(true)
	card.HandleChange(element.ChangeEvent{Empty: false}) // touched, not complete
	g.locks[form.ID] = 3

	if !g.PageChange(form, 1, NavNext) {
		t.Error("a lock held for a different page must not govern this one")
	}
}

func TestPageChange_CompleteClearsErrorAndAllows(t *testing.T) {
	g := NewGatekeeper()
	form, card := newCardSession(true)
	form.SetCardError("lingering")
	g.locks[form.ID] = 1
	card.HandleChange(element.ChangeEvent{Complete: true})

	if !g.PageChange(form, 1, NavNext) {
		t.Fatal("a complete card must not block navigation")
	}
	if form.CardError() != "" {
		t.Error("lingering inline error must be cleared")
	}
	if g.LockedPage(form.ID) != 0 {
		t.Error("completion must release the lock")
	}
}

func TestPageChange_IncompleteLocksAndShowsError(t *testing.T) {
	g := NewGatekeeper()
	form, card := newCardSession(true)
	card.HandleChange(element.ChangeEvent{Empty: false}) // partial entry

	if g.PageChange(form, 1, NavNext) {
		t.Fatal("an incomplete required card must cancel forward navigation")
	}
	if g.LockedPage(form.ID) != 1 {
		t.Errorf("lock must be set to the current page, got %d", g.LockedPage(form.ID))
	}
	if form.CardError() != IncompleteDetailsMessage {
		t.Errorf("incomplete-details error expected, got %q", form.CardError())
	}
}

func TestPageChange_InvalidCardAvoidsDuplicateMessage(t *testing.T) {
	g := NewGatekeeper()
	form, card := newCardSession(true)
	card.HandleChange(element.ChangeEvent{
		Empty: false,
		Error: &element.ChangeError{Code: "invalid_number", Message: "bad number"},
	})

	if g.PageChange(form, 1, NavNext) {
		t.Fatal("navigation must still be cancelled")
	}
	if form.CardError() == IncompleteDetailsMessage {
		t.Error("the incomplete-details message must not stack on an invalid card")
	}
}

func TestPageChange_FormsAreIsolated(t *testing.T) {
	g := NewGatekeeper()
	formA, cardA := newCardSession(true)
	cardA.HandleChange(element.ChangeEvent{Empty: false})
	formB, cardB := newCardSession(true)
	cardB.HandleChange(element.ChangeEvent{Complete: true})

	if g.PageChange(formA, 1, NavNext) {
		t.Fatal("form A must be blocked")
	}
	if !g.PageChange(formB, 1, NavNext) {
		t.Error("form B's navigation must be unaffected by form A's lock")
	}
}
