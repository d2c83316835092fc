package frontend

import (
	"context"
	"testing"

	"github.com/Tanmoy095/PaySynapse/internal/element"
	"github.com/Tanmoy095/PaySynapse/internal/process"
)

func TestSetupForm_ModeSelectsComponentSet(t *testing.T) {
	e := NewEngine(&fakeProvider{}, nil)

	form, _ := newCardSession(true)
	legacy := e.SetupForm(form, (&submitRecorder{}).handler(), process.CollectionModeLegacy)
	if legacy.orch != nil {
		t.Error("legacy mode must not get a confirmation orchestrator")
	}

	for _, mode := range []process.CollectionMode{process.CollectionModeCard, process.CollectionModePaymentElement} {
		ic := e.SetupForm(form, (&submitRecorder{}).handler(), mode)
		if ic.orch == nil {
			t.Errorf("mode %q must get the managed capture set", mode)
		}
	}
}

func TestSetupForm_PaymentElementCaptures(t *testing.T) {
	provider := &fakeProvider{}
	e := NewEngine(provider, nil)

	form, card := newCardSession(true)
	card.HandleChange(element.ChangeEvent{Complete: true})

	original := &submitRecorder{}
	ic := e.SetupForm(form, original.handler(), process.CollectionModePaymentElement)

	if err := ic.Submit(context.Background(), form); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.pmCalls != 1 {
		t.Errorf("payment-element mode must capture through the provider, got %d calls", provider.pmCalls)
	}
	if original.payloads[0][FieldPaymentMethodID] != "pm_test" {
		t.Errorf("artifact must be attached, got %v", original.payloads[0])
	}
}
