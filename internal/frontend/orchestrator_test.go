package frontend

import (
	"context"
	"errors"
	"testing"

	"github.com/Tanmoy095/PaySynapse/internal/element"
	"github.com/Tanmoy095/PaySynapse/internal/payment"
)

func actionRequiredResponse(secret string) *SubmitResponse {
	return &SubmitResponse{
		Success: true,
		Data: &SubmitResponseData{
			ActionRequired:            true,
			PaymentIntentClientSecret: secret,
		},
	}
}

func TestConfirmAndSubmit_ChallengeResolvedTriggersOneResubmission(t *testing.T) {
	form, card := newCardSession(true)
	card.HandleChange(element.ChangeEvent{Complete: true})

	original := &submitRecorder{responses: []*SubmitResponse{actionRequiredResponse("pi_test_secret_xyz")}}

	ajaxCalls := 0
	var ajaxPayload map[string]string
	ajax := func(ctx context.Context, f *FormSession) (*SubmitResponse, error) {
		ajaxCalls++
		ajaxPayload = f.HiddenFields()
		return &SubmitResponse{Success: true}, nil
	}

	orch := NewOrchestrator(&fakeProvider{}, ajax)

	if err := orch.ConfirmAndSubmit(context.Background(), form, original.handler()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if original.calls != 1 {
		t.Fatalf("original handler must run exactly once, got %d", original.calls)
	}
	if ajaxCalls != 1 {
		t.Fatalf("exactly one AJAX resubmission must occur, got %d", ajaxCalls)
	}
	if ajaxPayload[FieldPaymentIntentID] != "pi_test" {
		t.Errorf("resubmission must carry the intent artifact, got %v", ajaxPayload)
	}
	if _, ok := ajaxPayload[FieldPaymentMethodID]; ok {
		t.Error("stale payment-method artifact must be stripped before resubmission")
	}
	if len(ajaxPayload) != 1 {
		t.Errorf("exactly one artifact field may exist, got %v", ajaxPayload)
	}
	if orch.State() != StateSucceeded {
		t.Errorf("state = %v, want succeeded", orch.State())
	}
}

func TestConfirmAndSubmit_ChallengeErrorIsTerminal(t *testing.T) {
	form, card := newCardSession(true)
	card.HandleChange(element.ChangeEvent{Complete: true})

	original := &submitRecorder{responses: []*SubmitResponse{actionRequiredResponse("pi_test_secret_xyz")}}

	ajaxCalls := 0
	ajax := func(ctx context.Context, f *FormSession) (*SubmitResponse, error) {
		ajaxCalls++
		return &SubmitResponse{Success: true}, nil
	}

	provider := &fakeProvider{challengeErr: errors.New("authentication failed")}
	orch := NewOrchestrator(provider, ajax)

	if err := orch.ConfirmAndSubmit(context.Background(), form, original.handler()); err != nil {
		t.Fatalf("terminal challenge failure is not an error: %v", err)
	}

	if ajaxCalls != 0 {
		t.Error("no resubmission may happen after a challenge error")
	}
	if form.Blocked() {
		t.Error("UI must be unblocked")
	}
	if !card.GetState().Invalid {
		t.Error("card input must be marked visually invalid")
	}
	if form.CardError() == "" {
		t.Error("the challenge error must be displayed inline")
	}
	if orch.State() != StateFailed {
		t.Errorf("state = %v, want failed", orch.State())
	}
}

func TestConfirmAndSubmit_ChallengeOtherStatusUnblocksSilently(t *testing.T) {
	form, card := newCardSession(true)
	card.HandleChange(element.ChangeEvent{Complete: true})

	original := &submitRecorder{responses: []*SubmitResponse{actionRequiredResponse("pi_test_secret_xyz")}}

	ajaxCalls := 0
	ajax := func(ctx context.Context, f *FormSession) (*SubmitResponse, error) {
		ajaxCalls++
		return nil, nil
	}

	provider := &fakeProvider{challengeRes: &payment.ChallengeResult{IntentID: "pi_test", Status: payment.PaymentStatusPending}}
	orch := NewOrchestrator(provider, ajax)

	if err := orch.ConfirmAndSubmit(context.Background(), form, original.handler()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ajaxCalls != 0 {
		t.Error("no resubmission may happen for a non-succeeded challenge status")
	}
	if form.Blocked() {
		t.Error("UI must be unblocked")
	}
	if form.CardError() != "" {
		t.Error("no error message may be shown for an abandoned challenge")
	}
}

func TestConfirmAndSubmit_MalformedChallengeResponseHardStops(t *testing.T) {
	form, card := newCardSession(true)
	card.HandleChange(element.ChangeEvent{Complete: true})

	// action_required without a client secret: cause indeterminate.
	original := &submitRecorder{responses: []*SubmitResponse{actionRequiredResponse("")}}

	provider := &fakeProvider{}
	ajaxCalls := 0
	ajax := func(ctx context.Context, f *FormSession) (*SubmitResponse, error) {
		ajaxCalls++
		return nil, nil
	}
	orch := NewOrchestrator(provider, ajax)

	if err := orch.ConfirmAndSubmit(context.Background(), form, original.handler()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.challengeCalls != 0 || ajaxCalls != 0 {
		t.Error("no challenge round trip or resubmission may happen on a malformed response")
	}
	if form.Blocked() {
		t.Error("UI must be unblocked")
	}
	if form.CardError() != "" {
		t.Error("no message may be shown: the precise cause is indeterminate")
	}
}

func TestConfirmAndSubmit_NoChallengeWhenSuccessFalse(t *testing.T) {
	form, card := newCardSession(true)
	card.HandleChange(element.ChangeEvent{Complete: true})

	original := &submitRecorder{responses: []*SubmitResponse{{
		Success: false,
		Data:    &SubmitResponseData{ActionRequired: true, PaymentIntentClientSecret: "pi_x_secret_y"},
	}}}

	provider := &fakeProvider{}
	orch := NewOrchestrator(provider, nil)

	if err := orch.ConfirmAndSubmit(context.Background(), form, original.handler()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.challengeCalls != 0 {
		t.Error("success=false means no challenge step is taken")
	}
}

func TestConfirmAndSubmit_ReplacesStaleArtifacts(t *testing.T) {
	form, card := newCardSession(true)
	card.HandleChange(element.ChangeEvent{Complete: true})

	// Leftovers from a prior attempt in the same page view.
	form.SetHiddenField(FieldPaymentMethodID, "pm_stale")
	form.SetHiddenField(FieldPaymentIntentID, "pi_stale")

	original := &submitRecorder{}
	orch := NewOrchestrator(&fakeProvider{}, nil)

	if err := orch.ConfirmAndSubmit(context.Background(), form, original.handler()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload := original.payloads[0]
	if payload[FieldPaymentMethodID] != "pm_test" {
		t.Errorf("stale payment method must be replaced, got %v", payload)
	}
	if _, ok := payload[FieldPaymentIntentID]; ok {
		t.Error("stale intent artifact must be removed")
	}
}

func TestConfirmAndSubmit_SubmissionErrorPropagates(t *testing.T) {
	form, card := newCardSession(true)
	card.HandleChange(element.ChangeEvent{Complete: true})

	original := &submitRecorder{err: errors.New("network down")}
	orch := NewOrchestrator(&fakeProvider{}, nil)

	if err := orch.ConfirmAndSubmit(context.Background(), form, original.handler()); err == nil {
		t.Fatal("a failed network submission must surface")
	}
	if form.Blocked() {
		t.Error("UI must be unblocked after a failed submission")
	}
	if orch.State() != StateFailed {
		t.Errorf("state = %v, want failed", orch.State())
	}
}
