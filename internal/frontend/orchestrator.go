// internal/frontend/orchestrator.go
package frontend

import (
	"context"

	"github.com/Tanmoy095/PaySynapse/internal/payment"
)

// ConfirmProvider is the tokenization/challenge capability. The production
// implementation is payment.StripeConfirmClient.
type ConfirmProvider interface {
	CreatePaymentMethod(ctx context.Context, cardRef, billingName string) (*payment.PaymentMethodResult, error)
	ResolveChallenge(ctx context.Context, clientSecret string) (*payment.ChallengeResult, error)
}

// AjaxSubmitter is the generic AJAX submission path used for the
// post-challenge resubmission. It deliberately bypasses the interceptor so
// the capture decision is not re-entered.
type AjaxSubmitter func(ctx context.Context, form *FormSession) (*SubmitResponse, error)

// OrchestratorState tracks one submission attempt through the
// confirmation flow.
type OrchestratorState int

const (
	StateIdle OrchestratorState = iota
	StateCreatingArtifact
	StateNeedsChallenge
	StateConfirming
	StateSucceeded
	StateFailed
)

// Orchestrator creates the payment artifact for a submission and, when the
// server reports that a challenge is required, drives the challenge round
// trip and the single resubmission. There is no retry loop: every failure
// requires a fresh user-initiated submit.
type Orchestrator struct {
	provider ConfirmProvider
	ajax     AjaxSubmitter
	state    OrchestratorState
}

func NewOrchestrator(provider ConfirmProvider, ajax AjaxSubmitter) *Orchestrator {
	return &Orchestrator{provider: provider, ajax: ajax}
}

// State returns the current attempt's state.
func (o *Orchestrator) State() OrchestratorState { return o.state }

// ConfirmAndSubmit runs one attempt: exchange the card input for a
// payment-method artifact, attach it, then invoke the original submit
// handler. All provider calls are awaited in sequence; no two are ever in
// flight concurrently for the same form.
func (o *Orchestrator) ConfirmAndSubmit(ctx context.Context, form *FormSession, original SubmitHandler) error {
	o.state = StateCreatingArtifact

	pm, err := o.provider.CreatePaymentMethod(ctx, form.Card().ProviderRef(), form.Field(CardNameField))
	if err != nil {
		if form.CardRequired() {
			form.EnableSubmit()
			form.SetCardError(err.Error())
			o.state = StateFailed
			return nil
		}
		// Optional card: capture is best effort. Swallow the error and
		// submit the form without an artifact.
	} else {
		form.RemoveHiddenField(FieldPaymentMethodID)
		form.RemoveHiddenField(FieldPaymentIntentID)
		form.SetHiddenField(FieldPaymentMethodID, pm.PaymentMethodID)
	}

	form.Block()
	resp, err := original(ctx, form)
	if err != nil {
		form.Unblock()
		o.state = StateFailed
		return err
	}

	if resp == nil || !resp.Success || resp.Data == nil || !resp.Data.ActionRequired {
		// No challenge step; the submission settled in one round.
		form.Unblock()
		o.state = StateSucceeded
		return nil
	}

	if resp.Data.PaymentIntentClientSecret == "" {
		// Challenge expected but the response shape is unexpected. The
		// precise cause is indeterminate, so: unblock, no resubmission,
		// no message.
		form.Unblock()
		o.state = StateFailed
		return nil
	}

	o.state = StateNeedsChallenge
	return o.resolveChallenge(ctx, form, resp.Data.PaymentIntentClientSecret)
}

// resolveChallenge drives the step-up round trip with the provider, then
// triggers exactly one resubmission through the generic AJAX path.
func (o *Orchestrator) resolveChallenge(ctx context.Context, form *FormSession, clientSecret string) error {
	o.state = StateConfirming

	result, err := o.provider.ResolveChallenge(ctx, clientSecret)
	if err != nil {
		form.Unblock()
		form.Card().MarkInvalid()
		form.SetCardError(err.Error())
		o.state = StateFailed
		return nil
	}

	if result.Status != payment.PaymentSucceeded {
		// Abandoned or declined without detail; the user may retry.
		form.Unblock()
		o.state = StateFailed
		return nil
	}

	form.RemoveHiddenField(FieldPaymentMethodID)
	form.RemoveHiddenField(FieldPaymentIntentID)
	form.SetHiddenField(FieldPaymentIntentID, result.IntentID)

	if _, err := o.ajax(ctx, form); err != nil {
		form.Unblock()
		o.state = StateFailed
		return err
	}

	form.Unblock()
	o.state = StateSucceeded
	return nil
}
