// internal/frontend/interceptor.go
package frontend

import "context"

// SubmitHandler performs the form's network submission and returns the
// server's envelope. The interceptor holds the form library's prior
// handler and calls it deliberately; nothing mutates shared handler state.
type SubmitHandler func(ctx context.Context, form *FormSession) (*SubmitResponse, error)

// Interceptor replaces a form's validated-submit action. Installed once
// per form at setup time. Per submission it decides whether payment
// capture is required and either delegates straight to the original
// handler or routes through the confirmation orchestrator.
type Interceptor struct {
	original SubmitHandler
	orch     *Orchestrator
}

// NewInterceptor wraps the prior submit handler. A nil orchestrator means
// the form runs in legacy collection mode: no managed capture, every
// submission delegates directly.
func NewInterceptor(original SubmitHandler, orch *Orchestrator) *Interceptor {
	return &Interceptor{original: original, orch: orch}
}

// Submit is the replacement submit action.
func (ic *Interceptor) Submit(ctx context.Context, form *FormSession) error {
	valid := form.Validate()
	processCard := ic.orch != nil && requiresCapture(form)

	switch {
	case valid && processCard:
		form.DisableSubmit()
		return ic.orch.ConfirmAndSubmit(ctx, form, ic.original)

	case valid:
		// Form is valid, however no credit card to process.
		form.DisableSubmit()
		form.EnableSubmit()
		_, err := ic.original(ctx, form)
		return err

	default:
		// Validation failed locally; the validator already displayed the
		// messages. Nothing reaches the server.
		form.EnableSubmit()
		return nil
	}
}

// requiresCapture decides whether this submission must capture card data:
// never when the card field is conditionally hidden, always when it is
// required, and for an optional card only when the user actually entered
// something.
func requiresCapture(form *FormSession) bool {
	if form.CardHidden() || form.Card() == nil {
		return false
	}
	if form.CardRequired() {
		return true
	}
	return !form.Card().GetState().Empty
}
