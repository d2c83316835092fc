// internal/frontend/engine.go
package frontend

import (
	"github.com/Tanmoy095/PaySynapse/internal/element"
	"github.com/Tanmoy095/PaySynapse/internal/process"
)

// Engine wires up the per-form component set. One engine serves all forms
// on a page; each form gets its own session, element, and orchestrator, so
// forms never share mutable state.
type Engine struct {
	provider   ConfirmProvider
	ajax       AjaxSubmitter
	gatekeeper *Gatekeeper
}

func NewEngine(provider ConfirmProvider, ajax AjaxSubmitter) *Engine {
	return &Engine{
		provider:   provider,
		ajax:       ajax,
		gatekeeper: NewGatekeeper(),
	}
}

func (e *Engine) Gatekeeper() *Gatekeeper { return e.gatekeeper }

// SetupForm installs the submit interceptor for a form according to its
// collection mode. Legacy mode keeps the unmanaged input: the interceptor
// delegates every submission directly and no managed capture happens.
// Card and payment-element modes share the managed component set; both are
// provider-hosted inputs that produce the same payment artifact, they
// differ only in which input widget the provider renders.
func (e *Engine) SetupForm(form *FormSession, original SubmitHandler, mode process.CollectionMode) *Interceptor {
	switch mode {
	case process.CollectionModeLegacy:
		return NewInterceptor(original, nil)
	default:
		return NewInterceptor(original, NewOrchestrator(e.provider, e.ajax))
	}
}

// MountCard creates (or returns the already-mounted) card element for a
// form's mount container.
func (e *Engine) MountCard(mount *element.Mount, cfg element.MountConfig) *element.CardElement {
	return element.Create(mount, cfg)
}

// PageChange forwards a page-change event to the gatekeeper.
func (e *Engine) PageChange(form *FormSession, currentPage int, action NavAction) bool {
	return e.gatekeeper.PageChange(form, currentPage, action)
}
