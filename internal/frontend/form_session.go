// internal/frontend/form_session.go
package frontend

import (
	"github.com/google/uuid"

	"github.com/Tanmoy095/PaySynapse/internal/element"
)

// Hidden payload field names for the payment artifact. At most one
// instance of each exists at submission time; stale instances are removed
// before a new one is attached.
const (
	FieldPaymentMethodID = "payment_method_id"
	FieldPaymentIntentID = "payment_intent_id"
)

// CardNameField is the visible cardholder-name field.
const CardNameField = "card_name"

// cardErrorField keys the inline error shown next to the card input.
const cardErrorField = "card"

// SubmitResponse mirrors the server's AJAX envelope. The absence of
// action_required (or success=false) means no challenge step is taken.
type SubmitResponse struct {
	Success bool                `json:"success"`
	Data    *SubmitResponseData `json:"data,omitempty"`
}

type SubmitResponseData struct {
	ActionRequired            bool   `json:"action_required"`
	PaymentIntentClientSecret string `json:"payment_intent_client_secret"`
}

// Validator runs the form's own field validation before any payment logic.
type Validator func(fields map[string]string) bool

// FormSession is one browser form instance for the duration of a page
// view. Sessions are fully isolated from each other; there is no shared
// mutable state across forms, and everything here vanishes on navigation
// away. Single-threaded cooperative use, matching the UI event loop.
type FormSession struct {
	ID uuid.UUID

	fields map[string]string
	hidden map[string]string

	card         *element.CardElement
	cardRequired bool
	cardHidden   bool // card field sits inside a satisfied conditional section
	cardPage     int  // page index holding the card field (multi-page forms)

	validator Validator

	submitEnabled bool
	blocked       bool

	fieldErrors map[string]string
}

// SessionConfig describes the rendered form the session mirrors.
type SessionConfig struct {
	CardRequired bool
	CardPage     int
	Validator    Validator
}

func NewFormSession(card *element.CardElement, cfg SessionConfig) *FormSession {
	return &FormSession{
		ID:            uuid.New(),
		fields:        make(map[string]string),
		hidden:        make(map[string]string),
		card:          card,
		cardRequired:  cfg.CardRequired,
		cardPage:      cfg.CardPage,
		validator:     cfg.Validator,
		submitEnabled: true,
		fieldErrors:   make(map[string]string),
	}
}

func (s *FormSession) Card() *element.CardElement { return s.card }

func (s *FormSession) CardRequired() bool { return s.cardRequired }

// SetCardHidden mirrors the conditional-visibility state of the section
// holding the card field.
func (s *FormSession) SetCardHidden(hidden bool) { s.cardHidden = hidden }

func (s *FormSession) CardHidden() bool { return s.cardHidden }

// CardVisibleOnPage reports whether the card field is shown on the given
// page index.
func (s *FormSession) CardVisibleOnPage(page int) bool {
	return !s.cardHidden && s.cardPage == page
}

func (s *FormSession) SetField(name, value string) { s.fields[name] = value }

func (s *FormSession) Field(name string) string { return s.fields[name] }

// Fields returns a copy of the visible field values.
func (s *FormSession) Fields() map[string]string {
	out := make(map[string]string, len(s.fields))
	for k, v := range s.fields {
		out[k] = v
	}
	return out
}

// SetHiddenField attaches an artifact field to the outgoing payload.
func (s *FormSession) SetHiddenField(name, value string) { s.hidden[name] = value }

// RemoveHiddenField strips a stale artifact field before a resubmission.
func (s *FormSession) RemoveHiddenField(name string) { delete(s.hidden, name) }

func (s *FormSession) HiddenField(name string) string { return s.hidden[name] }

// HiddenFields returns a copy of the artifact fields attached to the payload.
func (s *FormSession) HiddenFields() map[string]string {
	out := make(map[string]string, len(s.hidden))
	for k, v := range s.hidden {
		out[k] = v
	}
	return out
}

// Validate runs the form's own validation plus the card-required check.
func (s *FormSession) Validate() bool {
	ok := true
	if s.validator != nil {
		ok = s.validator(s.fields)
	}

	if s.cardRequired && !s.cardHidden && s.card != nil && s.card.GetState().Empty {
		s.SetCardError(element.CanonicalCardMessage)
		ok = false
	}

	return ok
}

func (s *FormSession) DisableSubmit() { s.submitEnabled = false }

func (s *FormSession) EnableSubmit() { s.submitEnabled = true }

func (s *FormSession) SubmitEnabled() bool { return s.submitEnabled }

// Block marks the form as busy (spinner, dimmed container) while an AJAX
// round trip is in flight.
func (s *FormSession) Block() { s.blocked = true }

// Unblock restores the form UI and re-enables the submit control.
func (s *FormSession) Unblock() {
	s.blocked = false
	s.submitEnabled = true
}

func (s *FormSession) Blocked() bool { return s.blocked }

// SetCardError shows an inline error next to the card input.
func (s *FormSession) SetCardError(message string) {
	s.fieldErrors[cardErrorField] = message
}

// ClearCardError removes a lingering inline card error.
func (s *FormSession) ClearCardError() {
	delete(s.fieldErrors, cardErrorField)
}

func (s *FormSession) CardError() string { return s.fieldErrors[cardErrorField] }
