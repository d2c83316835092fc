// internal/process/settings.go
package process

import "github.com/Tanmoy095/PaySynapse/internal/conditional"

// CollectionMode selects which card-input mechanism a form uses. Legacy
// keeps the unmanaged input with no capture; card and payment_element both
// use the managed capture set (same artifact flow, different provider
// widget). The server paths below are mode-agnostic.
type CollectionMode string

const (
	CollectionModeLegacy         CollectionMode = "legacy"
	CollectionModeCard           CollectionMode = "card"
	CollectionModePaymentElement CollectionMode = "payment_element"
)

// RecurringPlan is the merchant's subscription configuration for a form.
type RecurringPlan struct {
	Enabled     bool                `json:"enabled"`
	Name        string              `json:"name"`
	PriceID     string              `json:"price_id"`
	Conditional conditional.RuleSet `json:"conditional"`
}

// FormSettings is the per-form payment configuration. Loaded once per form
// render by the settings layer; read-only here.
type FormSettings struct {
	FormID         string              `json:"form_id"`
	CollectionMode CollectionMode      `json:"collection_mode"`
	CardRequired   bool                `json:"card_required"`
	Currency       string              `json:"currency"`
	Description    string              `json:"description"`
	Single         conditional.RuleSet `json:"single"`
	Recurring      RecurringPlan       `json:"recurring"`
}
