// internal/element/card_element.go
package element

// The card input itself is rendered and hosted by the payment provider's
// embedded iframe; this package owns the state the rest of the form engine
// is allowed to see. The element mirrors provider change notifications into
// a CardState, toggles status classes on its mount container so other
// components (the page gatekeeper, layout CSS) can query visual state
// without holding the element, and exposes an observer hook.

// CanonicalCardMessage replaces the provider's wording for the common
// number errors so the form shows the same message as native validation.
const CanonicalCardMessage = "Please enter a valid credit card number."

// Classes are the CSS status classes toggled on the mount container.
type Classes struct {
	Empty    string `json:"empty"`
	Complete string `json:"complete"`
	Invalid  string `json:"invalid"`
}

// DefaultClasses match the form renderer's stylesheet.
var DefaultClasses = Classes{
	Empty:    "pf-card-empty",
	Complete: "pf-card-complete",
	Invalid:  "pf-card-invalid",
}

// CardState is the element-owned validation state. Readers (interceptor,
// gatekeeper) never mutate it.
type CardState struct {
	Empty    bool
	Complete bool
	Invalid  bool
	Message  string
}

// ChangeError carries a provider error code and message.
type ChangeError struct {
	Code    string
	Message string
}

// ChangeEvent is one provider change notification.
type ChangeEvent struct {
	Empty    bool
	Complete bool
	Error    *ChangeError
}

// Observer receives the element state after each change notification.
type Observer func(CardState)

// Mount is the container the element is attached to. It holds the status
// class set and remembers the mounted element so creation stays idempotent.
type Mount struct {
	classes map[string]struct{}
	element *CardElement
}

func NewMount() *Mount {
	return &Mount{classes: make(map[string]struct{})}
}

func (m *Mount) AddClass(class string) {
	if class == "" {
		return
	}
	m.classes[class] = struct{}{}
}

func (m *Mount) RemoveClass(class string) {
	delete(m.classes, class)
}

func (m *Mount) HasClass(class string) bool {
	_, ok := m.classes[class]
	return ok
}

// MountConfig configures element creation.
type MountConfig struct {
	Style          StyleSpec `json:"style"`
	Classes        Classes   `json:"classes"`
	HidePostalCode bool      `json:"hide_postal_code"`
}

// CardElement wraps one provider-rendered card input.
type CardElement struct {
	mount       *Mount
	cfg         MountConfig
	state       CardState
	providerRef string
	observers   []Observer
}

// Create mounts a card element on the container. A second call for an
// already-mounted container returns the existing element untouched.
func Create(mount *Mount, cfg MountConfig) *CardElement {
	if mount.element != nil {
		return mount.element
	}
	if cfg.Classes == (Classes{}) {
		cfg.Classes = DefaultClasses
	}

	e := &CardElement{
		mount: mount,
		cfg:   cfg,
		// A freshly mounted input has no digits in it yet.
		state: CardState{Empty: true},
	}
	mount.AddClass(cfg.Classes.Empty)
	mount.element = e

	return e
}

// GetState returns the latest provider-reported state.
func (e *CardElement) GetState() CardState {
	return e.state
}

// Mount returns the container the element is attached to.
func (e *CardElement) Mount() *Mount {
	return e.mount
}

// OnChange registers an observer invoked after every change notification.
func (e *CardElement) OnChange(fn Observer) {
	e.observers = append(e.observers, fn)
}

// SetProviderRef stores the opaque reference the embedded input produced.
// The confirmation client exchanges it for a payment method; raw card data
// never reaches this process.
func (e *CardElement) SetProviderRef(ref string) {
	e.providerRef = ref
}

// ProviderRef returns the opaque provider-side reference to the card input.
func (e *CardElement) ProviderRef() string {
	return e.providerRef
}

// HandleChange processes one provider change notification: canonicalizes
// known error codes, updates state, syncs the container classes, and
// notifies observers. Runs synchronously on the caller's goroutine.
func (e *CardElement) HandleChange(ev ChangeEvent) {
	state := CardState{
		Empty:    ev.Empty,
		Complete: ev.Complete,
	}

	if ev.Error != nil {
		state.Invalid = true
		state.Message = ev.Error.Message

		switch ev.Error.Code {
		case "incomplete_number", "invalid_number":
			state.Message = CanonicalCardMessage
		}
	}

	e.state = state
	e.syncClasses()

	for _, fn := range e.observers {
		fn(state)
	}
}

// MarkInvalid forces the invalid status class on, without touching the
// provider-reported flags. Used when a challenge confirmation fails.
func (e *CardElement) MarkInvalid() {
	e.state.Invalid = true
	e.mount.AddClass(e.cfg.Classes.Invalid)
}

// UpdateStyle replaces the element style, e.g. after a theme change.
func (e *CardElement) UpdateStyle(style StyleSpec) {
	e.cfg.Style = style
}

// Style returns the currently applied style.
func (e *CardElement) Style() StyleSpec {
	return e.cfg.Style
}

func (e *CardElement) syncClasses() {
	toggle := func(class string, on bool) {
		if on {
			e.mount.AddClass(class)
		} else {
			e.mount.RemoveClass(class)
		}
	}
	toggle(e.cfg.Classes.Empty, e.state.Empty)
	toggle(e.cfg.Classes.Complete, e.state.Complete)
	toggle(e.cfg.Classes.Invalid, e.state.Invalid)
}
