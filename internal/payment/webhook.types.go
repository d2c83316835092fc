// internal/payment/webhook.types.go
package payment

// NormalizedEvent is the provider-neutral shape of an asynchronous payment
// notification. Whatever the provider, the processor only ever sees this.
type NormalizedEvent struct {
	Provider          string        // e.g., "Stripe"
	ProviderPaymentID string        // e.g., "pi_3M..."
	Status            PaymentStatus // e.g., SUCCEEDED, FAILED
	ErrorCode         *string       // e.g., "card_declined"
	ErrorMessage      *string       // e.g., "Insufficient funds"
}

// WebhookProcessor parses raw HTTP bytes into a NormalizedEvent.
type WebhookProcessor interface {
	Provider() string
	VerifyAndParse(payload []byte, headers map[string]string) (*NormalizedEvent, error)
}
