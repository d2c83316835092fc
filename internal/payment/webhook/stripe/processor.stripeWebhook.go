// internal/payment/webhook/stripe/processor.stripeWebhook.go
package stripe

import (
	"encoding/json"
	"fmt"

	stripesdk "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/Tanmoy095/PaySynapse/internal/payment"
)

// Processor verifies and normalizes Stripe webhook deliveries.
type Processor struct {
	secret string
}

func New(secret string) *Processor {
	return &Processor{secret: secret}
}

func (p *Processor) Provider() string {
	return "Stripe"
}

// VerifyAndParse checks the signature and maps intent lifecycle events onto
// the domain event. Events we don't track return (nil, nil).
func (p *Processor) VerifyAndParse(payload []byte, headers map[string]string) (*payment.NormalizedEvent, error) {
	event, err := webhook.ConstructEvent(
		payload,
		headers["Stripe-Signature"],
		p.secret,
	)
	if err != nil {
		return nil, fmt.Errorf("stripe signature invalid: %w", err)
	}

	var pi stripesdk.PaymentIntent
	if event.Data != nil {
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			// Event types we don't model unmarshal oddly; skip, don't fail.
			return nil, nil
		}
	}

	switch event.Type {
	case "payment_intent.succeeded":
		return &payment.NormalizedEvent{
			Provider:          "Stripe",
			ProviderPaymentID: pi.ID,
			Status:            payment.PaymentSucceeded,
		}, nil

	case "payment_intent.payment_failed":
		var code, msg *string
		if pi.LastPaymentError != nil {
			c := string(pi.LastPaymentError.Code)
			m := pi.LastPaymentError.Msg
			code, msg = &c, &m
		}
		return &payment.NormalizedEvent{
			Provider:          "Stripe",
			ProviderPaymentID: pi.ID,
			Status:            payment.PaymentFailed,
			ErrorCode:         code,
			ErrorMessage:      msg,
		}, nil
	}

	return nil, nil
}
