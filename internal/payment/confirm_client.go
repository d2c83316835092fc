// internal/payment/confirm_client.go
package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeConfirmClient is the tokenization/challenge capability the form
// engine talks to. It exchanges the embedded card input's opaque reference
// for a payment method and resolves step-up challenges by client secret.
// Raw card data stays on the provider's side of the fence.
type StripeConfirmClient struct {
	client *client.API
}

func NewStripeConfirmClient(apiKey string) *StripeConfirmClient {
	sc := &client.API{}
	sc.Init(apiKey, nil)

	return &StripeConfirmClient{client: sc}
}

// CreatePaymentMethod turns a card input reference plus the cardholder name
// into a payment-method artifact.
func (c *StripeConfirmClient) CreatePaymentMethod(ctx context.Context, cardRef, billingName string) (*PaymentMethodResult, error) {
	if cardRef == "" {
		return nil, ErrNoPaymentMethod
	}

	params := &stripe.PaymentMethodParams{
		Type: stripe.String("card"),
		Card: &stripe.PaymentMethodCardParams{
			Token: stripe.String(cardRef),
		},
	}
	if billingName != "" {
		params.BillingDetails = &stripe.PaymentMethodBillingDetailsParams{
			Name: stripe.String(billingName),
		}
	}
	params.Context = ctx

	pm, err := c.client.PaymentMethods.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment method: %w", err)
	}

	return &PaymentMethodResult{PaymentMethodID: pm.ID}, nil
}

// ResolveChallenge confirms the intent behind a challenge client secret and
// reports the provider's final status. A non-succeeded status without an
// error means the customer abandoned or the bank said no without detail.
func (c *StripeConfirmClient) ResolveChallenge(ctx context.Context, clientSecret string) (*ChallengeResult, error) {
	intentID := intentIDFromSecret(clientSecret)
	if intentID == "" {
		return nil, fmt.Errorf("malformed client secret")
	}

	params := &stripe.PaymentIntentConfirmParams{}
	params.Context = ctx

	pi, err := c.client.PaymentIntents.Confirm(intentID, params)
	if err != nil {
		return nil, fmt.Errorf("confirm challenge: %w", err)
	}

	result := &ChallengeResult{IntentID: pi.ID, Status: PaymentStatusUnknown}
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		result.Status = PaymentSucceeded
	case stripe.PaymentIntentStatusProcessing:
		result.Status = PaymentStatusPending
	case stripe.PaymentIntentStatusCanceled, stripe.PaymentIntentStatusRequiresPaymentMethod:
		result.Status = PaymentFailed
	}

	return result, nil
}

// Client secrets look like "pi_123_secret_456"; the intent id is the part
// before "_secret".
func intentIDFromSecret(secret string) string {
	id, _, found := strings.Cut(secret, "_secret")
	if !found {
		return ""
	}
	return id
}
