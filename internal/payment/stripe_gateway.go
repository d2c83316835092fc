// internal/payment/stripe_gateway.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeGateway implements Gateway on top of stripe-go. Charges are
// on-session: the customer is at the form, so a requires_action status is
// surfaced as an ActionRequired result (with the intent's client secret)
// instead of failing the attempt.
type StripeGateway struct {
	client *client.API
}

// NewStripeGateway creates a gateway bound to the given secret key.
func NewStripeGateway(apiKey string) *StripeGateway {
	sc := &client.API{}
	sc.Init(apiKey, nil)

	return &StripeGateway{client: sc}
}

// ChargeAttempt creates and immediately confirms a payment intent for the
// submission's payment-method artifact.
func (sg *StripeGateway) ChargeAttempt(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if req.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.PaymentMethodID == "" {
		return nil, ErrNoPaymentMethod
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(req.AmountCents),
		Currency:      stripe.String(req.Currency),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		Description:   stripe.String(req.Description),

		// confirm=true charges in the same call instead of leaving a draft.
		// Card only, so no redirect-based methods sneak in without a return URL.
		Confirm:            stripe.Bool(true),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}

	// Idempotency: a resubmitted request with the same submission id must
	// not double-charge if Stripe already processed the first one.
	if req.ReferenceID != "" {
		params.IdempotencyKey = stripe.String(req.ReferenceID)
	}

	if len(req.MetaData) > 0 {
		params.Metadata = make(map[string]string, len(req.MetaData))
		for k, v := range req.MetaData {
			params.Metadata[k] = v
		}
	}

	params.Context = ctx

	pi, err := sg.client.PaymentIntents.New(params)
	if err != nil {
		return nil, sg.mapStripeError(err)
	}

	return sg.resultFromIntent(pi)
}

// FinalizeIntent fetches an intent the customer just confirmed a challenge
// for. Network success != payment success, so the status decides.
func (sg *StripeGateway) FinalizeIntent(ctx context.Context, intentID string) (*ChargeResult, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := sg.client.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, sg.mapStripeError(err)
	}

	return sg.resultFromIntent(pi)
}

// SubscribeAttempt creates a customer carrying the payment-method artifact
// and subscribes it to the configured price. The first invoice's intent
// carries any challenge requirement.
func (sg *StripeGateway) SubscribeAttempt(ctx context.Context, req SubscriptionRequest) (*ChargeResult, error) {
	if req.PriceID == "" {
		return nil, fmt.Errorf("%w: recurring plan has no price id", ErrPaymentFailed)
	}
	if req.PaymentMethodID == "" {
		return nil, ErrNoPaymentMethod
	}

	custParams := &stripe.CustomerParams{
		Email:         stripe.String(req.CustomerEmail),
		Name:          stripe.String(req.CustomerName),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(req.PaymentMethodID),
		},
	}
	custParams.Context = ctx

	cust, err := sg.client.Customers.New(custParams)
	if err != nil {
		return nil, sg.mapStripeError(err)
	}

	subParams := &stripe.SubscriptionParams{
		Customer: stripe.String(cust.ID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(req.PriceID)},
		},
		// allow_incomplete keeps the subscription alive while the customer
		// completes a step-up challenge on the first invoice.
		PaymentBehavior: stripe.String("allow_incomplete"),
	}
	subParams.Context = ctx
	subParams.AddExpand("latest_invoice.payment_intent")

	if req.ReferenceID != "" {
		subParams.IdempotencyKey = stripe.String(req.ReferenceID)
	}
	if len(req.MetaData) > 0 {
		subParams.Metadata = make(map[string]string, len(req.MetaData))
		for k, v := range req.MetaData {
			subParams.Metadata[k] = v
		}
	}

	sub, err := sg.client.Subscriptions.New(subParams)
	if err != nil {
		return nil, sg.mapStripeError(err)
	}

	if sub.LatestInvoice == nil || sub.LatestInvoice.PaymentIntent == nil {
		// Trial or zero-amount first invoice: nothing to collect now.
		return &ChargeResult{
			TransactionID: sub.ID,
			Status:        PaymentSucceeded,
			PaidAt:        time.Now(),
		}, nil
	}

	return sg.resultFromIntent(sub.LatestInvoice.PaymentIntent)
}

// resultFromIntent maps a provider intent status onto a domain result.
func (sg *StripeGateway) resultFromIntent(pi *stripe.PaymentIntent) (*ChargeResult, error) {
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return &ChargeResult{
			TransactionID: pi.ID,
			Status:        PaymentSucceeded,
			PaidAt:        time.Now(),
		}, nil

	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation:
		return &ChargeResult{
			TransactionID:  pi.ID,
			Status:         StatusRequiresAction,
			ActionRequired: true,
			ClientSecret:   pi.ClientSecret,
		}, nil

	case stripe.PaymentIntentStatusProcessing:
		return &ChargeResult{
			TransactionID: pi.ID,
			Status:        PaymentStatusPending,
		}, nil
	}

	return &ChargeResult{
		TransactionID: pi.ID,
		Status:        PaymentFailed,
	}, fmt.Errorf("%w: intent status is %s", ErrPaymentFailed, pi.Status)
}

// mapStripeError converts stripe-go errors into domain errors so the
// processor layer never imports the provider SDK.
func (sg *StripeGateway) mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Code {
		case stripe.ErrorCodeCardDeclined:
			return fmt.Errorf("%w: card was declined (%s)", ErrPaymentFailed, stripeErr.Msg)
		case stripe.ErrorCodeExpiredCard:
			return fmt.Errorf("%w: card has expired", ErrPaymentFailed)
		case stripe.ErrorCodeBalanceInsufficient:
			return fmt.Errorf("%w: insufficient funds", ErrPaymentFailed)
		case stripe.ErrorCodeIdempotencyKeyInUse:
			return fmt.Errorf("system conflict: idempotency key collision (check submission id)")
		}

		if stripeErr.HTTPStatusCode >= http.StatusInternalServerError {
			return ErrProviderDown
		}
	}
	return fmt.Errorf("gateway internal error: %w", err)
}
