// internal/payment/models.payment.go
package payment

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentSucceeded     PaymentStatus = "SUCCEEDED"
	PaymentFailed        PaymentStatus = "FAILED"
	StatusRequiresAction PaymentStatus = "REQUIRES_ACTION"
	PaymentStatusUnknown PaymentStatus = "UNKNOWN"
)

// ChargeRequest encapsulates everything the gateway needs for one
// single-payment attempt.
type ChargeRequest struct {
	ReferenceID     string // our submission id; doubles as the idempotency key
	AmountCents     int64
	Currency        string
	PaymentMethodID string // the artifact created client-side; the only card data we ever hold
	Description     string // appears on bank/CC statements
	CustomerEmail   string
	CustomerName    string
	MetaData        map[string]string // context tags (form_id, submission_id) for gateway dashboard lookups
}

// SubscriptionRequest encapsulates one recurring-plan attempt.
type SubscriptionRequest struct {
	ReferenceID     string
	PriceID         string // provider-side price/plan identifier from the form settings
	PaymentMethodID string
	CustomerEmail   string
	CustomerName    string
	MetaData        map[string]string
}

// ChargeResult is the outcome of a charge or subscription attempt.
// ActionRequired is not an error: the charge is parked until the customer
// completes the step-up challenge with the client secret.
type ChargeResult struct {
	TransactionID  string // provider payment-intent id
	Status         PaymentStatus
	ActionRequired bool
	ClientSecret   string // set only when ActionRequired
	PaidAt         time.Time
}

// PaymentMethodResult is the artifact produced by exchanging a card input
// reference for a provider payment method.
type PaymentMethodResult struct {
	PaymentMethodID string
}

// ChallengeResult reports how a step-up challenge resolved. Status carries
// the provider's final intent status; anything other than succeeded means
// the attempt is abandoned without a new error.
type ChallengeResult struct {
	IntentID string
	Status   PaymentStatus
}

// PaymentAttempt is the persisted record of one gate-passing attempt.
type PaymentAttempt struct {
	AttemptID         uuid.UUID
	FormID            string
	SubmissionID      uuid.UUID
	Provider          string
	ProviderPaymentID string
	Status            PaymentStatus
	AmountCents       int64
	Currency          string
	ErrorCode         *string
	ErrorMessage      *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
