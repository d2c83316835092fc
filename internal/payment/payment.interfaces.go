// internal/payment/payment.interfaces.go
package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Gateway abstracts the money mover (Stripe today). All calls accept a
// context for cancellation and timeout propagation.
type Gateway interface {
	// ChargeAttempt executes a synchronous, on-session charge for the
	// payment-method artifact attached to a submission. A result with
	// ActionRequired set means the bank demanded a step-up challenge;
	// the charge is neither failed nor complete.
	ChargeAttempt(ctx context.Context, req ChargeRequest) (*ChargeResult, error)

	// FinalizeIntent checks an existing payment intent after the customer
	// resolved a challenge and the form was resubmitted with the intent id.
	FinalizeIntent(ctx context.Context, intentID string) (*ChargeResult, error)

	// SubscribeAttempt creates the customer + recurring plan for the
	// payment-method artifact. Same ActionRequired semantics as ChargeAttempt.
	SubscribeAttempt(ctx context.Context, req SubscriptionRequest) (*ChargeResult, error)
}

// AttemptStore persists payment attempts. Small interface on purpose; the
// postgres store implements all of it, the processor only needs this much.
type AttemptStore interface {
	CreateAttempt(ctx context.Context, attempt *PaymentAttempt) error
	UpdateAttemptStatus(ctx context.Context, attemptID uuid.UUID, status PaymentStatus, providerID string, errCode, errMsg *string) error
	GetAttemptByProviderID(ctx context.Context, providerID string) (*PaymentAttempt, error)

	// GetStuckAttempts returns attempts sitting in PENDING or
	// REQUIRES_ACTION longer than olderThan, oldest first, for the
	// reconciliation sweep.
	GetStuckAttempts(ctx context.Context, limit int, olderThan time.Duration) ([]PaymentAttempt, error)
}
