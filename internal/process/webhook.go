// internal/process/webhook.go
package process

import (
	"context"
	"fmt"
	"log"

	"github.com/Tanmoy095/PaySynapse/internal/payment"
)

// HandleAsyncResult applies a normalized provider event to the local
// attempt record. It is the bridge between the webhook intake and our
// database.
func (p *Processor) HandleAsyncResult(ctx context.Context, event payment.NormalizedEvent) error {
	log.Printf("[Webhook] processing %s event for %s", event.Provider, event.ProviderPaymentID)

	attempt, err := p.attempts.GetAttemptByProviderID(ctx, event.ProviderPaymentID)
	if err != nil {
		// Unknown ids can be old payments or another system's traffic.
		return fmt.Errorf("attempt not found for provider_id %s: %w", event.ProviderPaymentID, err)
	}

	// Idempotency: replayed deliveries and out-of-order failures must not
	// move a settled attempt. A success is never overwritten by a failure.
	if attempt.Status == event.Status {
		return nil
	}
	if attempt.Status == payment.PaymentSucceeded {
		return nil
	}

	if err := p.attempts.UpdateAttemptStatus(
		ctx,
		attempt.AttemptID,
		event.Status,
		event.ProviderPaymentID,
		event.ErrorCode,
		event.ErrorMessage,
	); err != nil {
		return fmt.Errorf("failed to update attempt status: %w", err)
	}

	switch event.Status {
	case payment.PaymentSucceeded:
		p.settleSuccess(ctx, attempt.AttemptID, Submission{
			SubmissionID: attempt.SubmissionID,
			FormID:       attempt.FormID,
			AmountCents:  attempt.AmountCents,
			Currency:     attempt.Currency,
		}, event.ProviderPaymentID)

	case payment.PaymentFailed:
		reason := ""
		if event.ErrorMessage != nil {
			reason = *event.ErrorMessage
		}
		p.publishEvent(ctx, PaymentEvent{
			Event:        EventPaymentFailed,
			FormID:       attempt.FormID,
			SubmissionID: attempt.SubmissionID.String(),
			AmountCents:  attempt.AmountCents,
			Currency:     attempt.Currency,
			Reason:       reason,
		})
	}

	return nil
}
