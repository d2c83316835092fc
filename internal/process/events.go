// internal/process/events.go
package process

import (
	"context"
	"log"
	"time"
)

// Event names published to the payments topic.
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
	EventPaymentSkipped   = "payment.skipped"
)

// PaymentEvent is the lifecycle event emitted per submission.
type PaymentEvent struct {
	Event         string    `json:"event"`
	FormID        string    `json:"form_id"`
	SubmissionID  string    `json:"submission_id"`
	TransactionID string    `json:"transaction_id,omitempty"`
	AmountCents   int64     `json:"amount_cents"`
	Currency      string    `json:"currency,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	At            time.Time `json:"at"`
}

// publishEvent emits a lifecycle event, best effort. A broker outage must
// not fail a payment that already settled.
func (p *Processor) publishEvent(ctx context.Context, ev PaymentEvent) {
	if p.events == nil {
		return
	}
	ev.At = time.Now()
	if err := p.events.Publish(ctx, ev.SubmissionID, ev); err != nil {
		log.Printf("[WARN] failed to publish %s for submission %s: %v", ev.Event, ev.SubmissionID, err)
	}
}
