// internal/process/processor.go
package process

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/google/uuid"

	"github.com/Tanmoy095/PaySynapse/internal/conditional"
	"github.com/Tanmoy095/PaySynapse/internal/payment"
	"github.com/Tanmoy095/PaySynapse/shared/kafka"
)

// GatePolicy decides whether a processing path may run for the submitted
// field values. Injected so the gate can be swapped without subclassing
// anything; the default is conditional.Evaluate.
type GatePolicy func(rs conditional.RuleSet, fields map[string]string) bool

// Submission is one gate-ready form submission. At most one of
// PaymentMethodID / PaymentIntentID is populated per submission cycle.
type Submission struct {
	SubmissionID    uuid.UUID
	FormID          string
	Fields          map[string]string
	AmountCents     int64
	Currency        string
	PaymentMethodID string
	PaymentIntentID string
	CustomerEmail   string
	CustomerName    string
}

// Result is the processor's answer to the request layer.
type Result struct {
	// Skipped means a conditional rule blocked the attempt. Logged
	// server-side, never surfaced to the end user as an error.
	Skipped bool

	// ActionRequired means the bank demanded a step-up challenge; the
	// client must resolve it with ClientSecret and resubmit.
	ActionRequired bool
	ClientSecret   string

	TransactionID string
	Subscription  bool
}

// Processor orchestrates one charge or subscription attempt per
// submission, consulting the gate policy before every attempt.
type Processor struct {
	gateway  payment.Gateway
	gate     GatePolicy
	attempts payment.AttemptStore
	events   kafka.Publisher
	notifier Notifier

	// Dedupes concurrent requests for the same submission into a single
	// attempt. The request layer still owns nonce checks; this only stops
	// a double-clicked submit from racing itself.
	sf singleflight.Group
}

func NewProcessor(
	gateway payment.Gateway,
	gate GatePolicy,
	attempts payment.AttemptStore,
	events kafka.Publisher,
	notifier Notifier,
) *Processor {
	if gate == nil {
		gate = conditional.Evaluate
	}
	return &Processor{
		gateway:  gateway,
		gate:     gate,
		attempts: attempts,
		events:   events,
		notifier: notifier,
	}
}

// Process runs the path selected by the form settings: recurring when a
// plan is enabled, single payment otherwise.
func (p *Processor) Process(ctx context.Context, settings FormSettings, sub Submission) (*Result, error) {
	key := "process_submission_" + sub.SubmissionID.String()

	v, err, _ := p.sf.Do(key, func() (interface{}, error) {
		if settings.Recurring.Enabled {
			return p.processSubscription(ctx, settings, sub)
		}
		return p.processSingle(ctx, settings, sub)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

// processSingle gate-checks the single-payment rules, then attempts a
// one-shot charge.
func (p *Processor) processSingle(ctx context.Context, settings FormSettings, sub Submission) (*Result, error) {
	if !p.singleGateOK(ctx, settings, sub) {
		return &Result{Skipped: true}, nil
	}
	return p.chargeSingle(ctx, settings, sub)
}

// processSubscription runs the recurring path with the two-level check:
//   - recurring gate fails: fall back to the single path IN FULL, including
//     its own independent gate check;
//   - recurring gate passes: re-verify the single-payment gate before
//     proceeding, so a recurring attempt never bypasses a more specific
//     single-payment block. If that nested check fails, neither path runs.
func (p *Processor) processSubscription(ctx context.Context, settings FormSettings, sub Submission) (*Result, error) {
	if !p.gate(settings.Recurring.Conditional, sub.Fields) {
		return p.processSingle(ctx, settings, sub)
	}

	if !p.singleGateOK(ctx, settings, sub) {
		return &Result{Skipped: true}, nil
	}

	return p.chargeSubscription(ctx, settings, sub)
}

// singleGateOK evaluates the single-payment rule set, logging a
// conditional-skip when it blocks. The merchant configured the rule, so
// the end user never sees an error for this.
func (p *Processor) singleGateOK(ctx context.Context, settings FormSettings, sub Submission) bool {
	if p.gate(settings.Single, sub.Fields) {
		return true
	}

	log.Printf("[ConditionalSkip] payment stopped by conditional logic: form=%s submission=%s", sub.FormID, sub.SubmissionID)
	p.publishEvent(ctx, PaymentEvent{
		Event:        EventPaymentSkipped,
		FormID:       sub.FormID,
		SubmissionID: sub.SubmissionID.String(),
		AmountCents:  sub.AmountCents,
		Currency:     sub.Currency,
		Reason:       "conditional_logic",
	})
	return false
}

func (p *Processor) chargeSingle(ctx context.Context, settings FormSettings, sub Submission) (*Result, error) {
	// A resubmission after a resolved challenge carries the intent id
	// instead of a payment method; finalize that intent, don't re-charge.
	if sub.PaymentIntentID != "" {
		return p.finalizeIntent(ctx, sub)
	}

	// The provider can't charge zero; settle internally.
	if sub.AmountCents <= 0 {
		log.Printf("submission %s has 0 amount, skipping gateway", sub.SubmissionID)
		return &Result{TransactionID: "internal-zero-amount"}, nil
	}

	attempt := &payment.PaymentAttempt{
		AttemptID:    uuid.New(),
		FormID:       sub.FormID,
		SubmissionID: sub.SubmissionID,
		Provider:     "Stripe",
		Status:       payment.PaymentStatusPending,
		AmountCents:  sub.AmountCents,
		Currency:     sub.Currency,
	}
	if err := p.attempts.CreateAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to record payment attempt: %w", err)
	}

	req := payment.ChargeRequest{
		ReferenceID:     sub.SubmissionID.String(),
		AmountCents:     sub.AmountCents,
		Currency:        sub.Currency,
		PaymentMethodID: sub.PaymentMethodID,
		Description:     settings.Description,
		CustomerEmail:   sub.CustomerEmail,
		CustomerName:    sub.CustomerName,
		MetaData: map[string]string{
			"form_id":       sub.FormID,
			"submission_id": sub.SubmissionID.String(),
		},
	}

	// Hard limit for the provider call; a hung gateway must not pin the
	// submission request forever.
	gwCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := p.gateway.ChargeAttempt(gwCtx, req)
	if err != nil {
		p.recordFailure(ctx, attempt.AttemptID, sub, err)
		return nil, fmt.Errorf("payment declined: %w", err)
	}

	if result.ActionRequired {
		if uerr := p.attempts.UpdateAttemptStatus(ctx, attempt.AttemptID, payment.StatusRequiresAction, result.TransactionID, nil, nil); uerr != nil {
			log.Printf("[WARN] failed to park attempt %s as requires-action: %v", attempt.AttemptID, uerr)
		}
		return &Result{
			ActionRequired: true,
			ClientSecret:   result.ClientSecret,
			TransactionID:  result.TransactionID,
		}, nil
	}

	p.settleSuccess(ctx, attempt.AttemptID, sub, result.TransactionID)
	return &Result{TransactionID: result.TransactionID}, nil
}

func (p *Processor) chargeSubscription(ctx context.Context, settings FormSettings, sub Submission) (*Result, error) {
	if sub.PaymentIntentID != "" {
		res, err := p.finalizeIntent(ctx, sub)
		if err != nil {
			return nil, err
		}
		res.Subscription = true
		return res, nil
	}

	attempt := &payment.PaymentAttempt{
		AttemptID:    uuid.New(),
		FormID:       sub.FormID,
		SubmissionID: sub.SubmissionID,
		Provider:     "Stripe",
		Status:       payment.PaymentStatusPending,
		AmountCents:  sub.AmountCents,
		Currency:     sub.Currency,
	}
	if err := p.attempts.CreateAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to record payment attempt: %w", err)
	}

	req := payment.SubscriptionRequest{
		ReferenceID:     sub.SubmissionID.String(),
		PriceID:         settings.Recurring.PriceID,
		PaymentMethodID: sub.PaymentMethodID,
		CustomerEmail:   sub.CustomerEmail,
		CustomerName:    sub.CustomerName,
		MetaData: map[string]string{
			"form_id":       sub.FormID,
			"submission_id": sub.SubmissionID.String(),
			"plan":          settings.Recurring.Name,
		},
	}

	gwCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := p.gateway.SubscribeAttempt(gwCtx, req)
	if err != nil {
		p.recordFailure(ctx, attempt.AttemptID, sub, err)
		return nil, fmt.Errorf("subscription declined: %w", err)
	}

	if result.ActionRequired {
		if uerr := p.attempts.UpdateAttemptStatus(ctx, attempt.AttemptID, payment.StatusRequiresAction, result.TransactionID, nil, nil); uerr != nil {
			log.Printf("[WARN] failed to park attempt %s as requires-action: %v", attempt.AttemptID, uerr)
		}
		return &Result{
			ActionRequired: true,
			ClientSecret:   result.ClientSecret,
			TransactionID:  result.TransactionID,
			Subscription:   true,
		}, nil
	}

	p.settleSuccess(ctx, attempt.AttemptID, sub, result.TransactionID)
	return &Result{TransactionID: result.TransactionID, Subscription: true}, nil
}

// finalizeIntent settles a submission resubmitted with a payment-intent
// artifact after the customer resolved a challenge.
func (p *Processor) finalizeIntent(ctx context.Context, sub Submission) (*Result, error) {
	gwCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := p.gateway.FinalizeIntent(gwCtx, sub.PaymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize payment intent: %w", err)
	}

	attempt, aerr := p.attempts.GetAttemptByProviderID(ctx, sub.PaymentIntentID)
	if aerr != nil {
		// Money may have moved without a local record; loud log, keep going.
		log.Printf("[CRITICAL] no attempt record for intent %s (submission %s): %v", sub.PaymentIntentID, sub.SubmissionID, aerr)
	}

	if result.Status != payment.PaymentSucceeded {
		if attempt != nil {
			msg := "intent not succeeded after challenge"
			if uerr := p.attempts.UpdateAttemptStatus(ctx, attempt.AttemptID, payment.PaymentFailed, sub.PaymentIntentID, nil, &msg); uerr != nil {
				log.Printf("[WARN] failed to record challenge failure for attempt %s: %v", attempt.AttemptID, uerr)
			}
		}
		return nil, fmt.Errorf("payment declined: %w", payment.ErrPaymentFailed)
	}

	if attempt != nil {
		p.settleSuccess(ctx, attempt.AttemptID, sub, result.TransactionID)
	}
	return &Result{TransactionID: result.TransactionID}, nil
}

// settleSuccess records the terminal state and fires the side effects:
// lifecycle event and receipt job. Side-effect failures are logged, never
// returned; the charge already settled.
func (p *Processor) settleSuccess(ctx context.Context, attemptID uuid.UUID, sub Submission, transactionID string) {
	if err := p.attempts.UpdateAttemptStatus(ctx, attemptID, payment.PaymentSucceeded, transactionID, nil, nil); err != nil {
		log.Printf("[CRITICAL] payment %s succeeded but attempt %s update failed: %v", transactionID, attemptID, err)
	}

	p.publishEvent(ctx, PaymentEvent{
		Event:         EventPaymentSucceeded,
		FormID:        sub.FormID,
		SubmissionID:  sub.SubmissionID.String(),
		TransactionID: transactionID,
		AmountCents:   sub.AmountCents,
		Currency:      sub.Currency,
	})

	if p.notifier != nil && sub.CustomerEmail != "" {
		job := ReceiptJob{
			FormID:        sub.FormID,
			SubmissionID:  sub.SubmissionID.String(),
			TransactionID: transactionID,
			AmountCents:   sub.AmountCents,
			Currency:      sub.Currency,
			Email:         sub.CustomerEmail,
		}
		if err := p.notifier.EnqueueReceipt(ctx, job); err != nil {
			log.Printf("[WARN] payment %s settled but receipt enqueue failed: %v", transactionID, err)
		}
	}
}

func (p *Processor) recordFailure(ctx context.Context, attemptID uuid.UUID, sub Submission, cause error) {
	msg := cause.Error()
	if err := p.attempts.UpdateAttemptStatus(ctx, attemptID, payment.PaymentFailed, "", nil, &msg); err != nil {
		log.Printf("[WARN] failed to record failure for attempt %s: %v", attemptID, err)
	}

	p.publishEvent(ctx, PaymentEvent{
		Event:        EventPaymentFailed,
		FormID:       sub.FormID,
		SubmissionID: sub.SubmissionID.String(),
		AmountCents:  sub.AmountCents,
		Currency:     sub.Currency,
		Reason:       msg,
	})
}
