// internal/process/reconciler.go
package process

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Tanmoy095/PaySynapse/internal/payment"
)

// Reconciler sweeps attempts stuck in PENDING or REQUIRES_ACTION and syncs
// them with the provider. A crash after the gateway call, a lost webhook,
// or an abandoned challenge all leave the local record behind reality;
// the attempt ledger is only trustworthy if something closes that gap.
type Reconciler struct {
	proc *Processor

	batchSize   int
	workerCount int
	every       time.Duration
	olderThan   time.Duration
}

func NewReconciler(proc *Processor) *Reconciler {
	return &Reconciler{
		proc:        proc,
		batchSize:   50,
		workerCount: 5,
		every:       5 * time.Minute,
		olderThan:   5 * time.Minute,
	}
}

// Start runs the sweep loop until the context is cancelled. Blocking call.
func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.every)
	defer ticker.Stop()
	log.Printf("[Reconciler] worker started, polling every %s", r.every)

	for {
		select {
		case <-ctx.Done():
			log.Println("[Reconciler] context cancelled, stopping")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep runs one reconciliation cycle over a batch of stuck attempts.
func (r *Reconciler) Sweep(ctx context.Context) {
	attempts, err := r.proc.attempts.GetStuckAttempts(ctx, r.batchSize, r.olderThan)
	if err != nil {
		log.Printf("[Reconciler] failed to fetch stuck attempts: %v", err)
		return
	}
	if len(attempts) == 0 {
		return
	}
	log.Printf("[Reconciler] syncing %d stuck attempts", len(attempts))

	jobs := make(chan payment.PaymentAttempt, len(attempts))
	var wg sync.WaitGroup
	for w := 0; w < r.workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for attempt := range jobs {
				if err := r.syncAttempt(ctx, attempt); err != nil {
					log.Printf("[Reconciler] sync failed for attempt %s: %v", attempt.AttemptID, err)
				}
			}
		}()
	}

	for _, attempt := range attempts {
		jobs <- attempt
	}
	close(jobs)
	wg.Wait()
}

// syncAttempt resolves one stuck attempt against the provider's view.
func (r *Reconciler) syncAttempt(ctx context.Context, attempt payment.PaymentAttempt) error {
	// No provider id means we crashed before the gateway call; there is
	// nothing to ask the provider about. Safe to fail, the customer was
	// never charged.
	if attempt.ProviderPaymentID == "" {
		code := "pre_flight_crash"
		msg := "stuck pending with no provider payment id"
		return r.proc.attempts.UpdateAttemptStatus(ctx, attempt.AttemptID, payment.PaymentFailed, "", &code, &msg)
	}

	result, err := r.proc.gateway.FinalizeIntent(ctx, attempt.ProviderPaymentID)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentFailed) {
			msg := err.Error()
			return r.proc.attempts.UpdateAttemptStatus(ctx, attempt.AttemptID, payment.PaymentFailed, attempt.ProviderPaymentID, nil, &msg)
		}
		// Transient gateway trouble; the attempt stays stuck and the next
		// sweep picks it up again.
		return fmt.Errorf("gateway check failed: %w", err)
	}

	log.Printf("[Reconciler] attempt %s (local: %s) provider says %s", attempt.AttemptID, attempt.Status, result.Status)

	switch {
	case result.Status == payment.PaymentSucceeded:
		r.proc.settleSuccess(ctx, attempt.AttemptID, Submission{
			SubmissionID: attempt.SubmissionID,
			FormID:       attempt.FormID,
			AmountCents:  attempt.AmountCents,
			Currency:     attempt.Currency,
		}, result.TransactionID)

	case result.ActionRequired, result.Status == payment.PaymentStatusPending:
		// Still waiting on the customer or the provider; leave it parked.
	}

	return nil
}
