package process

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Tanmoy095/PaySynapse/internal/payment"
	"github.com/Tanmoy095/PaySynapse/internal/store"
)

func stuckAttempt(status payment.PaymentStatus, providerID string) *payment.PaymentAttempt {
	return &payment.PaymentAttempt{
		AttemptID:         uuid.New(),
		FormID:            "form-42",
		SubmissionID:      uuid.New(),
		Provider:          "Stripe",
		ProviderPaymentID: providerID,
		Status:            status,
		AmountCents:       2500,
		Currency:          "usd",
		CreatedAt:         time.Now().Add(-10 * time.Minute),
	}
}

func mustCreate(t *testing.T, attempts *store.MemoryAttemptStore, attempt *payment.PaymentAttempt) {
	t.Helper()
	if err := attempts.CreateAttempt(context.Background(), attempt); err != nil {
		t.Fatal(err)
	}
}

func TestSweep_SettlesSucceededIntent(t *testing.T) {
	gw := &mockGateway{}
	p, attempts, events, _ := newTestProcessor(gw)
	mustCreate(t, attempts, stuckAttempt(payment.PaymentStatusPending, "pi_zombie"))

	NewReconciler(p).Sweep(context.Background())

	if gw.finalizeCalls != 1 {
		t.Fatalf("expected one provider check, got %d", gw.finalizeCalls)
	}
	stored, err := attempts.GetAttemptByProviderID(context.Background(), "pi_zombie")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != payment.PaymentSucceeded {
		t.Errorf("attempt status = %s, want SUCCEEDED", stored.Status)
	}
	if len(events.events) != 1 || events.events[0].Event != EventPaymentSucceeded {
		t.Errorf("expected payment.succeeded event, got %+v", events.events)
	}
}

func TestSweep_NoProviderIDMarkedFailed(t *testing.T) {
	gw := &mockGateway{}
	p, attempts, _, _ := newTestProcessor(gw)
	orphan := stuckAttempt(payment.PaymentStatusPending, "")
	mustCreate(t, attempts, orphan)

	NewReconciler(p).Sweep(context.Background())

	if gw.finalizeCalls != 0 {
		t.Error("no provider call may be made without a provider payment id")
	}
	stored := attempts.All()
	if len(stored) != 1 || stored[0].Status != payment.PaymentFailed {
		t.Errorf("attempt must be failed, got %+v", stored)
	}
	if stored[0].ErrorCode == nil || *stored[0].ErrorCode != "pre_flight_crash" {
		t.Errorf("pre-flight crash code expected, got %+v", stored[0].ErrorCode)
	}
}

func TestSweep_ChallengeStillOpenStaysParked(t *testing.T) {
	gw := &mockGateway{finalizeResult: &payment.ChargeResult{
		TransactionID:  "pi_parked",
		Status:         payment.StatusRequiresAction,
		ActionRequired: true,
		ClientSecret:   "pi_parked_secret_x",
	}}
	p, attempts, events, _ := newTestProcessor(gw)
	mustCreate(t, attempts, stuckAttempt(payment.StatusRequiresAction, "pi_parked"))

	NewReconciler(p).Sweep(context.Background())

	stored, _ := attempts.GetAttemptByProviderID(context.Background(), "pi_parked")
	if stored.Status != payment.StatusRequiresAction {
		t.Errorf("an open challenge must stay parked, got %s", stored.Status)
	}
	if len(events.events) != 0 {
		t.Errorf("no event may fire while the challenge is open, got %+v", events.events)
	}
}

func TestSweep_FailedIntentRecorded(t *testing.T) {
	gw := &mockGateway{finalizeErr: fmt.Errorf("payment declined: %w", payment.ErrPaymentFailed)}
	p, attempts, _, _ := newTestProcessor(gw)
	mustCreate(t, attempts, stuckAttempt(payment.PaymentStatusPending, "pi_dead"))

	NewReconciler(p).Sweep(context.Background())

	stored, _ := attempts.GetAttemptByProviderID(context.Background(), "pi_dead")
	if stored.Status != payment.PaymentFailed {
		t.Errorf("attempt status = %s, want FAILED", stored.Status)
	}
	if stored.ErrorMessage == nil {
		t.Error("failure reason must be recorded")
	}
}

func TestSweep_TransientGatewayErrorLeavesAttempt(t *testing.T) {
	gw := &mockGateway{finalizeErr: payment.ErrProviderDown}
	p, attempts, _, _ := newTestProcessor(gw)
	mustCreate(t, attempts, stuckAttempt(payment.PaymentStatusPending, "pi_later"))

	NewReconciler(p).Sweep(context.Background())

	stored, _ := attempts.GetAttemptByProviderID(context.Background(), "pi_later")
	if stored.Status != payment.PaymentStatusPending {
		t.Errorf("a transient outage must not move the attempt, got %s", stored.Status)
	}
}

func TestSweep_FreshAttemptsNotTouched(t *testing.T) {
	gw := &mockGateway{}
	p, attempts, _, _ := newTestProcessor(gw)

	fresh := stuckAttempt(payment.PaymentStatusPending, "pi_fresh")
	fresh.CreatedAt = time.Now()
	mustCreate(t, attempts, fresh)

	NewReconciler(p).Sweep(context.Background())

	if gw.finalizeCalls != 0 {
		t.Error("attempts younger than the cutoff must not be swept")
	}
}
