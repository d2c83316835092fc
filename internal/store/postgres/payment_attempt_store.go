// internal/store/postgres/payment_attempt_store.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Tanmoy095/PaySynapse/internal/payment"
)

// PaymentAttemptStore persists payment attempts in postgres.
type PaymentAttemptStore struct {
	db *sql.DB
}

func NewPaymentAttemptStore(db *sql.DB) *PaymentAttemptStore {
	return &PaymentAttemptStore{db: db}
}

// CreateAttempt persists a new payment attempt record.
// provider_payment_id may be empty when the gateway hasn't been called yet.
func (pa *PaymentAttemptStore) CreateAttempt(ctx context.Context, attempt *payment.PaymentAttempt) error {
	query := `INSERT INTO payment_attempts
	(attempt_id, form_id, submission_id, provider, provider_payment_id, status, amount_cents, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, NOW(), NOW())
	`
	_, err := pa.db.ExecContext(ctx, query,
		attempt.AttemptID,
		attempt.FormID,
		attempt.SubmissionID,
		attempt.Provider,
		attempt.ProviderPaymentID,
		attempt.Status,
		attempt.AmountCents,
		attempt.Currency,
	)
	if err != nil {
		return fmt.Errorf("db: failed to create payment attempt: %w", err)
	}
	return nil
}

// UpdateAttemptStatus transitions the state (e.g., PENDING -> SUCCEEDED).
// Only PENDING rows move; a settled attempt never changes again.
func (pa *PaymentAttemptStore) UpdateAttemptStatus(ctx context.Context, attemptID uuid.UUID, status payment.PaymentStatus, providerID string, errCode *string, errMsg *string) error {
	query := `
		UPDATE payment_attempts
		SET status = $1,
		    provider_payment_id = COALESCE(NULLIF($2, ''), provider_payment_id),
		    error_code = $3,
		    error_message = $4,
		    updated_at = NOW()
		WHERE attempt_id = $5 AND status IN ('PENDING', 'REQUIRES_ACTION')
	`

	_, err := pa.db.ExecContext(ctx, query, status, providerID, errCode, errMsg, attemptID)
	if err != nil {
		return fmt.Errorf("db: failed to update payment attempt status: %w", err)
	}
	return nil
}

// GetAttemptByProviderID correlates an incoming webhook event ('pi_...')
// with our internal record.
func (pa *PaymentAttemptStore) GetAttemptByProviderID(ctx context.Context, providerID string) (*payment.PaymentAttempt, error) {
	query := `
		SELECT attempt_id, form_id, submission_id, provider, status, amount_cents, currency
		FROM payment_attempts
		WHERE provider_payment_id = $1
	`
	var attempt payment.PaymentAttempt
	err := pa.db.QueryRowContext(ctx, query, providerID).Scan(
		&attempt.AttemptID,
		&attempt.FormID,
		&attempt.SubmissionID,
		&attempt.Provider,
		&attempt.Status,
		&attempt.AmountCents,
		&attempt.Currency,
	)
	if err != nil {
		return nil, err // Let caller handle ErrNoRows
	}
	attempt.ProviderPaymentID = providerID
	return &attempt, nil
}

// GetStuckAttempts fetches attempts that have been pending longer than the
// given duration, oldest first, for an out-of-band reconciliation sweep.
func (pa *PaymentAttemptStore) GetStuckAttempts(ctx context.Context, limit int, olderThan time.Duration) ([]payment.PaymentAttempt, error) {
	cutoff := time.Now().Add(-olderThan)
	query := `
		SELECT attempt_id, form_id, submission_id, provider, provider_payment_id, status, amount_cents, currency, created_at
		FROM payment_attempts
		WHERE status IN ('PENDING', 'REQUIRES_ACTION') AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	rows, err := pa.db.QueryContext(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("db: failed to fetch stuck payment attempts: %w", err)
	}
	defer rows.Close()

	var attempts []payment.PaymentAttempt
	for rows.Next() {
		var attempt payment.PaymentAttempt
		var providerPaymentID sql.NullString
		err := rows.Scan(
			&attempt.AttemptID,
			&attempt.FormID,
			&attempt.SubmissionID,
			&attempt.Provider,
			&providerPaymentID,
			&attempt.Status,
			&attempt.AmountCents,
			&attempt.Currency,
			&attempt.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("db: failed to scan payment attempt: %w", err)
		}
		if providerPaymentID.Valid {
			attempt.ProviderPaymentID = providerPaymentID.String
		}
		attempts = append(attempts, attempt)
	}

	return attempts, rows.Err()
}
