// internal/store/memory.go
package store

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tanmoy095/PaySynapse/internal/payment"
)

// MemoryAttemptStore is an in-memory payment.AttemptStore for tests and
// local development.
type MemoryAttemptStore struct {
	mu       sync.Mutex
	attempts map[uuid.UUID]*payment.PaymentAttempt
}

func NewMemoryAttemptStore() *MemoryAttemptStore {
	return &MemoryAttemptStore{attempts: make(map[uuid.UUID]*payment.PaymentAttempt)}
}

func (m *MemoryAttemptStore) CreateAttempt(ctx context.Context, attempt *payment.PaymentAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *attempt
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	m.attempts[attempt.AttemptID] = &cp
	return nil
}

func (m *MemoryAttemptStore) UpdateAttemptStatus(ctx context.Context, attemptID uuid.UUID, status payment.PaymentStatus, providerID string, errCode, errMsg *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	attempt, ok := m.attempts[attemptID]
	if !ok {
		return sql.ErrNoRows
	}
	// Settled attempts never change again, matching the postgres guard.
	if attempt.Status != payment.PaymentStatusPending && attempt.Status != payment.StatusRequiresAction {
		return nil
	}

	attempt.Status = status
	if providerID != "" {
		attempt.ProviderPaymentID = providerID
	}
	attempt.ErrorCode = errCode
	attempt.ErrorMessage = errMsg
	return nil
}

func (m *MemoryAttemptStore) GetAttemptByProviderID(ctx context.Context, providerID string) (*payment.PaymentAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, attempt := range m.attempts {
		if attempt.ProviderPaymentID == providerID {
			cp := *attempt
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

// GetStuckAttempts filters unsettled attempts older than the cutoff,
// oldest first, matching the postgres query.
func (m *MemoryAttemptStore) GetStuckAttempts(ctx context.Context, limit int, olderThan time.Duration) ([]payment.PaymentAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	var out []payment.PaymentAttempt
	for _, attempt := range m.attempts {
		if attempt.Status != payment.PaymentStatusPending && attempt.Status != payment.StatusRequiresAction {
			continue
		}
		if !attempt.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, *attempt)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// All returns a snapshot of every stored attempt, for test assertions.
func (m *MemoryAttemptStore) All() []payment.PaymentAttempt {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]payment.PaymentAttempt, 0, len(m.attempts))
	for _, attempt := range m.attempts {
		out = append(out, *attempt)
	}
	return out
}
