// internal/process/notifier.go
package process

import (
	"context"
	"encoding/json"
	"log"
)

// ReceiptQueue is the rabbitmq queue the communications worker consumes.
const ReceiptQueue = "receipt_jobs"

// ReceiptJob asks the communications worker to email a payment receipt.
type ReceiptJob struct {
	FormID        string `json:"form_id"`
	SubmissionID  string `json:"submission_id"`
	TransactionID string `json:"transaction_id"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
	Email         string `json:"email"`
}

// Notifier enqueues receipt jobs after a successful charge.
type Notifier interface {
	EnqueueReceipt(ctx context.Context, job ReceiptJob) error
}

// queuePublisher is the slice of the rabbitmq client we need.
type queuePublisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}

// QueueNotifier implements Notifier on top of a queue client.
type QueueNotifier struct {
	queue queuePublisher
}

func NewQueueNotifier(queue queuePublisher) *QueueNotifier {
	return &QueueNotifier{queue: queue}
}

func (n *QueueNotifier) EnqueueReceipt(ctx context.Context, job ReceiptJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		log.Println("failed to marshal receipt job:", err)
		return err
	}
	return n.queue.Publish(ctx, ReceiptQueue, body)
}
