package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const (
	QueueReconciliation = "jobs:reconciliation"
	QueueReceipt        = "jobs:receipt"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ReconciliationJob records a cash-movement posting that failed after its
// order committed. The reconciliation worker retries it out of band; the
// sale itself is never blocked.
type ReconciliationJob struct {
	OrderID       string `json:"order_id"`
	CashSessionID string `json:"cash_session_id"`
	MovementType  string `json:"movement_type"`
	PaymentType   string `json:"payment_type"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
	UserID        string `json:"user_id"`
	Attempts      int    `json:"attempts"`
}

// ReceiptJob asks the receipt worker to render and mail the sale receipt.
type ReceiptJob struct {
	OrderID     string `json:"order_id"`
	ClientEmail string `json:"client_email"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueReconciliation pushes a failed cash-movement posting for retry.
func (d *Dispatcher) EnqueueReconciliation(ctx context.Context, job ReconciliationJob) error {
	return d.enqueue(ctx, QueueReconciliation, "reconciliation", job)
}

// EnqueueReceipt pushes a receipt render+mail job.
func (d *Dispatcher) EnqueueReceipt(ctx context.Context, job ReceiptJob) error {
	return d.enqueue(ctx, QueueReceipt, "receipt", job)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}
