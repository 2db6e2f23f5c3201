package worker

import (
	"context"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// maxReconciliationAttempts bounds re-queues of a failed posting. After the
// last attempt the job is logged terminally for manual reconciliation.
const maxReconciliationAttempts = 3

// ReconciliationWorker retries cash-movement postings that failed after
// their order committed. It preserves the availability contract: the retry
// happens entirely out of band, the sale was never blocked.
type ReconciliationWorker struct {
	cash       repository.CashRepository
	dispatcher *Dispatcher
}

func NewReconciliationWorker(cash repository.CashRepository, dispatcher *Dispatcher) *ReconciliationWorker {
	return &ReconciliationWorker{cash: cash, dispatcher: dispatcher}
}

func (w *ReconciliationWorker) Process(ctx context.Context, job ReconciliationJob) {
	sessionID, err := uuid.Parse(job.CashSessionID)
	if err != nil {
		log.Error().Str("session_id", job.CashSessionID).Msg("reconciliation job with bad session id dropped")
		return
	}
	orderID, err := uuid.Parse(job.OrderID)
	if err != nil {
		log.Error().Str("order_id", job.OrderID).Msg("reconciliation job with bad order id dropped")
		return
	}
	amount, err := decimal.NewFromString(job.Amount)
	if err != nil {
		log.Error().Str("amount", job.Amount).Msg("reconciliation job with bad amount dropped")
		return
	}
	userID, _ := uuid.Parse(job.UserID)

	mov := &model.CashMovement{
		CashSessionID: sessionID,
		Type:          job.MovementType,
		Amount:        amount,
		PaymentType:   job.PaymentType,
		Description:   job.Description,
		UserID:        userID,
		OrderID:       &orderID,
	}

	if err := w.cash.CreateMovement(ctx, mov); err == nil {
		log.Info().
			Str("order_id", job.OrderID).
			Str("session_id", job.CashSessionID).
			Str("amount", job.Amount).
			Msg("cash movement reconciled")
		return
	} else if job.Attempts+1 >= maxReconciliationAttempts {
		log.Error().
			Str("order_id", job.OrderID).
			Str("session_id", job.CashSessionID).
			Str("amount", job.Amount).
			Err(err).
			Msg("cash movement reconciliation exhausted; manual fix required")
		return
	} else {
		job.Attempts++
		if qErr := w.dispatcher.EnqueueReconciliation(ctx, job); qErr != nil {
			log.Error().Err(qErr).Str("order_id", job.OrderID).Msg("failed to re-queue reconciliation job")
		}
	}
}
