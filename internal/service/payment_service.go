package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/repository"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/worker"

	"github.com/rs/zerolog/log"
)

// PaymentPoster turns an order's cash payments into cash-movement ledger
// entries. It always runs AFTER the order's structural transaction has
// committed: a slow or failing ledger write must never abort a sale or a
// refund. Each posting attempt is independent — an individual failure is
// logged with enough context to reconcile manually, enqueued for the
// reconciliation worker, and skipped.
type PaymentPoster interface {
	// PostIncome posts one INCOME movement per cash payment with amount > 0.
	// A session that closed since the order committed takes no entry: the
	// payment is skipped with a warning, like the refund path.
	PostIncome(ctx context.Context, order *model.Order, payments []model.PaymentMethod)
	// PostRefunds posts one EXPENSE movement per cash payment of the order,
	// skipping (with a warning) when the session is already CLOSED: money
	// cannot be returned to a closed drawer.
	PostRefunds(ctx context.Context, order *model.Order)
}

type paymentPoster struct {
	cash       repository.CashRepository
	dispatcher *worker.Dispatcher
}

func NewPaymentPoster(cash repository.CashRepository, dispatcher *worker.Dispatcher) PaymentPoster {
	return &paymentPoster{cash: cash, dispatcher: dispatcher}
}

func (s *paymentPoster) PostIncome(ctx context.Context, order *model.Order, payments []model.PaymentMethod) {
	for _, pm := range payments {
		if !pm.IsCash() || !pm.Amount.IsPositive() {
			continue
		}
		if order.CashSession != nil && !order.CashSession.IsOpen() {
			// Movements only exist against OPEN sessions. A settlement that
			// lands after the drawer closed stays out of the cash ledger and
			// must be reconciled manually, same as the refund path.
			log.Warn().
				Str("order_id", order.ID.String()).
				Str("session_id", order.CashSessionID.String()).
				Str("amount", pm.Amount.String()).
				Msg("income skipped: cash session already closed")
			continue
		}
		s.post(ctx, order, pm, model.CashIncome)
	}
}

func (s *paymentPoster) PostRefunds(ctx context.Context, order *model.Order) {
	for _, pm := range order.PaymentMethods {
		if !pm.IsCash() || !pm.Amount.IsPositive() {
			continue
		}
		if order.CashSession != nil && !order.CashSession.IsOpen() {
			// Known, accepted gap: the drawer is closed, the refund stays
			// out of the cash ledger and must be handled manually.
			log.Warn().
				Str("order_id", order.ID.String()).
				Str("session_id", order.CashSessionID.String()).
				Str("amount", pm.Amount.String()).
				Msg("refund skipped: cash session already closed")
			continue
		}
		s.post(ctx, order, pm, model.CashExpense)
	}
}

// post writes a single movement. Failures never propagate: the order is
// already committed and must not be affected.
func (s *paymentPoster) post(ctx context.Context, order *model.Order, pm model.PaymentMethod, movType string) {
	mov := &model.CashMovement{
		CashSessionID: order.CashSessionID,
		Type:          movType,
		Amount:        pm.Amount,
		PaymentType:   pm.Type,
		Description:   movementDescription(order, movType),
		UserID:        order.UserID,
		OrderID:       &order.ID,
	}
	if err := s.cash.CreateMovement(ctx, mov); err != nil {
		log.Error().
			Str("order_id", order.ID.String()).
			Str("session_id", order.CashSessionID.String()).
			Str("amount", pm.Amount.String()).
			Str("movement_type", movType).
			Err(err).
			Msg("cash movement posting failed; queued for reconciliation")
		if s.dispatcher != nil {
			_ = s.dispatcher.EnqueueReconciliation(ctx, worker.ReconciliationJob{
				OrderID:       order.ID.String(),
				CashSessionID: order.CashSessionID.String(),
				MovementType:  movType,
				PaymentType:   pm.Type,
				Amount:        pm.Amount.String(),
				Description:   movementDescription(order, movType),
				UserID:        order.UserID.String(),
			})
		}
	}
}

// movementDescription derives the ledger line from the order's services and
// client, mirroring what the till prints.
func movementDescription(order *model.Order, movType string) string {
	prefix := "Venta"
	if movType == model.CashExpense {
		prefix = "Devolución venta"
	}
	desc := fmt.Sprintf("%s %s", prefix, order.OrderNumber)
	if len(order.Services) > 0 {
		names := make([]string, 0, len(order.Services))
		for _, svc := range order.Services {
			names = append(names, svc.Name)
		}
		desc += " — " + strings.Join(names, ", ")
	}
	if order.Client != nil && !order.Client.IsGeneric() {
		desc += " (" + order.Client.Name + ")"
	}
	return desc
}
