package worker

import (
	"context"
	"fmt"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/infra"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptWorker renders the sale receipt as PDF and mails it to the client.
// Entirely best-effort: a failure here never touches the order.
type ReceiptWorker struct {
	orders      repository.OrderRepository
	mailer      *infra.Mailer
	storagePath string
}

func NewReceiptWorker(orders repository.OrderRepository, mailer *infra.Mailer, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{orders: orders, mailer: mailer, storagePath: storagePath}
}

func (w *ReceiptWorker) Process(ctx context.Context, job ReceiptJob) {
	orderID, err := uuid.Parse(job.OrderID)
	if err != nil {
		log.Error().Str("order_id", job.OrderID).Msg("receipt job with bad order id dropped")
		return
	}

	order, err := w.orders.FindByID(ctx, orderID)
	if err != nil {
		log.Error().Str("order_id", job.OrderID).Err(err).Msg("receipt job: order not found")
		return
	}

	pdfPath, err := infra.RenderReceiptPDF(order, w.storagePath)
	if err != nil {
		log.Error().Str("order_id", job.OrderID).Err(err).Msg("receipt PDF rendering failed")
		return
	}

	subject := fmt.Sprintf("Comprobante de venta %s", order.OrderNumber)
	body := fmt.Sprintf("Adjuntamos el comprobante de su compra %s. Gracias por su preferencia.", order.OrderNumber)
	if err := w.mailer.SendReceipt(job.ClientEmail, subject, body, pdfPath); err != nil {
		log.Error().
			Str("order_id", job.OrderID).
			Str("email", job.ClientEmail).
			Err(err).
			Msg("receipt email failed")
		return
	}

	log.Info().Str("order_id", job.OrderID).Str("email", job.ClientEmail).Msg("receipt mailed")
}
