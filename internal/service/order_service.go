package service

import (
	"context"
	"strings"
	"time"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/apierror"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/auth"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/dto"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/repository"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// paymentTolerance is the acceptable difference between declared payments and
// the services total for the fast-service exact-match check.
var paymentTolerance = decimal.NewFromFloat(1e-5)

type OrderService interface {
	Create(ctx context.Context, p auth.Principal, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Cancel(ctx context.Context, p auth.Principal, orderID uuid.UUID) (*dto.OrderResponse, error)
	Complete(ctx context.Context, p auth.Principal, orderID uuid.UUID, req dto.CompleteOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, p auth.Principal, orderID uuid.UUID) (*dto.OrderResponse, error)
	ListByStore(ctx context.Context, p auth.Principal, storeID uuid.UUID, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	ListByTenant(ctx context.Context, p auth.Principal, filter dto.OrderFilter) (*dto.OrderListResponse, error)
}

type orderService struct {
	orders     repository.OrderRepository
	cash       repository.CashRepository
	products   repository.StoreProductRepository
	stores     repository.StoreRepository
	clients    ClientService
	inventory  InventoryService
	poster     PaymentPoster
	scope      *Scope
	dispatcher *worker.Dispatcher
}

func NewOrderService(
	orders repository.OrderRepository,
	cash repository.CashRepository,
	products repository.StoreProductRepository,
	stores repository.StoreRepository,
	clients ClientService,
	inventory InventoryService,
	poster PaymentPoster,
	scope *Scope,
	dispatcher *worker.Dispatcher,
) OrderService {
	return &orderService{
		orders:     orders,
		cash:       cash,
		products:   products,
		stores:     stores,
		clients:    clients,
		inventory:  inventory,
		poster:     poster,
		scope:      scope,
		dispatcher: dispatcher,
	}
}

// ── Create ────────────────────────────────────────────────────────────────────
// The structural write is one atomic transaction: session gate, client
// resolution, stock validation and debit, order graph insert. Cash-movement
// posting runs after commit and never fails the sale.

func (s *orderService) Create(ctx context.Context, p auth.Principal, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	sessionID, err := uuid.Parse(req.CashSessionID)
	if err != nil {
		return nil, apierror.BadRequest("cash_session_id inválido")
	}

	var clientID *uuid.UUID
	if req.ClientID != nil {
		id, err := uuid.Parse(*req.ClientID)
		if err != nil {
			return nil, apierror.BadRequest("client_id inválido")
		}
		clientID = &id
	}

	if len(req.Products) == 0 && len(req.Services) == 0 {
		return nil, apierror.BadRequest("la orden debe tener al menos un producto o servicio")
	}

	var order *model.Order

	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		// 1. Session gate: existence, tenant, OPEN state — read under a row
		// lock inside this transaction so the session cannot close between
		// the check and the insert.
		session, err := s.cash.FindSessionForUpdateTx(tx, sessionID)
		if err != nil {
			return apierror.NotFound("sesión de caja %s no encontrada", req.CashSessionID)
		}
		if err := s.scope.AuthorizeSession(ctx, session, p); err != nil {
			return err
		}
		if !session.IsOpen() {
			return apierror.Conflict("la sesión de caja está cerrada")
		}

		// 2. Customer.
		client, err := s.clients.ResolveTx(tx, p, clientID, req.ClientInfo)
		if err != nil {
			return err
		}

		// 3. Product lines: resolve with row locks, validate reachability,
		// stock and price.
		lines, isPriceModified, err := s.resolveProductLines(tx, p, session, req.Products)
		if err != nil {
			return err
		}

		// 4. Service lines and status decision.
		services, status, err := buildServiceLines(p, req)
		if err != nil {
			return err
		}
		if len(services) == 0 {
			status = model.OrderCompleted
		}

		// 5. Totals.
		total := decimal.Zero
		for _, l := range lines {
			total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		for _, svc := range services {
			total = total.Add(svc.Price)
		}

		// 6. Order number from the store's tenant-relative sequence.
		seq, err := s.stores.SequenceNumber(ctx, session.Store)
		if err != nil {
			return apierror.Internal("error calculando secuencia de tienda", err)
		}

		payments := make([]model.PaymentMethod, 0, len(req.PaymentMethods))
		for _, pm := range req.PaymentMethods {
			payments = append(payments, model.PaymentMethod{Type: pm.Type, Amount: pm.Amount})
		}

		order = &model.Order{
			OrderNumber:     newOrderNumber(seq, time.Now()),
			CashSessionID:   session.ID,
			UserID:          p.UserID,
			ClientID:        client.ID,
			TotalAmount:     total,
			Status:          status,
			IsPriceModified: isPriceModified,
			Products:        lines,
			Services:        services,
			PaymentMethods:  payments,
		}
		if err := s.orders.CreateTx(tx, order); err != nil {
			return apierror.Internal("error creando la orden", err)
		}

		// 7. Stock debit + SALE audit records, still inside the transaction.
		for _, l := range order.Products {
			if err := s.inventory.DebitSaleTx(tx, p.UserID, l.StoreProductID, l.Quantity, order.ID, order.OrderNumber); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, apierror.From(txErr)
	}

	// Post-commit: cash-movement posting is best-effort and must never fail
	// the already-created order.
	hydrated, err := s.orders.FindByID(ctx, order.ID)
	if err != nil {
		hydrated = order
	}
	s.poster.PostIncome(ctx, hydrated, hydrated.PaymentMethods)

	if s.dispatcher != nil && hydrated.Client != nil && hydrated.Client.Email != nil && *hydrated.Client.Email != "" {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJob{
			OrderID:     hydrated.ID.String(),
			ClientEmail: *hydrated.Client.Email,
		})
	}

	resp := s.orderToResponse(ctx, hydrated, true)
	return resp, nil
}

// resolvedLine pairs a locked store product with its order line.
func (s *orderService) resolveProductLines(tx *gorm.DB, p auth.Principal, session *model.CashSession, reqLines []dto.ProductLineRequest) ([]model.OrderProduct, bool, error) {
	if len(reqLines) == 0 {
		return nil, false, nil
	}

	ids := make([]uuid.UUID, 0, len(reqLines))
	for _, l := range reqLines {
		id, err := uuid.Parse(l.StoreProductID)
		if err != nil {
			return nil, false, apierror.BadRequest("store_product_id inválido: %s", l.StoreProductID)
		}
		ids = append(ids, id)
	}

	locked, err := s.products.FindByIDsForUpdateTx(tx, ids)
	if err != nil {
		return nil, false, apierror.Internal("error resolviendo productos", err)
	}
	byID := make(map[uuid.UUID]*model.StoreProduct, len(locked))
	for i := range locked {
		byID[locked[i].ID] = &locked[i]
	}

	var missing []string
	for _, id := range ids {
		sp, ok := byID[id]
		if !ok || !s.scope.ProductReachable(sp, p, session.StoreID) {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return nil, false, apierror.NotFound("productos no encontrados: %s", strings.Join(missing, ", "))
	}

	lines := make([]model.OrderProduct, 0, len(reqLines))
	isPriceModified := false
	for i, l := range reqLines {
		sp := byID[ids[i]]
		if l.Quantity > sp.Stock {
			return nil, false, apierror.BadRequest("stock insuficiente para %s: disponible %d, solicitado %d",
				productName(sp), sp.Stock, l.Quantity)
		}
		unitPrice := sp.Price
		if l.CustomPrice != nil {
			unitPrice = *l.CustomPrice
			if !unitPrice.Equal(sp.Price) {
				isPriceModified = true
			}
		}
		lines = append(lines, model.OrderProduct{
			StoreProductID: sp.ID,
			Quantity:       l.Quantity,
			UnitPrice:      unitPrice,
		})
	}
	return lines, isPriceModified, nil
}

// buildServiceLines copies service lines and decides the initial status.
// Orders with services start PENDING, except the fast-service case: a
// services-only cart under the tenant policy completes immediately, provided
// declared payments exactly cover the services total.
func buildServiceLines(p auth.Principal, req dto.CreateOrderRequest) ([]model.Service, string, error) {
	if len(req.Services) == 0 {
		return nil, model.OrderCompleted, nil
	}

	status := model.OrderPending
	serviceStatus := model.ServiceInProgress

	fastService := p.HasFeature(auth.FeatureFastService) && len(req.Products) == 0
	if fastService {
		servicesTotal := decimal.Zero
		for _, svc := range req.Services {
			servicesTotal = servicesTotal.Add(svc.Price)
		}
		paymentsTotal := decimal.Zero
		for _, pm := range req.PaymentMethods {
			paymentsTotal = paymentsTotal.Add(pm.Amount)
		}
		if paymentsTotal.Sub(servicesTotal).Abs().GreaterThan(paymentTolerance) {
			return nil, "", apierror.BadRequest(
				"el pago declarado (%s) debe cubrir exactamente el total de servicios (%s)",
				paymentsTotal.String(), servicesTotal.String())
		}
		status = model.OrderCompleted
		serviceStatus = model.ServiceCompleted
	}

	services := make([]model.Service, 0, len(req.Services))
	for _, svc := range req.Services {
		services = append(services, model.Service{
			Name:   svc.Name,
			Type:   svc.Type,
			Price:  svc.Price,
			Status: serviceStatus,
		})
	}
	return services, status, nil
}

// ── Cancel ────────────────────────────────────────────────────────────────────
// One-shot reversal: stock restore with RETURN audit records and status flip
// happen atomically; the cash refund posting follows the same best-effort
// policy as creation and runs after commit.

func (s *orderService) Cancel(ctx context.Context, p auth.Principal, orderID uuid.UUID) (*dto.OrderResponse, error) {
	var order *model.Order

	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		var err error
		order, err = s.orders.FindByIDForUpdateTx(tx, orderID)
		if err != nil {
			return apierror.NotFound("orden %s no encontrada", orderID)
		}
		if order.CashSession == nil {
			return apierror.Internal("orden sin sesión cargada", nil)
		}
		if err := s.scope.AuthorizeSession(ctx, order.CashSession, p); err != nil {
			return err
		}
		// Only the creator or an ADMIN may cancel.
		if !p.IsAdmin() && order.UserID != p.UserID {
			return apierror.Forbidden("solo el creador de la orden o un administrador puede anularla")
		}
		if order.Status == model.OrderCancelled {
			return apierror.BadRequest("la orden ya está anulada")
		}

		for _, line := range order.Products {
			if err := s.inventory.CreditReturnTx(tx, p.UserID, line.StoreProductID, line.Quantity, order.ID, order.OrderNumber); err != nil {
				return err
			}
		}

		now := time.Now()
		canceledBy := p.UserID
		order.Status = model.OrderCancelled
		order.CanceledAt = &now
		order.CanceledByID = &canceledBy
		if err := s.orders.UpdateTx(tx, order); err != nil {
			return apierror.Internal("error anulando la orden", err)
		}

		for _, svc := range order.Services {
			if err := s.orders.UpdateServiceStatusTx(tx, svc.ID, model.ServiceAnnullated); err != nil {
				return apierror.Internal("error anulando servicios", err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, apierror.From(txErr)
	}

	// Post-commit refund: EXPENSE movements mirror the original cash
	// payments; a closed session skips with a warning instead of failing.
	s.poster.PostRefunds(ctx, order)

	hydrated, err := s.orders.FindByID(ctx, order.ID)
	if err != nil {
		hydrated = order
	}
	return s.orderToResponse(ctx, hydrated, false), nil
}

// ── Complete ──────────────────────────────────────────────────────────────────
// Settles services on a PENDING order with incremental payments, then
// re-evaluates the order status against payment and per-service evidence.

func (s *orderService) Complete(ctx context.Context, p auth.Principal, orderID uuid.UUID, req dto.CompleteOrderRequest) (*dto.OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, apierror.NotFound("orden %s no encontrada", orderID)
	}
	if order.CashSession == nil {
		return nil, apierror.Internal("orden sin sesión cargada", nil)
	}
	if err := s.scope.AuthorizeSession(ctx, order.CashSession, p); err != nil {
		return nil, apierror.From(err)
	}
	if order.Status != model.OrderPending {
		return nil, apierror.BadRequest("la orden ya fue liquidada")
	}

	serviceByID := make(map[uuid.UUID]*model.Service, len(order.Services))
	for i := range order.Services {
		serviceByID[order.Services[i].ID] = &order.Services[i]
	}
	type settledPayment struct {
		serviceID uuid.UUID
		pm        model.PaymentMethod
	}
	settled := make([]settledPayment, 0, len(req.Payments))
	for _, sp := range req.Payments {
		svcID, err := uuid.Parse(sp.ServiceID)
		if err != nil {
			return nil, apierror.BadRequest("service_id inválido: %s", sp.ServiceID)
		}
		if _, ok := serviceByID[svcID]; !ok {
			return nil, apierror.NotFound("el servicio %s no pertenece a la orden", sp.ServiceID)
		}
		settled = append(settled, settledPayment{
			serviceID: svcID,
			pm:        model.PaymentMethod{OrderID: order.ID, Type: sp.Type, Amount: sp.Amount},
		})
	}

	newPayments := make([]model.PaymentMethod, 0, len(settled))
	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		for i := range settled {
			pm := settled[i].pm
			if err := s.orders.CreatePaymentMethodTx(tx, &pm); err != nil {
				return apierror.Internal("error registrando pago", err)
			}
			newPayments = append(newPayments, pm)

			// A paid service settles unless it was already annulled.
			svc := serviceByID[settled[i].serviceID]
			if svc.Status == model.ServiceInProgress {
				if err := s.orders.UpdateServiceStatusTx(tx, svc.ID, model.ServiceCompleted); err != nil {
					return apierror.Internal("error actualizando servicio", err)
				}
				svc.Status = model.ServiceCompleted
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, apierror.From(txErr)
	}

	// Best-effort cash posting for the new payments, same policy as creation.
	s.poster.PostIncome(ctx, order, newPayments)

	// Re-evaluate status on fresh state.
	hydrated, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, apierror.Internal("error recargando la orden", err)
	}
	if err := s.reevaluateStatus(ctx, p, hydrated); err != nil {
		return nil, apierror.From(err)
	}
	return s.orderToResponse(ctx, hydrated, false), nil
}

// reevaluateStatus applies the completion decision, in precedence order:
// all services annulled → CANCELLED; fully paid with all (or at least one,
// when mixed) services completed → COMPLETED; otherwise stay PENDING.
func (s *orderService) reevaluateStatus(ctx context.Context, p auth.Principal, order *model.Order) error {
	totalOwed := decimal.Zero
	for _, svc := range order.Services {
		totalOwed = totalOwed.Add(svc.Price)
	}
	for _, line := range order.Products {
		totalOwed = totalOwed.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	totalPaid := decimal.Zero
	for _, pm := range order.PaymentMethods {
		totalPaid = totalPaid.Add(pm.Amount)
	}

	allAnnulled := len(order.Services) > 0
	allCompleted := len(order.Services) > 0
	anyCompleted := false
	for _, svc := range order.Services {
		if svc.Status != model.ServiceAnnullated {
			allAnnulled = false
		}
		if svc.Status != model.ServiceCompleted {
			allCompleted = false
		} else {
			anyCompleted = true
		}
	}

	var newStatus string
	switch {
	case allAnnulled:
		newStatus = model.OrderCancelled
	case totalPaid.GreaterThanOrEqual(totalOwed) && (allCompleted || anyCompleted):
		newStatus = model.OrderCompleted
	default:
		return nil // remains PENDING: partial/incremental payment
	}

	return runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		order.Status = newStatus
		if newStatus == model.OrderCancelled {
			now := time.Now()
			canceledBy := p.UserID
			order.CanceledAt = &now
			order.CanceledByID = &canceledBy
		}
		return s.orders.UpdateTx(tx, order)
	})
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *orderService) Get(ctx context.Context, p auth.Principal, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, apierror.NotFound("orden %s no encontrada", orderID)
	}
	if order.CashSession == nil || order.CashSession.Store == nil ||
		order.CashSession.Store.TenantID != p.TenantID {
		return nil, apierror.NotFound("orden %s no encontrada", orderID)
	}
	if err := s.scope.AuthorizeSession(ctx, order.CashSession, p); err != nil {
		return nil, apierror.From(err)
	}
	return s.orderToResponse(ctx, order, true), nil
}

func (s *orderService) ListByStore(ctx context.Context, p auth.Principal, storeID uuid.UUID, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, apierror.NotFound("tienda %s no encontrada", storeID)
	}
	if err := s.scope.AuthorizeStore(ctx, store, p); err != nil {
		return nil, apierror.From(err)
	}
	normalizeOrderFilter(&filter)
	orders, total, err := s.orders.ListByStore(ctx, storeID, filter)
	if err != nil {
		return nil, apierror.Internal("error listando órdenes", err)
	}
	return s.buildList(ctx, orders, total, filter), nil
}

func (s *orderService) ListByTenant(ctx context.Context, p auth.Principal, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if !p.IsAdmin() {
		return nil, apierror.Forbidden("solo un administrador puede listar todas las órdenes")
	}
	normalizeOrderFilter(&filter)
	orders, total, err := s.orders.ListByTenant(ctx, p.TenantID, filter)
	if err != nil {
		return nil, apierror.Internal("error listando órdenes", err)
	}
	return s.buildList(ctx, orders, total, filter), nil
}

func normalizeOrderFilter(filter *dto.OrderFilter) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
}

func (s *orderService) buildList(ctx context.Context, orders []model.Order, total int64, filter dto.OrderFilter) *dto.OrderListResponse {
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *s.orderToResponse(ctx, &orders[i], false))
	}
	return &dto.OrderListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func (s *orderService) orderToResponse(_ context.Context, o *model.Order, withReceipt bool) *dto.OrderResponse {
	products := make([]dto.ProductLineResponse, 0, len(o.Products))
	for _, l := range o.Products {
		name := ""
		if l.StoreProduct != nil {
			name = productName(l.StoreProduct)
		}
		products = append(products, dto.ProductLineResponse{
			StoreProductID: l.StoreProductID.String(),
			Product:        name,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			Subtotal:       l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}

	services := make([]dto.ServiceLineResponse, 0, len(o.Services))
	for _, svc := range o.Services {
		services = append(services, dto.ServiceLineResponse{
			ID:     svc.ID.String(),
			Name:   svc.Name,
			Type:   svc.Type,
			Price:  svc.Price,
			Status: svc.Status,
		})
	}

	payments := make([]dto.PaymentResponse, 0, len(o.PaymentMethods))
	totalPaid := decimal.Zero
	for _, pm := range o.PaymentMethods {
		payments = append(payments, dto.PaymentResponse{Type: pm.Type, Amount: pm.Amount})
		totalPaid = totalPaid.Add(pm.Amount)
	}

	resp := &dto.OrderResponse{
		ID:              o.ID.String(),
		OrderNumber:     o.OrderNumber,
		CashSessionID:   o.CashSessionID.String(),
		ClientID:        o.ClientID.String(),
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		IsPriceModified: o.IsPriceModified,
		Products:        products,
		Services:        services,
		PaymentMethods:  payments,
		CreatedAt:       formatTime(o.CreatedAt),
	}
	if o.CanceledAt != nil {
		t := formatTime(*o.CanceledAt)
		resp.CanceledAt = &t
	}

	if withReceipt {
		receipt := &dto.ReceiptInfo{AmountPaid: totalPaid}
		if o.CashSession != nil && o.CashSession.Store != nil {
			store := o.CashSession.Store
			receipt.StoreName = store.Name
			if store.Address != nil {
				receipt.StoreAddress = *store.Address
			}
			if store.Phone != nil {
				receipt.StorePhone = *store.Phone
			}
		}
		if o.User != nil {
			receipt.SellerName = o.User.Name
		}
		if o.Client != nil {
			receipt.ClientName = o.Client.Name
			receipt.ClientDNI = o.Client.DNI
		}
		resp.Receipt = receipt
	}
	return resp
}
