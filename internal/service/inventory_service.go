package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/apierror"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/auth"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/dto"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryService owns every stock mutation. Sales and returns run inside
// the order transaction (Tx methods); manual adjustments open their own.
// Each mutation appends an immutable InventoryMovement audit record.
type InventoryService interface {
	// DebitSaleTx decrements stock for a sold line and appends a SALE
	// movement with negative quantity. The caller holds the row lock.
	DebitSaleTx(tx *gorm.DB, userID uuid.UUID, storeProductID uuid.UUID, quantity int, orderID uuid.UUID, orderNumber string) error
	// CreditReturnTx restores stock for a cancelled line and appends a
	// RETURN movement with positive quantity.
	CreditReturnTx(tx *gorm.DB, userID uuid.UUID, storeProductID uuid.UUID, quantity int, orderID uuid.UUID, orderNumber string) error
	// Adjust registers a manual INCOMING/OUTGOING/ADJUST movement.
	Adjust(ctx context.Context, p auth.Principal, req dto.AdjustStockRequest) (*dto.InventoryMovementResponse, error)
	ListMovements(ctx context.Context, p auth.Principal, filter dto.InventoryMovementFilter) (*dto.InventoryMovementListResponse, error)
	// ListAlerts returns the tenant's store products at or below threshold.
	ListAlerts(ctx context.Context, p auth.Principal) ([]dto.StockAlertResponse, error)
}

type inventoryService struct {
	products  repository.StoreProductRepository
	movements repository.InventoryMovementRepository
	scope     *Scope
}

func NewInventoryService(products repository.StoreProductRepository, movements repository.InventoryMovementRepository, scope *Scope) InventoryService {
	return &inventoryService{products: products, movements: movements, scope: scope}
}

func (s *inventoryService) DebitSaleTx(tx *gorm.DB, userID uuid.UUID, storeProductID uuid.UUID, quantity int, orderID uuid.UUID, orderNumber string) error {
	if err := s.products.AdjustStockTx(tx, storeProductID, -quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The guard clause refused the write: stock would go negative.
			return apierror.BadRequest("stock insuficiente para el producto %s", storeProductID)
		}
		return apierror.Internal("error descontando stock", err)
	}
	ref := orderID
	mov := &model.InventoryMovement{
		StoreProductID: storeProductID,
		Type:           model.MovementSale,
		Quantity:       -quantity,
		Description:    fmt.Sprintf("Venta %s", orderNumber),
		UserID:         userID,
		OrderID:        &ref,
	}
	if err := s.movements.CreateTx(tx, mov); err != nil {
		return apierror.Internal("error registrando movimiento de inventario", err)
	}
	return nil
}

func (s *inventoryService) CreditReturnTx(tx *gorm.DB, userID uuid.UUID, storeProductID uuid.UUID, quantity int, orderID uuid.UUID, orderNumber string) error {
	if err := s.products.AdjustStockTx(tx, storeProductID, quantity); err != nil {
		return apierror.Internal("error restaurando stock", err)
	}
	ref := orderID
	mov := &model.InventoryMovement{
		StoreProductID: storeProductID,
		Type:           model.MovementReturn,
		Quantity:       quantity,
		Description:    fmt.Sprintf("Anulación venta %s", orderNumber),
		UserID:         userID,
		OrderID:        &ref,
	}
	if err := s.movements.CreateTx(tx, mov); err != nil {
		return apierror.Internal("error registrando movimiento de inventario", err)
	}
	return nil
}

func (s *inventoryService) Adjust(ctx context.Context, p auth.Principal, req dto.AdjustStockRequest) (*dto.InventoryMovementResponse, error) {
	spID, err := uuid.Parse(req.StoreProductID)
	if err != nil {
		return nil, apierror.BadRequest("store_product_id inválido")
	}

	sp, err := s.products.FindByID(ctx, spID)
	if err != nil {
		return nil, apierror.NotFound("producto %s no encontrado", req.StoreProductID)
	}
	if sp.Store == nil || sp.Store.TenantID != p.TenantID {
		return nil, apierror.NotFound("producto %s no encontrado", req.StoreProductID)
	}
	if err := s.scope.AuthorizeStore(ctx, sp.Store, p); err != nil {
		return nil, err
	}

	delta := req.Quantity
	if req.Type == model.MovementOutgoing && delta > 0 {
		delta = -delta
	}

	var created *model.InventoryMovement
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.AdjustStockTx(tx, spID, delta); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.BadRequest("el ajuste dejaría el stock en negativo")
			}
			return apierror.Internal("error ajustando stock", err)
		}
		created = &model.InventoryMovement{
			StoreProductID: spID,
			Type:           req.Type,
			Quantity:       delta,
			Description:    req.Description,
			UserID:         p.UserID,
		}
		return s.movements.CreateTx(tx, created)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := movementToResponse(created, productName(sp))
	return &resp, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, p auth.Principal, filter dto.InventoryMovementFilter) (*dto.InventoryMovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movs, total, err := s.movements.List(ctx, p.TenantID, filter)
	if err != nil {
		return nil, apierror.Internal("error listando movimientos", err)
	}
	items := make([]dto.InventoryMovementResponse, 0, len(movs))
	for i := range movs {
		name := ""
		if movs[i].StoreProduct != nil {
			name = productName(movs[i].StoreProduct)
		}
		items = append(items, movementToResponse(&movs[i], name))
	}
	return &dto.InventoryMovementListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *inventoryService) ListAlerts(ctx context.Context, p auth.Principal) ([]dto.StockAlertResponse, error) {
	sps, err := s.products.ListLowStock(ctx, p.TenantID)
	if err != nil {
		return nil, apierror.Internal("error consultando alertas de stock", err)
	}
	alerts := make([]dto.StockAlertResponse, 0, len(sps))
	for i := range sps {
		sp := &sps[i]
		alerts = append(alerts, dto.StockAlertResponse{
			StoreProductID: sp.ID.String(),
			Product:        productName(sp),
			StoreID:        sp.StoreID.String(),
			Stock:          sp.Stock,
			StockThreshold: sp.StockThreshold,
			Price:          sp.Price,
		})
	}
	return alerts, nil
}

func productName(sp *model.StoreProduct) string {
	if sp.Product != nil {
		return sp.Product.Name
	}
	return ""
}

func movementToResponse(m *model.InventoryMovement, product string) dto.InventoryMovementResponse {
	resp := dto.InventoryMovementResponse{
		ID:             m.ID.String(),
		StoreProductID: m.StoreProductID.String(),
		Product:        product,
		Type:           m.Type,
		Quantity:       m.Quantity,
		Description:    m.Description,
		CreatedAt:      formatTime(m.CreatedAt),
	}
	if m.OrderID != nil {
		id := m.OrderID.String()
		resp.OrderID = &id
	}
	return resp
}
