package repository

import (
	"context"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/dto"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.Order) error
	// FindByID loads the full order graph: lines, services, payments, client,
	// session with its store.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	UpdateTx(tx *gorm.DB, o *model.Order) error
	UpdateServiceStatusTx(tx *gorm.DB, serviceID uuid.UUID, status string) error
	CreatePaymentMethodTx(tx *gorm.DB, pm *model.PaymentMethod) error
	ListByStore(ctx context.Context, storeID uuid.UUID, filter dto.OrderFilter) ([]model.Order, int64, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, filter dto.OrderFilter) ([]model.Order, int64, error)
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) preload(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Products.StoreProduct.Product").
		Preload("Services").
		Preload("PaymentMethods").
		Preload("Client").
		Preload("User").
		Preload("CashSession.Store")
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.preload(r.db.WithContext(ctx)).First(&o, id).Error
	return &o, err
}

func (r *orderRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	// Lock the order row first, then hydrate the graph.
	var locked model.Order
	if err := tx.Raw("SELECT * FROM orders WHERE id = ? FOR UPDATE", id).Scan(&locked).Error; err != nil {
		return nil, err
	}
	if locked.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	var o model.Order
	if err := r.preload(tx).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) UpdateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Omit("Products", "Services", "PaymentMethods", "Client", "User", "CashSession").
		Save(o).Error
}

func (r *orderRepo) UpdateServiceStatusTx(tx *gorm.DB, serviceID uuid.UUID, status string) error {
	return tx.Model(&model.Service{}).Where("id = ?", serviceID).
		Update("status", status).Error
}

func (r *orderRepo) CreatePaymentMethodTx(tx *gorm.DB, pm *model.PaymentMethod) error {
	return tx.Create(pm).Error
}

func (r *orderRepo) ListByStore(ctx context.Context, storeID uuid.UUID, filter dto.OrderFilter) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Joins("JOIN cash_sessions ON cash_sessions.id = orders.cash_session_id").
		Where("cash_sessions.store_id = ?", storeID)
	return r.list(q, filter)
}

func (r *orderRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, filter dto.OrderFilter) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Joins("JOIN cash_sessions ON cash_sessions.id = orders.cash_session_id").
		Joins("JOIN stores ON stores.id = cash_sessions.store_id").
		Where("stores.tenant_id = ?", tenantID)
	return r.list(q, filter)
}

func (r *orderRepo) list(q *gorm.DB, filter dto.OrderFilter) ([]model.Order, int64, error) {
	if filter.Status != "" {
		q = q.Where("orders.status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	offset := (filter.Page - 1) * filter.Limit
	err := r.preload(q).
		Order("orders.created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error
	return orders, total, err
}
