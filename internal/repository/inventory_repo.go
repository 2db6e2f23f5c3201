package repository

import (
	"context"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/dto"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryMovementRepository appends and lists the immutable stock audit
// records. There is no Update/Delete.
type InventoryMovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.InventoryMovement) error
	List(ctx context.Context, tenantID uuid.UUID, filter dto.InventoryMovementFilter) ([]model.InventoryMovement, int64, error)
}

type inventoryMovementRepo struct{ db *gorm.DB }

func NewInventoryMovementRepository(db *gorm.DB) InventoryMovementRepository {
	return &inventoryMovementRepo{db: db}
}

func (r *inventoryMovementRepo) CreateTx(tx *gorm.DB, m *model.InventoryMovement) error {
	return tx.Create(m).Error
}

func (r *inventoryMovementRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.InventoryMovementFilter) ([]model.InventoryMovement, int64, error) {
	var movs []model.InventoryMovement
	var total int64

	q := r.db.WithContext(ctx).Model(&model.InventoryMovement{}).
		Joins("JOIN store_products ON store_products.id = inventory_movements.store_product_id").
		Joins("JOIN stores ON stores.id = store_products.store_id").
		Where("stores.tenant_id = ?", tenantID)

	if filter.StoreProductID != "" {
		q = q.Where("inventory_movements.store_product_id = ?", filter.StoreProductID)
	}
	if filter.Type != "" {
		q = q.Where("inventory_movements.type = ?", filter.Type)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("StoreProduct.Product").
		Order("inventory_movements.created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&movs).Error
	return movs, total, err
}
