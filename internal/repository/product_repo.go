package repository

import (
	"context"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoreProductRepository is the data access contract for store-priced
// products and their stock. Stock mutations always happen inside the caller's
// transaction with the row locked, so two concurrent sales against the same
// product serialize on the row instead of both passing the stock check.
type StoreProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.StoreProduct, error)
	// FindByIDsForUpdateTx loads the rows with SELECT ... FOR UPDATE.
	FindByIDsForUpdateTx(tx *gorm.DB, ids []uuid.UUID) ([]model.StoreProduct, error)
	// AdjustStockTx applies delta to stock; the guard clause keeps stock
	// from ever dropping below zero even under concurrent writers.
	AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta int) error
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]model.StoreProduct, error)
	// ListLowStock returns active store products at or below their threshold
	// across all of the tenant's stores.
	ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]model.StoreProduct, error)
	DB() *gorm.DB
}

type storeProductRepo struct{ db *gorm.DB }

func NewStoreProductRepository(db *gorm.DB) StoreProductRepository {
	return &storeProductRepo{db: db}
}

func (r *storeProductRepo) DB() *gorm.DB { return r.db }

func (r *storeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StoreProduct, error) {
	var sp model.StoreProduct
	err := r.db.WithContext(ctx).Preload("Product").Preload("Store").First(&sp, id).Error
	return &sp, err
}

func (r *storeProductRepo) FindByIDsForUpdateTx(tx *gorm.DB, ids []uuid.UUID) ([]model.StoreProduct, error) {
	var sps []model.StoreProduct
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Find(&sps).Error
	if err != nil {
		return nil, err
	}
	// Preload cannot be combined with FOR UPDATE on the joined rows; attach
	// catalog data in a second read.
	for i := range sps {
		if err := tx.Preload("Product").Preload("Store").First(&sps[i], sps[i].ID).Error; err != nil {
			return nil, err
		}
	}
	return sps, nil
}

func (r *storeProductRepo) AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	res := tx.Model(&model.StoreProduct{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *storeProductRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]model.StoreProduct, error) {
	var sps []model.StoreProduct
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("store_id = ? AND active = true", storeID).
		Find(&sps).Error
	return sps, err
}

func (r *storeProductRepo) ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]model.StoreProduct, error) {
	var sps []model.StoreProduct
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Store").
		Joins("JOIN stores ON stores.id = store_products.store_id").
		Where("stores.tenant_id = ? AND store_products.active = true", tenantID).
		Where("store_products.stock <= store_products.stock_threshold").
		Find(&sps).Error
	return sps, err
}
