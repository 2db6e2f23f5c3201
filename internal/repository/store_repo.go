package repository

import (
	"context"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreRepository exposes store lookups, the user-store membership relation,
// and the tenant-relative store sequence used for order numbering.
type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.Store, error)
	// IsUserMember reports whether the user holds a membership record for
	// the store. ADMIN callers never reach this check.
	IsUserMember(ctx context.Context, userID, storeID uuid.UUID) (bool, error)
	// SequenceNumber returns the 1-based position of the store among its
	// tenant's stores ordered by creation time.
	SequenceNumber(ctx context.Context, store *model.Store) (int, error)
}

type storeRepo struct{ db *gorm.DB }

func NewStoreRepository(db *gorm.DB) StoreRepository { return &storeRepo{db: db} }

func (r *storeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	var s model.Store
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *storeRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&stores).Error
	return stores, err
}

func (r *storeRepo) IsUserMember(ctx context.Context, userID, storeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.StoreUser{}).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		Count(&count).Error
	return count > 0, err
}

func (r *storeRepo) SequenceNumber(ctx context.Context, store *model.Store) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Store{}).
		Where("tenant_id = ? AND created_at < ?", store.TenantID, store.CreatedAt).
		Count(&count).Error
	return int(count) + 1, err
}
