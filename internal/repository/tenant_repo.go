package repository

import (
	"context"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
	// ListFeatures returns the enabled feature names for the tenant.
	ListFeatures(ctx context.Context, tenantID uuid.UUID) ([]string, error)
}

type tenantRepo struct{ db *gorm.DB }

func NewTenantRepository(db *gorm.DB) TenantRepository { return &tenantRepo{db: db} }

func (r *tenantRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	var t model.Tenant
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *tenantRepo) ListFeatures(ctx context.Context, tenantID uuid.UUID) ([]string, error) {
	var features []string
	err := r.db.WithContext(ctx).Model(&model.TenantFeature{}).
		Where("tenant_id = ? AND enabled = true", tenantID).
		Pluck("feature", &features).Error
	return features, err
}
