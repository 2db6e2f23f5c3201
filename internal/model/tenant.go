package model

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is the isolation boundary: every other entity is reachable only
// through a tenant-scoped path. No cross-tenant reference is ever permitted.
type Tenant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	RUC       *string   `gorm:"type:varchar(20)"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Stores   []Store         `gorm:"foreignKey:TenantID"`
	Features []TenantFeature `gorm:"foreignKey:TenantID"`
}

// TenantFeature enables an optional capability (e.g. FAST_SERVICE) per tenant.
type TenantFeature struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tenant_feature,priority:1"`
	Feature  string    `gorm:"type:varchar(40);not null;uniqueIndex:idx_tenant_feature,priority:2"`
	Enabled  bool      `gorm:"not null;default:true"`
}
