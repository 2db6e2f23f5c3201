package model

import (
	"time"

	"github.com/google/uuid"
)

// Store is a physical or logical sales location under a tenant. It owns the
// store-priced products and the cash sessions opened against its till.
type Store struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	Address   *string
	Phone     *string `gorm:"type:varchar(20)"`
	Active    bool    `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Tenant *Tenant `gorm:"foreignKey:TenantID"`
}

// StoreUser is the many-to-many membership relation between users and stores.
// ADMIN role bypasses membership checks entirely.
type StoreUser struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_store_user,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_store_user,priority:2"`
	CreatedAt time.Time
}
