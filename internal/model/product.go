package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the tenant-level catalog entry. Pricing and stock live on
// StoreProduct — the same product can be sold by several stores at
// different prices.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StoreProduct is the sellable unit: a catalog product priced per store,
// carrying the store's stock. Stock is mutated only through the inventory
// service (sales, returns, manual adjustments) and must never go below 0.
type StoreProduct struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_store_product,priority:1"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_store_product,priority:2"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock          int             `gorm:"not null;default:0"`
	StockThreshold int             `gorm:"not null;default:5"`
	Active         bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Store   *Store   `gorm:"foreignKey:StoreID"`
	Product *Product `gorm:"foreignKey:ProductID"`
}
