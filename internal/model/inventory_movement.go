package model

import (
	"time"

	"github.com/google/uuid"
)

// Inventory movement types. SALE and RETURN are posted automatically by the
// order flow; the rest come from manual stock operations.
const (
	MovementIncoming = "INCOMING"
	MovementOutgoing = "OUTGOING"
	MovementSale     = "SALE"
	MovementReturn   = "RETURN"
	MovementAdjust   = "ADJUST"
)

// InventoryMovement is an immutable audit record created alongside every
// stock mutation. Quantity sign encodes direction: negative = stock decrease.
// Movements are NEVER modified or deleted.
type InventoryMovement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type           string    `gorm:"type:varchar(20);not null"`
	Quantity       int       `gorm:"not null"`
	Description    string
	UserID         uuid.UUID  `gorm:"type:uuid;not null"`
	OrderID        *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt      time.Time

	StoreProduct *StoreProduct `gorm:"foreignKey:StoreProductID"`
}
