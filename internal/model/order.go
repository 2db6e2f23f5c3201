package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order states. PENDING → COMPLETED | CANCELLED, COMPLETED → CANCELLED.
// Only CANCELLED is truly terminal: a completed order can still be cancelled
// through the refund path, but re-cancellation is rejected.
const (
	OrderPending   = "PENDING"
	OrderCompleted = "COMPLETED"
	OrderCancelled = "CANCELLED"
)

// Service line states.
const (
	ServiceInProgress = "IN_PROGRESS"
	ServiceCompleted  = "COMPLETED"
	ServiceAnnullated = "ANNULLATED"
)

// Payment instrument types. Only EFECTIVO settles through the cash drawer and
// produces cash movements; every other instrument is recorded as a
// PaymentMethod row only.
const (
	PaymentCash     = "EFECTIVO"
	PaymentCard     = "TARJETA"
	PaymentTransfer = "TRANSFERENCIA"
	PaymentYape     = "YAPE"
	PaymentPlin     = "PLIN"
)

// Order is a sale transaction composed of product and/or service lines,
// scoped to a tenant transitively via CashSession → Store.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber     string          `gorm:"uniqueIndex;not null"`
	CashSessionID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null"`
	ClientID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status          string          `gorm:"type:varchar(20);not null"`
	IsPriceModified bool            `gorm:"not null;default:false"`
	CanceledAt      *time.Time
	CanceledByID    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	CashSession    *CashSession    `gorm:"foreignKey:CashSessionID"`
	User           *User           `gorm:"foreignKey:UserID"`
	Client         *Client         `gorm:"foreignKey:ClientID"`
	Products       []OrderProduct  `gorm:"foreignKey:OrderID"`
	Services       []Service       `gorm:"foreignKey:OrderID"`
	PaymentMethods []PaymentMethod `gorm:"foreignKey:OrderID"`
}

// HasServices reports whether any service line exists on the order.
func (o *Order) HasServices() bool { return len(o.Services) > 0 }

// OrderProduct is a product line item with a unit price snapshot taken at
// sale time.
type OrderProduct struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	StoreProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity       int             `gorm:"not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time

	StoreProduct *StoreProduct `gorm:"foreignKey:StoreProductID"`
}

// Service is a service line item (labor, repairs). It carries its own status
// because service work settles after the sale is registered.
type Service struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"not null"`
	Type      *string         `gorm:"type:varchar(40)"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status    string          `gorm:"type:varchar(20);not null;default:'IN_PROGRESS'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaymentMethod is a declared or recorded money instrument attached directly
// to the order (the canonical order-level model).
type PaymentMethod struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type      string          `gorm:"type:varchar(20);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}

// IsCash reports whether this payment settles through the cash drawer.
func (p *PaymentMethod) IsCash() bool { return p.Type == PaymentCash }
