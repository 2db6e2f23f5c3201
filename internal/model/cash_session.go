package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cash session states. OPEN → CLOSED is terminal.
const (
	SessionOpen   = "OPEN"
	SessionClosed = "CLOSED"
)

// Cash movement types.
const (
	CashIncome  = "INCOME"
	CashExpense = "EXPENSE"
)

// CashSession is a bounded period during which a store's till is open and can
// record cash movements. Orders and cash movements reference exactly one
// session, and all mutating operations assert Status == OPEN before writing.
type CashSession struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	OpenedByID    uuid.UUID        `gorm:"type:uuid;not null"`
	OpeningAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	ClosingAmount *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status        string           `gorm:"type:varchar(20);not null;default:'OPEN'"`
	OpenedAt      time.Time
	ClosedAt      *time.Time

	Store     *Store         `gorm:"foreignKey:StoreID"`
	Movements []CashMovement `gorm:"foreignKey:CashSessionID"`
}

// IsOpen reports whether the session can still take orders and movements.
func (s *CashSession) IsOpen() bool { return s.Status == SessionOpen }

// CashMovement is a single recorded cash in/out event against a session.
// Movements are immutable — refunds create inverse EXPENSE entries, nothing
// is ever updated or deleted.
type CashMovement struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CashSessionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type          string          `gorm:"type:varchar(10);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentType   string          `gorm:"type:varchar(20);not null;default:'EFECTIVO'"`
	Description   string          `gorm:"not null"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null"`
	OrderID       *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt     time.Time
}
