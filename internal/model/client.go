package model

import (
	"time"

	"github.com/google/uuid"
)

// GenericClientDNI is the reserved identifier for the shared anonymous
// walk-in customer. One such client exists per tenant and is reused.
const GenericClientDNI = "00000000"

// Client is a tenant-scoped customer. Within a tenant an email maps to at
// most one client, and DNI is the primary dedup key: re-registering an
// existing DNI refreshes the mutable fields instead of duplicating the row.
type Client struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tenant_dni,priority:1"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null"`
	DNI         string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_tenant_dni,priority:2"`
	Name        string    `gorm:"not null"`
	Email       *string   `gorm:"index"`
	Phone       *string   `gorm:"type:varchar(20)"`
	Address     *string
	RUC         *string `gorm:"type:varchar(20)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsGeneric reports whether this is the tenant's shared walk-in client.
func (c *Client) IsGeneric() bool { return c.DNI == GenericClientDNI }
