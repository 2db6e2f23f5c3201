// Package auth defines the request principal: the immutable identity object
// the HTTP layer builds once per request and every service receives.
package auth

import "github.com/google/uuid"

// Role is the system-wide role carried in the JWT.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Feature is an optional tenant-level capability toggle.
type Feature string

// FeatureFastService lets a services-only order complete immediately when
// fully paid at creation time.
const FeatureFastService Feature = "FAST_SERVICE"

// Principal identifies the authenticated caller. Built once at the boundary
// from validated JWT claims and passed by value — never mutated downstream.
type Principal struct {
	UserID         uuid.UUID
	Email          string
	Role           Role
	TenantID       uuid.UUID
	TenantFeatures map[Feature]struct{}
}

// IsAdmin reports whether the principal bypasses store-membership checks.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// HasFeature reports whether the principal's tenant has the feature enabled.
func (p Principal) HasFeature(f Feature) bool {
	_, ok := p.TenantFeatures[f]
	return ok
}
