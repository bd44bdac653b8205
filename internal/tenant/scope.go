package tenant

import (
	"github.com/Snorakx/loyalty-admin-panel/internal/auth"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope is the effective tenant visibility of a request. Exactly one
// of the three states holds: all tenants, a single tenant, or none.
type Scope struct {
	all      bool
	tenantID uuid.UUID
}

func ScopeAll() Scope                { return Scope{all: true} }
func ScopeTenant(id uuid.UUID) Scope { return Scope{tenantID: id} }
func ScopeNone() Scope               { return Scope{} }

func (s Scope) All() bool   { return s.all }
func (s Scope) Empty() bool { return !s.all && s.tenantID == uuid.Nil }

// TenantID returns the single tenant of the scope, or uuid.Nil when
// the scope is all or empty.
func (s Scope) TenantID() uuid.UUID { return s.tenantID }

// Resolve narrows a request to the tenants the user may touch.
// Super admins get everything, or the one tenant they asked for.
// Affiliated roles get exactly their own tenant; asking for a
// different one yields an empty scope rather than an error, so
// cross-tenant probing cannot distinguish "forbidden" from "absent".
// Unaffiliated non-admin users always get an empty scope.
func Resolve(user *auth.User, requested *uuid.UUID) Scope {
	if user == nil {
		return ScopeNone()
	}
	if user.IsSuperAdmin() {
		if requested != nil {
			return ScopeTenant(*requested)
		}
		return ScopeAll()
	}
	if user.TenantID == nil {
		return ScopeNone()
	}
	if requested != nil && *requested != *user.TenantID {
		return ScopeNone()
	}
	return ScopeTenant(*user.TenantID)
}

// Apply returns a GORM scope that narrows a query to the resolved
// tenants. Empty scopes match nothing; the row-level security of the
// store is still the backstop.
func (s Scope) Apply(db *gorm.DB) *gorm.DB {
	if s.all {
		return db
	}
	if s.Empty() {
		return db.Where("1 = 0")
	}
	return db.Where("tenant_id = ?", s.tenantID)
}

// ForTenant is a GORM scope filtering by a single tenant id, for
// queries that already know their tenant.
func ForTenant(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}
