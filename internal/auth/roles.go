package auth

import "github.com/google/uuid"

// Role is one of the four panel roles. Anything else is treated as
// unknown and denied everything.
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleBusinessOwner Role = "business_owner"
	RoleManager       Role = "manager"
	RoleViewer        Role = "viewer"
)

// User is the composed session identity: the users row joined with
// its user_roles record. TenantID is nil for super admins and for
// identities with no affiliation.
type User struct {
	ID       uuid.UUID  `json:"id"`
	Email    string     `json:"email"`
	Role     Role       `json:"role"`
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
}

// IsSuperAdmin reports whether the user holds the top-level
// administrative role.
func (u *User) IsSuperAdmin() bool {
	return u != nil && u.Role == RoleSuperAdmin
}
