package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole assigns one of the four panel roles to an identity.
// TenantID is set for tenant-affiliated roles (business_owner,
// manager) and nil for super_admin and unaffiliated users.
type UserRole struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Role      string     `gorm:"size:30;not null" json:"role"`
	TenantID  *uuid.UUID `gorm:"type:uuid;index" json:"tenant_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}
