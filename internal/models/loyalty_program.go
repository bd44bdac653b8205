package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoyaltyProgram is a tenant's stamp card definition. The partial
// unique index allows historical inactive programs while enforcing at
// most one active program per tenant.
type LoyaltyProgram struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID          uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_programs_tenant_active,where:active" json:"tenant_id"`
	StampsRequired    int            `gorm:"not null" json:"stamps_required"`
	RewardDescription string         `gorm:"type:text;not null" json:"reward_description"`
	Active            bool           `gorm:"default:true" json:"active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	Tenant            Tenant         `gorm:"foreignKey:TenantID" json:"-"`
}
