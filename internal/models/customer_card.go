package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomerCard tracks one customer's stamp progress within a tenant.
// Written by the consumer app; the panel only reads it for statistics.
type CustomerCard struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID        uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CustomerID      uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	StampsCollected int       `gorm:"default:0" json:"stamps_collected"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
