package models

import (
	"time"

	"github.com/google/uuid"
)

type Stamp struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CardID     uuid.UUID `gorm:"type:uuid;not null;index" json:"card_id"`
	LocationID uuid.UUID `gorm:"type:uuid;index" json:"location_id"`
	StampedAt  time.Time `gorm:"not null;index" json:"stamped_at"`
}
