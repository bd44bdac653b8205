package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign records a push-notification send. Rows are immutable after
// creation; there is no edit or resend.
type Campaign struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	NotificationID string     `gorm:"size:100;index" json:"notification_id"`
	Name           string     `gorm:"size:255;not null" json:"name"`
	MessageTitle   string     `gorm:"size:255;not null" json:"message_title"`
	MessageBody    string     `gorm:"type:text;not null" json:"message_body"`
	SegmentType    string     `gorm:"size:50;not null" json:"segment_type"`
	TargetCount    int        `json:"target_count"`
	SentAt         *time.Time `json:"sent_at"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
}
