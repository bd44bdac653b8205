package models

import (
	"time"

	"github.com/google/uuid"
)

// PreviewCancelFailure records a scheduled preview notification whose
// cancel request failed. Unless an operator deletes it at the
// provider, the notification will actually deliver at its scheduled
// time, so each row is a pending manual intervention.
type PreviewCancelFailure struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID       uuid.UUID  `gorm:"type:uuid;index" json:"tenant_id"`
	NotificationID string     `gorm:"size:100;not null" json:"notification_id"`
	SegmentType    string     `gorm:"size:50" json:"segment_type"`
	ScheduledFor   time.Time  `json:"scheduled_for"`
	Error          string     `gorm:"type:text" json:"error"`
	ResolvedAt     *time.Time `json:"resolved_at"`
	CreatedAt      time.Time  `json:"created_at"`
}
