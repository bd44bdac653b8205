package dto

import (
	"github.com/google/uuid"
)

type SendCampaignRequest struct {
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	TenantID    uuid.UUID `json:"tenant_id"`
	SegmentType string    `json:"segment_type"`

	// ConfirmTestSend must be set to send with the diagnostic
	// test_all_subscribers segment, which ignores tenant filtering.
	ConfirmTestSend bool `json:"confirm_test_send"`
}

type SendCampaignResponse struct {
	Success        bool      `json:"success"`
	CampaignID     uuid.UUID `json:"campaign_id,omitempty"`
	NotificationID string    `json:"notification_id,omitempty"`
	Recipients     int       `json:"recipients"`
}

type PreviewSegmentResponse struct {
	SegmentType string `json:"segment_type"`
	Supported   bool   `json:"supported"`
	Recipients  int    `json:"recipients"`
}
