// Package push talks to the OneSignal REST API: campaign sends,
// audience estimation and delivery stats. Tenant isolation rides on
// the reserved tenant_ids user tag, a comma-separated set of tenant
// UUIDs maintained on each subscriber by the consumer app.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Snorakx/loyalty-admin-panel/internal/config"
	"github.com/google/uuid"
)

// Preview notifications are scheduled this far ahead, safely below
// the provider's ~30 day schedule horizon.
const previewScheduleDelay = 7 * 24 * time.Hour

// ProviderError is a non-2xx response from the provider with the raw
// body preserved for diagnostics.
type ProviderError struct {
	StatusCode int
	Payload    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("push provider error (status %d): %s", e.StatusCode, e.Payload)
}

// SendResult is the provider's acknowledgement of a created
// notification.
type SendResult struct {
	NotificationID string
	Recipients     int
}

// CampaignStats are the delivery counters of a sent notification.
type CampaignStats struct {
	Sent      int `json:"sent"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
	Remaining int `json:"remaining"`
}

// CancelFailure describes a scheduled preview notification that could
// not be cancelled and needs manual operator intervention.
type CancelFailure struct {
	TenantID       uuid.UUID
	NotificationID string
	Segment        Segment
	ScheduledFor   time.Time
	Err            error
}

// CancelFailureSink durably records cancel failures. May be nil.
type CancelFailureSink interface {
	RecordCancelFailure(f CancelFailure)
}

type Client struct {
	appID      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	failures   CancelFailureSink
	now        func() time.Time
}

func NewClient(cfg *config.Config, failures CancelFailureSink) *Client {
	return &Client{
		appID:      cfg.OneSignalAppID,
		apiKey:     cfg.OneSignalAPIKey,
		baseURL:    cfg.OneSignalBaseURL,
		httpClient: &http.Client{Timeout: cfg.PushTimeout},
		failures:   failures,
		now:        time.Now,
	}
}

// SupportsSegment reports whether the gateway can actually target the
// segment. The behavioral segments (active/inactive/near_reward) are
// defined in the selector but not implemented here; they degrade to
// the base tenant filter and previews for them are unavailable.
func (c *Client) SupportsSegment(segment Segment) bool {
	switch segment {
	case SegmentAllCustomers, SegmentTestAllSubscribers, "":
		return true
	}
	return false
}

// BuildFilters maps a segment onto the provider filter language. All
// supported segments reduce to a single tenant_ids containment check;
// unsupported ones fall back to the same filter with a warning.
func (c *Client) BuildFilters(tenantID uuid.UUID, segment Segment) []Filter {
	base := []Filter{{Field: "tag", Key: "tenant_ids", Relation: "contains", Value: tenantID.String()}}
	if !c.SupportsSegment(segment) {
		slog.Warn("advanced segment not implemented, falling back to base tenant filter",
			"segment", string(segment), "tenant_id", tenantID.String())
	}
	return base
}

type notificationRequest struct {
	AppID            string            `json:"app_id"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
	IOSBadgeType     string            `json:"ios_badgeType,omitempty"`
	IOSBadgeCount    int               `json:"ios_badgeCount,omitempty"`
	Filters          []Filter          `json:"filters,omitempty"`
	IncludedSegments []string          `json:"included_segments,omitempty"`
	SendAfter        string            `json:"send_after,omitempty"`
}

type notificationResponse struct {
	ID         string `json:"id"`
	Recipients int    `json:"recipients"`
}

// SendNotification delivers a push to the tenant's audience. The
// diagnostic test segment targets the provider's All segment with no
// tenant filter at all.
func (c *Client) SendNotification(ctx context.Context, title, message string, tenantID uuid.UUID, segment Segment) (*SendResult, error) {
	req := notificationRequest{
		AppID:         c.appID,
		Headings:      map[string]string{"en": title},
		Contents:      map[string]string{"en": message},
		IOSBadgeType:  "Increase",
		IOSBadgeCount: 1,
	}

	if segment.Diagnostic() {
		req.IncludedSegments = []string{"All"}
		slog.Warn("test mode: sending to ALL subscribers with no tenant filtering",
			"tenant_id", tenantID.String())
	} else {
		req.Filters = c.BuildFilters(tenantID, segment)
	}

	var resp notificationResponse
	if err := c.post(ctx, "/notifications", req, &resp); err != nil {
		return nil, err
	}

	slog.Info("notification sent", "notification_id", resp.ID,
		"recipients", resp.Recipients, "tenant_id", tenantID.String())
	return &SendResult{NotificationID: resp.ID, Recipients: resp.Recipients}, nil
}

// PreviewSegmentCount estimates the audience of a segment without
// delivering anything: it schedules a notification a week out, reads
// the provider's recipient estimate from the response, then cancels
// the schedule. A failed cancel does not fail the preview (the
// estimate is already in hand) but is recorded durably, because the
// scheduled notification will otherwise really deliver.
//
// Unsupported segments return 0 immediately with no provider calls.
func (c *Client) PreviewSegmentCount(ctx context.Context, tenantID uuid.UUID, segment Segment) (int, error) {
	if !c.SupportsSegment(segment) {
		slog.Info("preview unavailable for segment", "segment", string(segment))
		return 0, nil
	}

	scheduledFor := c.now().Add(previewScheduleDelay)
	req := notificationRequest{
		AppID:     c.appID,
		Headings:  map[string]string{"en": "Preview"},
		Contents:  map[string]string{"en": "Preview"},
		SendAfter: scheduledFor.UTC().Format(time.RFC3339),
	}
	if segment.Diagnostic() {
		req.IncludedSegments = []string{"All"}
	} else {
		req.Filters = c.BuildFilters(tenantID, segment)
	}

	var resp notificationResponse
	if err := c.post(ctx, "/notifications", req, &resp); err != nil {
		slog.Warn("failed to get segment count", "error", err, "tenant_id", tenantID.String())
		return 0, err
	}

	if resp.ID != "" {
		if err := c.cancelScheduled(ctx, resp.ID); err != nil {
			slog.Warn("could not cancel preview notification, scheduled send is still live",
				"notification_id", resp.ID, "scheduled_for", scheduledFor, "error", err)
			if c.failures != nil {
				c.failures.RecordCancelFailure(CancelFailure{
					TenantID:       tenantID,
					NotificationID: resp.ID,
					Segment:        segment,
					ScheduledFor:   scheduledFor,
					Err:            err,
				})
			}
		}
	}

	if resp.Recipients == 0 {
		slog.Warn("preview returned 0 recipients, check subscriber tenant_ids tags",
			"tenant_id", tenantID.String())
	}
	return resp.Recipients, nil
}

// GetCampaignStats fetches delivery counters. Telemetry degrades to a
// zeroed struct on any error; the surrounding view keeps rendering.
func (c *Client) GetCampaignStats(ctx context.Context, notificationID string) CampaignStats {
	url := fmt.Sprintf("%s/notifications/%s?app_id=%s", c.baseURL, notificationID, c.appID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return CampaignStats{}
	}
	httpReq.Header.Set("Authorization", "Basic "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		slog.Warn("failed to fetch campaign stats", "notification_id", notificationID, "error", err)
		return CampaignStats{}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		slog.Warn("campaign stats request rejected", "notification_id", notificationID, "status", httpResp.StatusCode)
		return CampaignStats{}
	}

	var data struct {
		Successful int `json:"successful"`
		Converted  int `json:"converted"`
		Failed     int `json:"failed"`
		Remaining  int `json:"remaining"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&data); err != nil {
		return CampaignStats{}
	}

	return CampaignStats{
		Sent:      data.Successful,
		Delivered: data.Converted,
		Failed:    data.Failed,
		Remaining: data.Remaining,
	}
}

func (c *Client) cancelScheduled(ctx context.Context, notificationID string) error {
	url := fmt.Sprintf("%s/notifications/%s?app_id=%s", c.baseURL, notificationID, c.appID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create cancel request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Basic "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to cancel notification: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 300 {
		body, _ := io.ReadAll(httpResp.Body)
		return &ProviderError{StatusCode: httpResp.StatusCode, Payload: string(body)}
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call push provider: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("failed to read provider response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return &ProviderError{StatusCode: httpResp.StatusCode, Payload: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode provider response: %w", err)
		}
	}
	return nil
}
