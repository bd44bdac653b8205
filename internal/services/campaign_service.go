package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Snorakx/loyalty-admin-panel/internal/auth"
	"github.com/Snorakx/loyalty-admin-panel/internal/dto"
	"github.com/Snorakx/loyalty-admin-panel/internal/models"
	"github.com/Snorakx/loyalty-admin-panel/internal/push"
	"github.com/Snorakx/loyalty-admin-panel/internal/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUnknownSegment = errors.New("unknown segment type")

	// ErrTestSendNotConfirmed guards the diagnostic all-subscribers
	// send behind an explicit confirmation flag.
	ErrTestSendNotConfirmed = errors.New("test segment targets every subscriber and requires explicit confirmation")
)

// SegmentGateway is the push-provider surface the orchestrator needs.
type SegmentGateway interface {
	SendNotification(ctx context.Context, title, message string, tenantID uuid.UUID, segment push.Segment) (*push.SendResult, error)
	PreviewSegmentCount(ctx context.Context, tenantID uuid.UUID, segment push.Segment) (int, error)
	GetCampaignStats(ctx context.Context, notificationID string) push.CampaignStats
	SupportsSegment(segment push.Segment) bool
}

// CampaignStore persists and reads campaign history.
type CampaignStore interface {
	Create(campaign *models.Campaign) error
	List(scope tenant.Scope) ([]models.Campaign, error)
	FindByNotificationID(notificationID string) (*models.Campaign, error)
}

// CampaignService coordinates segment preview, send, and history
// persistence. Sending is externally irreversible, so history is
// recorded best-effort after the fact and never rolls a send back.
type CampaignService struct {
	store   CampaignStore
	gateway SegmentGateway
}

func NewCampaignService(store CampaignStore, gateway SegmentGateway) *CampaignService {
	return &CampaignService{store: store, gateway: gateway}
}

// SendCampaign validates the request, delegates to the gateway and
// persists a history record. A zero-recipient preview never blocks a
// send: tag propagation at the provider can lag, so the estimate may
// be stale.
func (s *CampaignService) SendCampaign(ctx context.Context, user *auth.User, req *dto.SendCampaignRequest) (*dto.SendCampaignResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, &ValidationError{Field: "message", Message: "message is required"}
	}

	segment := push.Segment(req.SegmentType)
	if !segment.Valid() {
		return nil, ErrUnknownSegment
	}
	if segment.Diagnostic() {
		if !user.IsSuperAdmin() {
			return nil, ErrPermissionDenied
		}
		if !req.ConfirmTestSend {
			return nil, ErrTestSendNotConfirmed
		}
	}

	if scope := tenant.Resolve(user, &req.TenantID); scope.Empty() {
		return nil, ErrTenantNotFound
	}

	result, err := s.gateway.SendNotification(ctx, req.Title, req.Message, req.TenantID, segment)
	if err != nil {
		slog.Error("campaign send failed", "tenant_id", req.TenantID.String(), "error", err)
		return nil, err
	}

	now := time.Now()
	campaign := models.Campaign{
		ID:             uuid.New(),
		TenantID:       req.TenantID,
		NotificationID: result.NotificationID,
		Name:           req.Name,
		MessageTitle:   req.Title,
		MessageBody:    req.Message,
		SegmentType:    string(segment),
		TargetCount:    result.Recipients,
		SentAt:         &now,
		CreatedBy:      &user.ID,
	}
	if err := s.store.Create(&campaign); err != nil {
		// The notification is already out; losing the history row is
		// a warning, not a failure.
		slog.Warn("failed to persist campaign history after successful send",
			"tenant_id", req.TenantID.String(), "notification_id", result.NotificationID, "error", err)
	}

	return &dto.SendCampaignResponse{
		Success:        true,
		CampaignID:     campaign.ID,
		NotificationID: result.NotificationID,
		Recipients:     result.Recipients,
	}, nil
}

func (s *CampaignService) ListCampaigns(user *auth.User, requested *uuid.UUID) ([]models.Campaign, error) {
	scope := tenant.Resolve(user, requested)
	if scope.Empty() {
		return []models.Campaign{}, nil
	}
	return s.store.List(scope)
}

// PreviewSegment forwards to the gateway. Unsupported segments report
// 0 recipients with the capability flag cleared so the UI can say
// "estimate unavailable" instead of "empty audience".
func (s *CampaignService) PreviewSegment(ctx context.Context, user *auth.User, tenantID uuid.UUID, segmentType string) (*dto.PreviewSegmentResponse, error) {
	segment := push.Segment(segmentType)
	if !segment.Valid() {
		return nil, ErrUnknownSegment
	}
	if scope := tenant.Resolve(user, &tenantID); scope.Empty() {
		return nil, ErrTenantNotFound
	}

	supported := s.gateway.SupportsSegment(segment)
	count := 0
	if supported {
		var err error
		count, err = s.gateway.PreviewSegmentCount(ctx, tenantID, segment)
		if err != nil {
			// Telemetry degrades; the view keeps rendering.
			slog.Warn("segment preview failed", "tenant_id", tenantID.String(), "error", err)
			count = 0
		}
	}

	return &dto.PreviewSegmentResponse{
		SegmentType: segmentType,
		Supported:   supported,
		Recipients:  count,
	}, nil
}

// GetCampaignStats resolves the notification back to its campaign row
// and checks the caller's scope before asking the provider. Unknown
// ids and out-of-scope campaigns both report zeroed counters.
func (s *CampaignService) GetCampaignStats(ctx context.Context, user *auth.User, notificationID string) push.CampaignStats {
	campaign, err := s.store.FindByNotificationID(notificationID)
	if err != nil {
		slog.Warn("campaign lookup for stats failed", "notification_id", notificationID, "error", err)
		return push.CampaignStats{}
	}
	if campaign == nil {
		return push.CampaignStats{}
	}
	if scope := tenant.Resolve(user, &campaign.TenantID); scope.Empty() {
		return push.CampaignStats{}
	}
	return s.gateway.GetCampaignStats(ctx, notificationID)
}

// CampaignRepository is the gorm-backed CampaignStore.
type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(campaign *models.Campaign) error {
	return r.db.Create(campaign).Error
}

func (r *CampaignRepository) List(scope tenant.Scope) ([]models.Campaign, error) {
	campaigns := []models.Campaign{}
	if err := scope.Apply(r.db.Order("created_at DESC")).Find(&campaigns).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch campaigns: %w", err)
	}
	return campaigns, nil
}

func (r *CampaignRepository) FindByNotificationID(notificationID string) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.Where("notification_id = ?", notificationID).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch campaign: %w", err)
	}
	return &campaign, nil
}

// CancelFailureStore durably records preview notifications whose
// cancel failed, for manual operator intervention.
type CancelFailureStore struct {
	db *gorm.DB
}

func NewCancelFailureStore(db *gorm.DB) *CancelFailureStore {
	return &CancelFailureStore{db: db}
}

func (s *CancelFailureStore) RecordCancelFailure(f push.CancelFailure) {
	rec := models.PreviewCancelFailure{
		ID:             uuid.New(),
		TenantID:       f.TenantID,
		NotificationID: f.NotificationID,
		SegmentType:    string(f.Segment),
		ScheduledFor:   f.ScheduledFor,
	}
	if f.Err != nil {
		rec.Error = f.Err.Error()
	}
	if err := s.db.Create(&rec).Error; err != nil {
		slog.Error("failed to record preview cancel failure",
			"notification_id", f.NotificationID, "error", err)
	}
}
