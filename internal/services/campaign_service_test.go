package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Snorakx/loyalty-admin-panel/internal/auth"
	"github.com/Snorakx/loyalty-admin-panel/internal/dto"
	"github.com/Snorakx/loyalty-admin-panel/internal/models"
	"github.com/Snorakx/loyalty-admin-panel/internal/push"
	"github.com/Snorakx/loyalty-admin-panel/internal/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	sends      int
	previews   int
	statsCalls int
	sendErr    error
	result     push.SendResult
	count      int
	countErr   error
	supported  map[push.Segment]bool
}

func (g *fakeGateway) SendNotification(ctx context.Context, title, message string, tenantID uuid.UUID, segment push.Segment) (*push.SendResult, error) {
	g.sends++
	if g.sendErr != nil {
		return nil, g.sendErr
	}
	r := g.result
	return &r, nil
}

func (g *fakeGateway) PreviewSegmentCount(ctx context.Context, tenantID uuid.UUID, segment push.Segment) (int, error) {
	g.previews++
	return g.count, g.countErr
}

func (g *fakeGateway) GetCampaignStats(ctx context.Context, notificationID string) push.CampaignStats {
	g.statsCalls++
	return push.CampaignStats{Sent: 1}
}

func (g *fakeGateway) SupportsSegment(segment push.Segment) bool {
	if g.supported == nil {
		return true
	}
	return g.supported[segment]
}

type fakeCampaignStore struct {
	created   []models.Campaign
	createErr error
	campaigns []models.Campaign
}

func (s *fakeCampaignStore) Create(campaign *models.Campaign) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, *campaign)
	return nil
}

func (s *fakeCampaignStore) List(scope tenant.Scope) ([]models.Campaign, error) {
	return s.campaigns, nil
}

func (s *fakeCampaignStore) FindByNotificationID(notificationID string) (*models.Campaign, error) {
	for i := range s.campaigns {
		if s.campaigns[i].NotificationID == notificationID {
			return &s.campaigns[i], nil
		}
	}
	return nil, nil
}

func superAdmin() *auth.User {
	return &auth.User{ID: uuid.New(), Role: auth.RoleSuperAdmin}
}

func ownerOf(tenantID uuid.UUID) *auth.User {
	return &auth.User{ID: uuid.New(), Role: auth.RoleBusinessOwner, TenantID: &tenantID}
}

func TestSendCampaign_ValidatesInput(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewCampaignService(&fakeCampaignStore{}, gw)
	tenantID := uuid.New()

	_, err := svc.SendCampaign(context.Background(), ownerOf(tenantID), &dto.SendCampaignRequest{
		Title: "   ", Message: "Body", TenantID: tenantID,
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "title", vErr.Field)

	_, err = svc.SendCampaign(context.Background(), ownerOf(tenantID), &dto.SendCampaignRequest{
		Title: "Title", Message: "", TenantID: tenantID,
	})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "message", vErr.Field)

	_, err = svc.SendCampaign(context.Background(), ownerOf(tenantID), &dto.SendCampaignRequest{
		Title: "Title", Message: "Body", TenantID: tenantID, SegmentType: "everyone_ever",
	})
	assert.ErrorIs(t, err, ErrUnknownSegment)

	assert.Zero(t, gw.sends, "no send may happen on invalid input")
}

func TestSendCampaign_CrossTenantDenied(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewCampaignService(&fakeCampaignStore{}, gw)

	_, err := svc.SendCampaign(context.Background(), ownerOf(uuid.New()), &dto.SendCampaignRequest{
		Title: "Title", Message: "Body", TenantID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrTenantNotFound)
	assert.Zero(t, gw.sends)
}

func TestSendCampaign_TestSegmentGuards(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewCampaignService(&fakeCampaignStore{}, gw)
	tenantID := uuid.New()

	// Non-admins never get the diagnostic segment.
	_, err := svc.SendCampaign(context.Background(), ownerOf(tenantID), &dto.SendCampaignRequest{
		Title: "T", Message: "B", TenantID: tenantID,
		SegmentType: string(push.SegmentTestAllSubscribers), ConfirmTestSend: true,
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Admins must confirm explicitly.
	_, err = svc.SendCampaign(context.Background(), superAdmin(), &dto.SendCampaignRequest{
		Title: "T", Message: "B", TenantID: tenantID,
		SegmentType: string(push.SegmentTestAllSubscribers),
	})
	assert.ErrorIs(t, err, ErrTestSendNotConfirmed)

	assert.Zero(t, gw.sends)
}

func TestSendCampaign_GatewayErrorPropagates(t *testing.T) {
	gw := &fakeGateway{sendErr: &push.ProviderError{StatusCode: 400, Payload: "bad filters"}}
	svc := NewCampaignService(&fakeCampaignStore{}, gw)
	tenantID := uuid.New()

	_, err := svc.SendCampaign(context.Background(), ownerOf(tenantID), &dto.SendCampaignRequest{
		Title: "Title", Message: "Body", TenantID: tenantID,
	})
	var pErr *push.ProviderError
	assert.ErrorAs(t, err, &pErr)
}

func TestPreviewSegment_UnsupportedDegrades(t *testing.T) {
	gw := &fakeGateway{supported: map[push.Segment]bool{push.SegmentAllCustomers: true}}
	svc := NewCampaignService(&fakeCampaignStore{}, gw)
	tenantID := uuid.New()

	resp, err := svc.PreviewSegment(context.Background(), ownerOf(tenantID), tenantID, string(push.SegmentNearReward))
	require.NoError(t, err)
	assert.False(t, resp.Supported)
	assert.Zero(t, resp.Recipients)
	assert.Zero(t, gw.previews, "unsupported segments must not hit the provider")
}

func TestPreviewSegment_Supported(t *testing.T) {
	gw := &fakeGateway{count: 23}
	svc := NewCampaignService(&fakeCampaignStore{}, gw)
	tenantID := uuid.New()

	resp, err := svc.PreviewSegment(context.Background(), ownerOf(tenantID), tenantID, string(push.SegmentAllCustomers))
	require.NoError(t, err)
	assert.True(t, resp.Supported)
	assert.Equal(t, 23, resp.Recipients)
}

func TestPreviewSegment_ProviderErrorDegradesToZero(t *testing.T) {
	gw := &fakeGateway{countErr: errors.New("provider down")}
	svc := NewCampaignService(&fakeCampaignStore{}, gw)
	tenantID := uuid.New()

	resp, err := svc.PreviewSegment(context.Background(), ownerOf(tenantID), tenantID, string(push.SegmentAllCustomers))
	require.NoError(t, err, "preview failures degrade, they do not propagate")
	assert.True(t, resp.Supported)
	assert.Zero(t, resp.Recipients)
}

func TestPreviewSegment_UnknownSegmentRejected(t *testing.T) {
	svc := NewCampaignService(&fakeCampaignStore{}, &fakeGateway{})
	tenantID := uuid.New()

	_, err := svc.PreviewSegment(context.Background(), ownerOf(tenantID), tenantID, "vip_whales")
	assert.ErrorIs(t, err, ErrUnknownSegment)
}

func TestPreviewSegment_CrossTenantDenied(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewCampaignService(&fakeCampaignStore{}, gw)

	_, err := svc.PreviewSegment(context.Background(), ownerOf(uuid.New()), uuid.New(), string(push.SegmentAllCustomers))
	assert.ErrorIs(t, err, ErrTenantNotFound)
	assert.Zero(t, gw.previews)
}

func TestSendCampaign_PersistsHistory(t *testing.T) {
	gw := &fakeGateway{result: push.SendResult{NotificationID: "notif-7", Recipients: 42}}
	store := &fakeCampaignStore{}
	svc := NewCampaignService(store, gw)
	tenantID := uuid.New()

	resp, err := svc.SendCampaign(context.Background(), ownerOf(tenantID), &dto.SendCampaignRequest{
		Title: "Title", Message: "Body", TenantID: tenantID,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	require.Len(t, store.created, 1)
	saved := store.created[0]
	assert.Equal(t, "notif-7", saved.NotificationID)
	assert.Equal(t, tenantID, saved.TenantID)
	assert.Equal(t, 42, saved.TargetCount)
	assert.NotNil(t, saved.SentAt)
}

func TestSendCampaign_HistoryFailureDoesNotFailSend(t *testing.T) {
	gw := &fakeGateway{result: push.SendResult{NotificationID: "notif-9", Recipients: 12}}
	store := &fakeCampaignStore{createErr: errors.New("connection reset")}
	svc := NewCampaignService(store, gw)
	tenantID := uuid.New()

	// The notification is already out when history is written; a
	// failed insert must not turn the send into an error.
	resp, err := svc.SendCampaign(context.Background(), ownerOf(tenantID), &dto.SendCampaignRequest{
		Title: "Title", Message: "Body", TenantID: tenantID,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "notif-9", resp.NotificationID)
	assert.Equal(t, 12, resp.Recipients)
	assert.Equal(t, 1, gw.sends)
}

func TestGetCampaignStats_ScopedToCampaignTenant(t *testing.T) {
	tenantID := uuid.New()
	store := &fakeCampaignStore{campaigns: []models.Campaign{
		{ID: uuid.New(), TenantID: tenantID, NotificationID: "notif-1"},
	}}
	gw := &fakeGateway{}
	svc := NewCampaignService(store, gw)
	ctx := context.Background()

	stats := svc.GetCampaignStats(ctx, ownerOf(tenantID), "notif-1")
	assert.Equal(t, push.CampaignStats{Sent: 1}, stats)

	stats = svc.GetCampaignStats(ctx, superAdmin(), "notif-1")
	assert.Equal(t, push.CampaignStats{Sent: 1}, stats)
	assert.Equal(t, 2, gw.statsCalls)

	// A different tenant's owner gets zeroed counters and the
	// provider is never asked.
	stats = svc.GetCampaignStats(ctx, ownerOf(uuid.New()), "notif-1")
	assert.Zero(t, stats)
	assert.Equal(t, 2, gw.statsCalls)

	stats = svc.GetCampaignStats(ctx, ownerOf(tenantID), "unknown")
	assert.Zero(t, stats)
	assert.Equal(t, 2, gw.statsCalls)
}
