package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Snorakx/loyalty-admin-panel/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	method string
	path   string
	body   map[string]interface{}
}

type fakeSink struct {
	mu       sync.Mutex
	failures []CancelFailure
}

func (s *fakeSink) RecordCancelFailure(f CancelFailure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, f)
}

// newTestClient spins up a provider stub and a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc, sink CancelFailureSink) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		OneSignalAppID:   "test-app",
		OneSignalAPIKey:  "test-key",
		OneSignalBaseURL: srv.URL,
		PushTimeout:      5 * time.Second,
	}
	return NewClient(cfg, sink), srv
}

func captureHandler(calls *[]recordedCall, mu *sync.Mutex, respond func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		mu.Lock()
		*calls = append(*calls, recordedCall{method: r.Method, path: r.URL.Path, body: body})
		mu.Unlock()
		respond(w, r)
	}
}

func TestSendNotification_TenantFilter(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	client, _ := newTestClient(t, captureHandler(&calls, &mu, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Basic test-key", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "n-1", "recipients": 42})
	}), nil)

	tenantID := uuid.New()
	result, err := client.SendNotification(context.Background(), "Title", "Body", tenantID, SegmentAllCustomers)
	require.NoError(t, err)
	assert.Equal(t, "n-1", result.NotificationID)
	assert.Equal(t, 42, result.Recipients)

	require.Len(t, calls, 1)
	call := calls[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/notifications", call.path)
	assert.Equal(t, "test-app", call.body["app_id"])

	filters, ok := call.body["filters"].([]interface{})
	require.True(t, ok, "expected a filters array")
	require.Len(t, filters, 1)
	filter := filters[0].(map[string]interface{})
	assert.Equal(t, "tag", filter["field"])
	assert.Equal(t, "tenant_ids", filter["key"])
	assert.Equal(t, "contains", filter["relation"])
	assert.Equal(t, tenantID.String(), filter["value"])

	// A targeted send must not also carry provider segments.
	_, hasSegments := call.body["included_segments"]
	assert.False(t, hasSegments)
}

func TestSendNotification_TestSegmentHasNoTenantFilter(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	client, _ := newTestClient(t, captureHandler(&calls, &mu, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "n-2", "recipients": 9000})
	}), nil)

	_, err := client.SendNotification(context.Background(), "Test", "Test", uuid.New(), SegmentTestAllSubscribers)
	require.NoError(t, err)

	require.Len(t, calls, 1)
	body := calls[0].body
	assert.Equal(t, []interface{}{"All"}, body["included_segments"])
	_, hasFilters := body["filters"]
	assert.False(t, hasFilters, "test sends must not be tenant-filtered")
}

func TestSendNotification_ProviderError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":["app_id not found"]}`))
	}, nil)

	_, err := client.SendNotification(context.Background(), "Title", "Body", uuid.New(), SegmentAllCustomers)
	require.Error(t, err)

	var pErr *ProviderError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, http.StatusBadRequest, pErr.StatusCode)
	assert.Contains(t, pErr.Payload, "app_id not found")
}

func TestPreviewSegmentCount_SchedulesAndCancels(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	client, _ := newTestClient(t, captureHandler(&calls, &mu, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "n-3", "recipients": 17})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}), nil)

	count, err := client.PreviewSegmentCount(context.Background(), uuid.New(), SegmentAllCustomers)
	require.NoError(t, err)
	assert.Equal(t, 17, count)

	require.Len(t, calls, 2, "expected exactly one create and one cancel")
	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.NotEmpty(t, calls[0].body["send_after"], "preview must be scheduled, not sent")
	assert.Equal(t, http.MethodDelete, calls[1].method)
	assert.Equal(t, "/notifications/n-3", calls[1].path)
}

func TestPreviewSegmentCount_UnsupportedSegmentSkipsProvider(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	client, _ := newTestClient(t, captureHandler(&calls, &mu, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected provider call")
	}), nil)

	count, err := client.PreviewSegmentCount(context.Background(), uuid.New(), SegmentActive)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, calls)
}

func TestPreviewSegmentCount_CancelFailureIsRecorded(t *testing.T) {
	sink := &fakeSink{}
	tenantID := uuid.New()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "n-4", "recipients": 5})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}, sink)

	// The estimate survives the failed cancel.
	count, err := client.PreviewSegmentCount(context.Background(), tenantID, SegmentAllCustomers)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	require.Len(t, sink.failures, 1)
	failure := sink.failures[0]
	assert.Equal(t, tenantID, failure.TenantID)
	assert.Equal(t, "n-4", failure.NotificationID)
	assert.Equal(t, SegmentAllCustomers, failure.Segment)
	assert.Error(t, failure.Err)
}

func TestGetCampaignStats(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notifications/n-5", r.URL.Path)
		assert.Equal(t, "test-app", r.URL.Query().Get("app_id"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"successful": 100, "converted": 40, "failed": 3, "remaining": 7,
		})
	}, nil)

	stats := client.GetCampaignStats(context.Background(), "n-5")
	assert.Equal(t, CampaignStats{Sent: 100, Delivered: 40, Failed: 3, Remaining: 7}, stats)
}

func TestGetCampaignStats_ZeroesOnError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, nil)

	assert.Equal(t, CampaignStats{}, client.GetCampaignStats(context.Background(), "missing"))
}

func TestSupportsSegment(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, nil)

	assert.True(t, client.SupportsSegment(SegmentAllCustomers))
	assert.True(t, client.SupportsSegment(SegmentTestAllSubscribers))
	assert.True(t, client.SupportsSegment(""))

	assert.False(t, client.SupportsSegment(SegmentActive))
	assert.False(t, client.SupportsSegment(SegmentInactive))
	assert.False(t, client.SupportsSegment(SegmentNearReward))
}
