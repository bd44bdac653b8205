package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Snorakx/loyalty-admin-panel/internal/models"
	"github.com/Snorakx/loyalty-admin-panel/internal/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendPercent(t *testing.T) {
	// No baseline, no activity.
	assert.Equal(t, 0, TrendPercent(0, 0))
	// Activity appearing out of nothing is a flat 100% increase.
	assert.Equal(t, 100, TrendPercent(5, 0))

	assert.Equal(t, 50, TrendPercent(15, 10))
	assert.Equal(t, -50, TrendPercent(5, 10))
	assert.Equal(t, 0, TrendPercent(10, 10))
	assert.Equal(t, -100, TrendPercent(0, 10))

	// Rounds to the nearest whole percent, halves toward positive
	// infinity: 199 against 200 is -0.5%, which lands on 0.
	assert.Equal(t, 33, TrendPercent(4, 3))
	assert.Equal(t, -33, TrendPercent(2, 3))
	assert.Equal(t, 0, TrendPercent(199, 200))
	assert.Equal(t, 1, TrendPercent(201, 200))
}

func TestEngagement(t *testing.T) {
	// No active cards means no engagement, even with orphan stamps.
	assert.Equal(t, 0.0, Engagement(0, 0))
	assert.Equal(t, 0.0, Engagement(42, 0))

	assert.Equal(t, 2.5, Engagement(5, 2))
	assert.Equal(t, 3.0, Engagement(9, 3))

	// One decimal place.
	assert.Equal(t, 3.3, Engagement(10, 3))
	assert.Equal(t, 1.7, Engagement(5, 3))
}

func TestComposeStats_EngagementTrendUsesUnroundedRatios(t *testing.T) {
	// Baseline ratio 1/24 rounds to 0.0 for display, but the trend
	// still compares against the raw value: 0.5 vs 0.0417 is an
	// eleven-fold increase, not a de-novo 100%.
	stats := composeStats(DashboardCounters{
		Stamps:              12,
		ActiveCards:         24,
		BaselineStamps:      1,
		BaselineActiveCards: 24,
	})

	assert.Equal(t, 0.5, stats.Engagement)
	assert.Equal(t, 1100, stats.EngagementTrend)
}

func TestComposeStats_Trends(t *testing.T) {
	stats := composeStats(DashboardCounters{
		Customers:           30,
		BaselineCustomers:   20,
		Stamps:              100,
		BaselineStamps:      200,
		StampsToday:         7,
		ActiveCards:         10,
		BaselineActiveCards: 10,
	})

	assert.Equal(t, 30, stats.TotalCustomers)
	assert.Equal(t, 7, stats.StampsToday)
	assert.Equal(t, 50, stats.CustomersTrend)
	assert.Equal(t, -50, stats.StampsTrend)
	assert.Equal(t, 0, stats.CardsTrend)
	assert.Equal(t, 10.0, stats.Engagement)
	assert.Equal(t, -50, stats.EngagementTrend)
}

type fakeDashboardStore struct {
	mu      sync.Mutex
	fetches int
}

func (f *fakeDashboardStore) count() {
	f.mu.Lock()
	f.fetches++
	f.mu.Unlock()
}

func (f *fakeDashboardStore) FetchTenants(ctx context.Context, scope tenant.Scope) ([]models.Tenant, error) {
	f.count()
	return []models.Tenant{}, nil
}

func (f *fakeDashboardStore) FetchLocations(ctx context.Context, scope tenant.Scope) ([]models.Location, error) {
	f.count()
	return []models.Location{}, nil
}

func (f *fakeDashboardStore) FetchPrograms(ctx context.Context, scope tenant.Scope) ([]models.LoyaltyProgram, error) {
	f.count()
	return []models.LoyaltyProgram{}, nil
}

func (f *fakeDashboardStore) FetchCounters(ctx context.Context, scope tenant.Scope, now time.Time) (DashboardCounters, error) {
	f.count()
	return DashboardCounters{Stamps: 4, ActiveCards: 2}, nil
}

func TestGetDashboardData_SecondCallWithinTTLHitsCache(t *testing.T) {
	store := &fakeDashboardStore{}
	svc := NewDashboardService(store)
	ctx := context.Background()

	first, err := svc.GetDashboardData(ctx, superAdmin())
	require.NoError(t, err)
	assert.Equal(t, 4, store.fetches)

	second, err := svc.GetDashboardData(ctx, superAdmin())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 4, store.fetches, "cached call must not touch the store")
}

func TestGetDashboardData_InvalidateForcesRefetch(t *testing.T) {
	store := &fakeDashboardStore{}
	svc := NewDashboardService(store)
	ctx := context.Background()

	_, err := svc.GetDashboardData(ctx, superAdmin())
	require.NoError(t, err)

	svc.InvalidateCache()

	_, err = svc.GetDashboardData(ctx, superAdmin())
	require.NoError(t, err)
	assert.Equal(t, 8, store.fetches)
}

func TestGetDashboardData_EmptyScopeSkipsStore(t *testing.T) {
	store := &fakeDashboardStore{}
	svc := NewDashboardService(store)

	data, err := svc.GetDashboardData(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, data.Tenants)
	assert.Zero(t, data.Stats)
	assert.Equal(t, 0, store.fetches)
}
