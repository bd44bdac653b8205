package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Snorakx/loyalty-admin-panel/internal/auth"
	"github.com/Snorakx/loyalty-admin-panel/internal/cache"
	"github.com/Snorakx/loyalty-admin-panel/internal/dto"
	"github.com/Snorakx/loyalty-admin-panel/internal/models"
	"github.com/Snorakx/loyalty-admin-panel/internal/tenant"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// trendBaselineDays is the width and offset of the baseline window:
// metrics are compared against [now-60d, now-30d].
const trendBaselineDays = 30

// DashboardCounters are the raw per-scope counts the stats derive
// from.
type DashboardCounters struct {
	Customers         int
	BaselineCustomers int

	Stamps         int
	BaselineStamps int
	StampsToday    int

	ActiveCards         int
	BaselineActiveCards int
}

// DashboardStore fetches the entity lists and raw counters for a
// scope.
type DashboardStore interface {
	FetchTenants(ctx context.Context, scope tenant.Scope) ([]models.Tenant, error)
	FetchLocations(ctx context.Context, scope tenant.Scope) ([]models.Location, error)
	FetchPrograms(ctx context.Context, scope tenant.Scope) ([]models.LoyaltyProgram, error)
	FetchCounters(ctx context.Context, scope tenant.Scope, now time.Time) (DashboardCounters, error)
}

// DashboardService assembles the tenant-scoped dashboard: entity
// lists plus derived statistics with trend percentages, cached per
// scope with a short TTL.
type DashboardService struct {
	store DashboardStore
	now   func() time.Time
	group cache.Group

	mu    sync.Mutex
	snaps map[string]*cache.Snapshot[dto.DashboardData]
}

func NewDashboardService(store DashboardStore) *DashboardService {
	return &DashboardService{
		store: store,
		now:   time.Now,
		snaps: make(map[string]*cache.Snapshot[dto.DashboardData]),
	}
}

// GetDashboardData returns tenants, locations, loyalty programs and
// stats for the user's scope. The four fetches run concurrently and
// the composed result is cached for two minutes; a fresh cache entry
// short-circuits all fetches.
func (s *DashboardService) GetDashboardData(ctx context.Context, user *auth.User) (dto.DashboardData, error) {
	scope := tenant.Resolve(user, nil)
	if scope.Empty() {
		return dto.DashboardData{
			Tenants:         []models.Tenant{},
			Locations:       []models.Location{},
			LoyaltyPrograms: []models.LoyaltyProgram{},
		}, nil
	}

	snap := s.snapshot(scope)
	if data, ok := snap.Get(); ok {
		return data, nil
	}

	var (
		tenants   []models.Tenant
		locations []models.Location
		programs  []models.LoyaltyProgram
		counters  DashboardCounters
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tenants, err = s.store.FetchTenants(gctx, scope)
		return err
	})
	g.Go(func() error {
		var err error
		locations, err = s.store.FetchLocations(gctx, scope)
		return err
	})
	g.Go(func() error {
		var err error
		programs, err = s.store.FetchPrograms(gctx, scope)
		return err
	})
	g.Go(func() error {
		var err error
		counters, err = s.store.FetchCounters(gctx, scope, s.now())
		return err
	})
	if err := g.Wait(); err != nil {
		return dto.DashboardData{}, fmt.Errorf("failed to fetch dashboard data: %w", err)
	}

	stats := composeStats(counters)
	stats.TotalTenants = len(tenants)
	stats.TotalLocations = len(locations)
	stats.TotalLoyaltyPrograms = len(programs)
	for _, p := range programs {
		if p.Active {
			stats.ActivePrograms++
		}
	}

	data := dto.DashboardData{
		Tenants:         tenants,
		Locations:       locations,
		LoyaltyPrograms: programs,
		Stats:           stats,
	}
	snap.Set(data)

	slog.Debug("dashboard data composed",
		"tenants", len(tenants), "locations", len(locations), "programs", len(programs))
	return data, nil
}

// InvalidateCache resets every cached snapshot's timestamp. Stored
// data stays in place until the next compose overwrites it.
func (s *DashboardService) InvalidateCache() {
	s.group.InvalidateAll()
}

func (s *DashboardService) snapshot(scope tenant.Scope) *cache.Snapshot[dto.DashboardData] {
	key := "all"
	if !scope.All() {
		key = scope.TenantID().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[key]
	if !ok {
		snap = cache.NewSnapshot[dto.DashboardData](cache.TTLDashboard)
		s.snaps[key] = snap
		s.group.Register(snap)
	}
	return snap
}

// composeStats derives the displayed statistics from raw counters.
// The engagement trend compares the unrounded stamps-per-card ratios
// of both windows; only the displayed engagement value is rounded.
func composeStats(c DashboardCounters) dto.DashboardStats {
	currentRatio := engagementRatio(c.Stamps, c.ActiveCards)
	baselineRatio := engagementRatio(c.BaselineStamps, c.BaselineActiveCards)

	return dto.DashboardStats{
		TotalCustomers:  c.Customers,
		TotalStamps:     c.Stamps,
		ActiveCards:     c.ActiveCards,
		StampsToday:     c.StampsToday,
		CustomersTrend:  TrendPercent(c.Customers, c.BaselineCustomers),
		StampsTrend:     TrendPercent(c.Stamps, c.BaselineStamps),
		CardsTrend:      TrendPercent(c.ActiveCards, c.BaselineActiveCards),
		Engagement:      Engagement(c.Stamps, c.ActiveCards),
		EngagementTrend: trendPercentFloat(currentRatio, baselineRatio),
	}
}

// TrendPercent is the percentage change of a metric against its
// baseline. An empty baseline counts as a de-novo 100% increase when
// any current value exists, and 0 otherwise.
func TrendPercent(current, baseline int) int {
	return trendPercentFloat(float64(current), float64(baseline))
}

func trendPercentFloat(current, baseline float64) int {
	if baseline > 0 {
		return int(roundHalfUp((current - baseline) / baseline * 100))
	}
	if current > 0 {
		return 100
	}
	return 0
}

// Engagement is stamps per active card, rounded to one decimal place.
// Zero when there are no active cards, regardless of stamps.
func Engagement(stamps, activeCards int) float64 {
	return roundHalfUp(engagementRatio(stamps, activeCards)*10) / 10
}

func engagementRatio(stamps, activeCards int) float64 {
	if activeCards == 0 {
		return 0
	}
	return float64(stamps) / float64(activeCards)
}

// roundHalfUp rounds halves toward positive infinity, so -0.5 rounds
// to 0 rather than -1.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// DashboardRepository is the gorm-backed DashboardStore.
type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) FetchTenants(ctx context.Context, scope tenant.Scope) ([]models.Tenant, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if !scope.All() {
		q = q.Where("id = ?", scope.TenantID())
	}
	tenants := []models.Tenant{}
	if err := q.Find(&tenants).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tenants: %w", err)
	}
	return tenants, nil
}

func (r *DashboardRepository) FetchLocations(ctx context.Context, scope tenant.Scope) ([]models.Location, error) {
	locations := []models.Location{}
	if err := scope.Apply(r.db.WithContext(ctx).Order("created_at DESC")).Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}
	return locations, nil
}

func (r *DashboardRepository) FetchPrograms(ctx context.Context, scope tenant.Scope) ([]models.LoyaltyProgram, error) {
	programs := []models.LoyaltyProgram{}
	if err := scope.Apply(r.db.WithContext(ctx).Order("created_at DESC")).Find(&programs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch loyalty programs: %w", err)
	}
	return programs, nil
}

// FetchCounters reads the raw counts plus their baseline-window
// counterparts in one pass.
func (r *DashboardRepository) FetchCounters(ctx context.Context, scope tenant.Scope, now time.Time) (DashboardCounters, error) {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowEnd := now.AddDate(0, 0, -trendBaselineDays)
	windowStart := now.AddDate(0, 0, -2*trendBaselineDays)

	db := r.db.WithContext(ctx)

	var customers, baselineCustomers int64
	if err := scope.Apply(db.Model(&models.CustomerCard{})).
		Distinct("customer_id").Count(&customers).Error; err != nil {
		return DashboardCounters{}, fmt.Errorf("failed to count customers: %w", err)
	}
	if err := scope.Apply(db.Model(&models.CustomerCard{})).
		Where("created_at >= ? AND created_at <= ?", windowStart, windowEnd).
		Distinct("customer_id").Count(&baselineCustomers).Error; err != nil {
		return DashboardCounters{}, fmt.Errorf("failed to count baseline customers: %w", err)
	}

	var stamps, baselineStamps, stampsToday int64
	if err := scope.Apply(db.Model(&models.Stamp{})).Count(&stamps).Error; err != nil {
		return DashboardCounters{}, fmt.Errorf("failed to count stamps: %w", err)
	}
	if err := scope.Apply(db.Model(&models.Stamp{})).
		Where("stamped_at >= ? AND stamped_at <= ?", windowStart, windowEnd).
		Count(&baselineStamps).Error; err != nil {
		return DashboardCounters{}, fmt.Errorf("failed to count baseline stamps: %w", err)
	}
	if err := scope.Apply(db.Model(&models.Stamp{})).
		Where("stamped_at >= ?", todayStart).
		Count(&stampsToday).Error; err != nil {
		return DashboardCounters{}, fmt.Errorf("failed to count today's stamps: %w", err)
	}

	var activeCards, baselineActiveCards int64
	if err := scope.Apply(db.Model(&models.CustomerCard{})).
		Where("stamps_collected > 0").Count(&activeCards).Error; err != nil {
		return DashboardCounters{}, fmt.Errorf("failed to count active cards: %w", err)
	}
	if err := scope.Apply(db.Model(&models.CustomerCard{})).
		Where("stamps_collected > 0 AND created_at <= ?", windowEnd).
		Count(&baselineActiveCards).Error; err != nil {
		return DashboardCounters{}, fmt.Errorf("failed to count baseline active cards: %w", err)
	}

	return DashboardCounters{
		Customers:           int(customers),
		BaselineCustomers:   int(baselineCustomers),
		Stamps:              int(stamps),
		BaselineStamps:      int(baselineStamps),
		StampsToday:         int(stampsToday),
		ActiveCards:         int(activeCards),
		BaselineActiveCards: int(baselineActiveCards),
	}, nil
}
