// Package cache provides small in-process TTL snapshot caches for
// composed view data. Invalidation only resets timestamps: stale data
// may still be read through Peek until the next Set overwrites it,
// which is the accepted staleness policy of the panel.
package cache

import (
	"sync"
	"time"
)

// Documented TTLs per cached entity.
const (
	TTLUser              = 5 * time.Minute
	TTLTenant            = 10 * time.Minute
	TTLLocations         = 5 * time.Minute
	TTLDashboard         = 2 * time.Minute
	TTLPendingBusinesses = 1 * time.Minute
)

// Snapshot caches a single composed value with a fixed TTL.
type Snapshot[T any] struct {
	mu        sync.RWMutex
	data      T
	hasData   bool
	timestamp time.Time
	ttl       time.Duration
	now       func() time.Time
}

func NewSnapshot[T any](ttl time.Duration) *Snapshot[T] {
	return &Snapshot[T]{ttl: ttl, now: time.Now}
}

// Get returns the cached value if it is still fresh.
func (s *Snapshot[T]) Get() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasData || s.timestamp.IsZero() || s.now().Sub(s.timestamp) >= s.ttl {
		var zero T
		return zero, false
	}
	return s.data, true
}

// Peek returns the stored value regardless of freshness.
func (s *Snapshot[T]) Peek() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data, s.hasData
}

func (s *Snapshot[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = v
	s.hasData = true
	s.timestamp = s.now()
}

// Invalidate resets the timestamp so the next Get misses. The data
// itself stays in place until overwritten.
func (s *Snapshot[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timestamp = time.Time{}
}

// SetClock overrides the time source. Test hook only.
func (s *Snapshot[T]) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Invalidator is the type-erased view of Snapshot used by Group.
type Invalidator interface {
	Invalidate()
}

// Group tracks snapshots of mixed value types so they can be
// invalidated together (the panel's CLEAR_CACHE action).
type Group struct {
	mu      sync.Mutex
	members []Invalidator
}

func (g *Group) Register(inv ...Invalidator) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.members = append(g.members, inv...)
}

func (g *Group) InvalidateAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, m := range g.members {
		m.Invalidate()
	}
}
