package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_EmptyMisses(t *testing.T) {
	s := NewSnapshot[int](time.Minute)

	v, ok := s.Get()
	assert.False(t, ok)
	assert.Zero(t, v)

	_, ok = s.Peek()
	assert.False(t, ok)
}

func TestSnapshot_FreshHit(t *testing.T) {
	s := NewSnapshot[string](time.Minute)
	s.Set("hello")

	v, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, "hello", v)
}

func TestSnapshot_ExpiresAfterTTL(t *testing.T) {
	now := time.Now()
	s := NewSnapshot[string](time.Minute)
	s.SetClock(func() time.Time { return now })
	s.Set("hello")

	now = now.Add(59 * time.Second)
	_, ok := s.Get()
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = s.Get()
	assert.False(t, ok)
}

func TestSnapshot_InvalidateKeepsData(t *testing.T) {
	s := NewSnapshot[string](time.Minute)
	s.Set("hello")
	s.Invalidate()

	_, ok := s.Get()
	assert.False(t, ok)

	// The stale value is still readable until the next Set.
	v, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, "hello", v)
}

func TestSnapshot_SetAfterInvalidateIsFresh(t *testing.T) {
	s := NewSnapshot[int](time.Minute)
	s.Set(1)
	s.Invalidate()
	s.Set(2)

	v, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestGroup_InvalidateAll(t *testing.T) {
	a := NewSnapshot[int](time.Minute)
	b := NewSnapshot[string](time.Minute)
	a.Set(1)
	b.Set("x")

	var g Group
	g.Register(a, b)
	g.InvalidateAll()

	_, ok := a.Get()
	assert.False(t, ok)
	_, ok = b.Get()
	assert.False(t, ok)
}
