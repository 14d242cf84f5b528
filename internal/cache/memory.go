// Package cache provides time-bounded candle caching keyed by
// (symbol, timeframe, limit). A cached series is served while its age is
// below the TTL; after that a fresh fetch replaces the entry. The cache is
// the only mitigation against repeated calls hitting a rate-limited
// upstream — there is no retry logic anywhere.
package cache

import (
	"context"
	"sync"
	"time"

	"crypto-screenerv1/internal/model"
)

// Memory is an in-process CandleCache. Safe for concurrent use by the
// screener worker pool.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[model.CacheKey]memEntry

	// now is injectable for TTL tests.
	now func() time.Time
}

type memEntry struct {
	candles   []model.Candle
	fetchedAt time.Time
}

// NewMemory creates an in-memory cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[model.CacheKey]memEntry, 128),
		now:     time.Now,
	}
}

// Get returns the cached series if its age is below the TTL.
func (m *Memory) Get(_ context.Context, key model.CacheKey) ([]model.Candle, time.Time, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, time.Time{}, false
	}
	if m.now().Sub(e.fetchedAt) >= m.ttl {
		return nil, time.Time{}, false
	}
	return e.candles, e.fetchedAt, true
}

// Put stores a freshly fetched series, replacing any prior entry.
func (m *Memory) Put(_ context.Context, key model.CacheKey, candles []model.Candle) {
	m.mu.Lock()
	m.entries[key] = memEntry{candles: candles, fetchedAt: m.now()}
	m.mu.Unlock()
}

// Close implements model.CandleCache; nothing to release.
func (m *Memory) Close() error { return nil }

// Len returns the number of live (possibly expired) entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
