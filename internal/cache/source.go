package cache

import (
	"context"
	"sync"
	"time"

	"crypto-screenerv1/internal/metrics"
	"crypto-screenerv1/internal/model"
)

// Source composes a cache backend with the upstream CandleSource: serve
// from cache while fresh, otherwise fetch and replace the entry.
//
// Read-check-insert is atomic per key: concurrent workers asking for the
// same (symbol, timeframe, limit) share one upstream fetch instead of
// duplicating it.
type Source struct {
	upstream model.CandleSource
	cache    model.CandleCache
	prom     *metrics.Metrics // optional

	mu       sync.Mutex
	inflight map[model.CacheKey]*call
}

type call struct {
	done    chan struct{}
	candles []model.Candle
	err     error
}

// NewSource wraps upstream with the given cache backend.
func NewSource(upstream model.CandleSource, cache model.CandleCache, prom *metrics.Metrics) *Source {
	return &Source{
		upstream: upstream,
		cache:    cache,
		prom:     prom,
		inflight: make(map[model.CacheKey]*call),
	}
}

// Fetch implements model.CandleSource.
func (s *Source) Fetch(ctx context.Context, symbol string, tf model.Timeframe, limit int) ([]model.Candle, error) {
	key := model.CacheKey{Symbol: symbol, Timeframe: tf, Limit: limit}

	if candles, _, ok := s.cache.Get(ctx, key); ok {
		if s.prom != nil {
			s.prom.CacheHits.Inc()
		}
		return candles, nil
	}
	if s.prom != nil {
		s.prom.CacheMisses.Inc()
	}

	// Join an in-flight fetch for the same key, or become its owner.
	s.mu.Lock()
	if c, exists := s.inflight[key]; exists {
		s.mu.Unlock()
		select {
		case <-c.done:
			return c.candles, c.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	c := &call{done: make(chan struct{})}
	s.inflight[key] = c
	s.mu.Unlock()

	start := time.Now()
	c.candles, c.err = s.upstream.Fetch(ctx, symbol, tf, limit)
	if s.prom != nil {
		s.prom.FetchesTotal.Inc()
		s.prom.FetchDur.Observe(time.Since(start).Seconds())
		if c.err != nil {
			s.prom.FetchErrors.Inc()
		}
	}
	if c.err == nil {
		s.cache.Put(ctx, key, c.candles)
	}

	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
	close(c.done)

	return c.candles, c.err
}
