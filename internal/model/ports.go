package model

import (
	"context"
	"strconv"
	"time"
)

// ── Port Interfaces ──
// These interfaces decouple the screening pipeline from concrete data-source
// and cache implementations (Binance REST, in-memory, Redis). Each
// implementation satisfies one or more of these interfaces.

// CandleSource fetches an OHLCV series for a symbol/timeframe/limit triple.
type CandleSource interface {
	// Fetch returns exactly limit candles, oldest first.
	// Errors wrap ErrDataUnavailable; the caller decides skip vs abort.
	Fetch(ctx context.Context, symbol string, tf Timeframe, limit int) ([]Candle, error)
}

// CandleCache stores fetched candle series with time-bounded validity.
type CandleCache interface {
	// Get returns the cached series plus its fetch instant.
	// ok is false on a miss or an expired entry.
	Get(ctx context.Context, key CacheKey) (candles []Candle, fetchedAt time.Time, ok bool)

	// Put stores a freshly fetched series, replacing any prior entry.
	Put(ctx context.Context, key CacheKey, candles []Candle)

	// Close releases underlying resources.
	Close() error
}

// CacheKey identifies one cached candle series.
type CacheKey struct {
	Symbol    string
	Timeframe Timeframe
	Limit     int
}

// String renders the key in the "symbol:tf:limit" form used for Redis keys
// and log lines.
func (k CacheKey) String() string {
	return k.Symbol + ":" + string(k.Timeframe) + ":" + strconv.Itoa(k.Limit)
}
