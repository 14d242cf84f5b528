// Package indicator provides technical indicator calculations over candle data.
//
// All indicators implement the Indicator interface, receiving candles and
// producing float64 values. Each one streams: Update is O(1) per candle and
// Ready flips true once the warm-up window has accumulated. Values read
// before Ready are undefined and must not drive screening decisions.
package indicator

import "crypto-screenerv1/internal/model"

// Standard periods used by the screening pipeline. The bullish predicate's
// thresholds (25, 50, 70) are calibrated against these exact smoothing
// conventions, so the periods are fixed rather than configurable.
const (
	TrendFastPeriod  = 50  // EMA50
	TrendSlowPeriod  = 200 // EMA200
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
	ADXPeriod        = 14
	RSIPeriod        = 14
)

// Indicator is the interface for all technical indicators.
type Indicator interface {
	// Name returns the indicator name (e.g., "EMA_50", "RSI_14").
	Name() string

	// Update feeds a new candle and recalculates.
	Update(candle model.Candle)

	// Value returns the current calculated value. Returns 0 if not enough data.
	Value() float64

	// Ready returns true when enough data has been accumulated.
	Ready() bool
}
