// Package screener implements the bullish screening pipeline: the predicate
// that classifies one asset, the loop that ranks a whole universe, and the
// detail report for one operator-selected symbol.
//
// A symbol is bullish when, at the latest closed candle:
//
//	EMA50 > EMA200  AND  MACD > signal  AND  ADX > 25  AND  50 < RSI < 70
//
// Any undefined operand makes the predicate false — the symbol is excluded,
// never errored.
package screener

import (
	"math"

	"crypto-screenerv1/internal/indicator"
	"crypto-screenerv1/internal/model"
)

// Predicate thresholds. Calibrated against Wilder/standard-EMA smoothing;
// changing the smoothing convention silently shifts what these select.
const (
	ADXThreshold = 25.0
	RSILowBand   = 50.0
	RSIHighBand  = 70.0
)

// DefaultLookback is the support/resistance window in candles.
const DefaultLookback = 20

// Row is the joined indicator + close-price view at one candle index.
type Row struct {
	Close      float64
	EMA50      float64
	EMA200     float64
	MACD       float64
	MACDSignal float64
	ADX        float64
	RSI        float64
}

// RowAt builds the joined row for index i. Indicator positions still in
// warm-up carry NaN.
func RowAt(set *indicator.Set, candles []model.Candle, i int) Row {
	return Row{
		Close:      candles[i].Close,
		EMA50:      set.EMA50[i],
		EMA200:     set.EMA200[i],
		MACD:       set.MACD[i],
		MACDSignal: set.MACDSignal[i],
		ADX:        set.ADX[i],
		RSI:        set.RSI[i],
	}
}

// Bullish applies the full four-clause predicate to one row. NaN operands
// fail every comparison, so undefined rows are never bullish.
func Bullish(r Row) bool {
	return r.EMA50 > r.EMA200 &&
		r.MACD > r.MACDSignal &&
		r.ADX > ADXThreshold &&
		r.RSI > RSILowBand && r.RSI < RSIHighBand
}

// TrendConfirmed applies only the EMA/MACD/ADX clauses. The detail view's
// buy-signal banner re-checks with this relaxed form — the RSI band is
// deliberately not reapplied there (see DESIGN.md).
func TrendConfirmed(r Row) bool {
	return r.EMA50 > r.EMA200 &&
		r.MACD > r.MACDSignal &&
		r.ADX > ADXThreshold
}

// PercentChange returns the close-over-close change between the latest and
// previous candle, in percent.
func PercentChange(latest, previous float64) float64 {
	return (latest - previous) / previous * 100.0
}

// SupportResistance returns min(low) and max(high) over the most recent
// lookback candles. The whole series is used when it is shorter than the
// window.
func SupportResistance(candles []model.Candle, lookback int) (support, resistance float64) {
	start := len(candles) - lookback
	if start < 0 {
		start = 0
	}
	support = math.Inf(1)
	resistance = math.Inf(-1)
	for _, c := range candles[start:] {
		if c.Low < support {
			support = c.Low
		}
		if c.High > resistance {
			resistance = c.High
		}
	}
	return support, resistance
}

// Evaluate classifies one symbol from its candle series. ok is false when
// the predicate fails or any required operand is undefined; the
// ScreeningResult is only constructed for bullish symbols.
func Evaluate(symbol string, candles []model.Candle, lookback int) (model.ScreeningResult, bool) {
	n := len(candles)
	if n < 2 {
		return model.ScreeningResult{}, false
	}

	set := indicator.Series(candles)
	if !set.DefinedAt(n - 1) {
		return model.ScreeningResult{}, false
	}

	latest := RowAt(set, candles, n-1)
	if !Bullish(latest) {
		return model.ScreeningResult{}, false
	}

	previous := candles[n-2].Close
	support, resistance := SupportResistance(candles, lookback)

	return model.ScreeningResult{
		Symbol:        symbol,
		Price:         latest.Close,
		PercentChange: PercentChange(latest.Close, previous),
		ADX:           latest.ADX,
		RSI:           latest.RSI,
		Support:       support,
		Resistance:    resistance,
	}, true
}
