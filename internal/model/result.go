package model

import (
	"math"
	"strconv"
	"time"
)

// ScreeningResult is the derived snapshot for one bullish asset at one
// evaluation instant. Recomputed on every pass, never persisted.
type ScreeningResult struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"` // latest close
	PercentChange float64 `json:"percent_change"`
	ADX           float64 `json:"adx"`
	RSI           float64 `json:"rsi"`
	Support       float64 `json:"support"`
	Resistance    float64 `json:"resistance"`
}

// ScreenStats summarizes one full screening pass for observability.
// Failures are counted, not surfaced per symbol.
type ScreenStats struct {
	RunID     string        `json:"run_id"`
	Timeframe Timeframe     `json:"timeframe"`
	Evaluated int           `json:"evaluated"`
	Bullish   int           `json:"bullish"`
	Skipped   int           `json:"skipped"` // fetch or history failures
	Took      time.Duration `json:"took"`
}

// DetailReport is the technical dashboard payload for one selected symbol.
type DetailReport struct {
	Symbol      string    `json:"symbol"`
	Timeframe   Timeframe `json:"timeframe"`
	GeneratedAt time.Time `json:"generated_at"`

	Price  float64 `json:"price"`
	EMA50  float64 `json:"ema50"`
	EMA200 float64 `json:"ema200"`

	MACD        float64 `json:"macd"`
	MACDSignal  float64 `json:"macd_signal"`
	ADX         float64 `json:"adx"`
	StrongTrend bool    `json:"strong_trend"` // ADX > 25

	BuySignal  bool    `json:"buy_signal"`
	SwingLow   float64 `json:"swing_low"`
	SwingHigh  float64 `json:"swing_high"`
	FibTarget1 float64 `json:"fib_target_1"` // 0.618 extension
	FibTarget2 float64 `json:"fib_target_2"` // 1.000 extension

	Chart ChartSpec `json:"chart"`
}

// ChartSpec describes the detail chart: one candlestick series plus two EMA
// line overlays. Pure data — any front end can render it.
type ChartSpec struct {
	Title      string       `json:"title"`
	Template   string       `json:"template"`
	Height     int          `json:"height"`
	RangeSlide bool         `json:"range_slider"`
	Candles    CandleSeries `json:"candles"`
	Overlays   []LineSeries `json:"overlays"`
}

// CandleSeries is the candlestick trace of a ChartSpec.
type CandleSeries struct {
	Name            string      `json:"name"`
	IncreasingColor string      `json:"increasing_color"`
	DecreasingColor string      `json:"decreasing_color"`
	TS              []time.Time `json:"ts"`
	Open            []float64   `json:"open"`
	High            []float64   `json:"high"`
	Low             []float64   `json:"low"`
	Close           []float64   `json:"close"`
}

// LineSeries is one overlay trace of a ChartSpec. Undefined leading values
// are NaN and serialize as null.
type LineSeries struct {
	Name   string      `json:"name"`
	Color  string      `json:"color"`
	TS     []time.Time `json:"ts"`
	Values []JSONFloat `json:"values"`
}

// JSONFloat is a float64 that marshals NaN as null. encoding/json rejects
// NaN outright, and chart overlays carry NaN for every warm-up slot.
type JSONFloat float64

// MarshalJSON implements json.Marshaler.
func (f JSONFloat) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(f), 'g', -1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler; null becomes NaN.
func (f *JSONFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = JSONFloat(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = JSONFloat(v)
	return nil
}
