package model

import (
	"encoding/json"
	"time"
)

// Candle represents one OHLCV candle for a symbol/timeframe pair.
// Prices are float64: quote values on crypto spot markets go well below one
// cent, so a fixed integer sub-unit would lose significant digits.
type Candle struct {
	TS     time.Time `json:"ts"` // bucket open time (UTC)
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// JSON returns the JSON-encoded candle (ignoring errors for hot-path usage).
func (c *Candle) JSON() []byte {
	b, _ := json.Marshal(c)
	return b
}

// Closes extracts the close-price series from a candle sequence.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// SortedByTS reports whether the sequence is strictly increasing in time.
// Fetched series must satisfy this before any indicator math runs.
func SortedByTS(candles []Candle) bool {
	for i := 1; i < len(candles); i++ {
		if !candles[i].TS.After(candles[i-1].TS) {
			return false
		}
	}
	return true
}

// Dedup drops candles that repeat the previous bucket timestamp, keeping the
// last occurrence. Input must already be sorted oldest-first.
func Dedup(candles []Candle) []Candle {
	if len(candles) < 2 {
		return candles
	}
	out := candles[:1]
	for _, c := range candles[1:] {
		if c.TS.Equal(out[len(out)-1].TS) {
			out[len(out)-1] = c
			continue
		}
		out = append(out, c)
	}
	return out
}
