package indicator

import (
	"math"

	"crypto-screenerv1/internal/model"
)

// Set holds per-candle aligned indicator series for one candle sequence.
// Every slice has the same length as the input candles; positions before an
// indicator's warm-up hold NaN and must be excluded from decisions via
// DefinedAt.
type Set struct {
	EMA50      []float64
	EMA200     []float64
	MACD       []float64
	MACDSignal []float64
	ADX        []float64
	RSI        []float64
}

// Series computes the fixed screening indicator set over a candle sequence,
// streaming each indicator across the series once. Input must be ordered
// oldest first.
func Series(candles []model.Candle) *Set {
	n := len(candles)
	s := &Set{
		EMA50:      nanSlice(n),
		EMA200:     nanSlice(n),
		MACD:       nanSlice(n),
		MACDSignal: nanSlice(n),
		ADX:        nanSlice(n),
		RSI:        nanSlice(n),
	}

	emaFast := NewEMA(TrendFastPeriod)
	emaSlow := NewEMA(TrendSlowPeriod)
	macd := NewMACD(MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
	adx := NewADX(ADXPeriod)
	rsi := NewRSI(RSIPeriod)

	for i, c := range candles {
		emaFast.Update(c)
		emaSlow.Update(c)
		macd.Update(c)
		adx.Update(c)
		rsi.Update(c)

		if emaFast.Ready() {
			s.EMA50[i] = emaFast.Value()
		}
		if emaSlow.Ready() {
			s.EMA200[i] = emaSlow.Value()
		}
		if macd.LineReady() {
			s.MACD[i] = macd.Value()
		}
		if macd.Ready() {
			s.MACDSignal[i] = macd.Signal()
		}
		if adx.Ready() {
			s.ADX[i] = adx.Value()
		}
		if rsi.Ready() {
			s.RSI[i] = rsi.Value()
		}
	}
	return s
}

// Len returns the series length.
func (s *Set) Len() int { return len(s.EMA50) }

// DefinedAt reports whether every indicator is defined (non-NaN) at index i.
func (s *Set) DefinedAt(i int) bool {
	if i < 0 || i >= s.Len() {
		return false
	}
	for _, v := range [...]float64{
		s.EMA50[i], s.EMA200[i], s.MACD[i], s.MACDSignal[i], s.ADX[i], s.RSI[i],
	} {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
