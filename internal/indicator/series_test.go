package indicator

import (
	"math"
	"testing"

	"crypto-screenerv1/internal/model"
)

func priceSeries(n int) []model.Candle {
	// Gentle sine-on-drift path: keeps prices positive and non-constant so
	// every indicator produces distinct values across the window.
	candles := make([]model.Candle, n)
	for i := 0; i < n; i++ {
		c := 100.0 + 0.1*float64(i) + 3.0*math.Sin(float64(i)/5.0)
		candles[i] = hlcCandle(c+1.2, c-1.2, c)
	}
	return candles
}

func TestSeries_Alignment(t *testing.T) {
	candles := priceSeries(250)
	s := Series(candles)

	if s.Len() != len(candles) {
		t.Fatalf("Len()=%d, want %d", s.Len(), len(candles))
	}
	for name, col := range map[string][]float64{
		"EMA50": s.EMA50, "EMA200": s.EMA200, "MACD": s.MACD,
		"MACDSignal": s.MACDSignal, "ADX": s.ADX, "RSI": s.RSI,
	} {
		if len(col) != len(candles) {
			t.Errorf("%s: len=%d, want %d", name, len(col), len(candles))
		}
	}
}

func TestSeries_WarmupBoundaries(t *testing.T) {
	candles := priceSeries(250)
	s := Series(candles)

	// First defined index per column:
	//   EMA50 → 49, EMA200 → 199, MACD line → 25 (slow seed),
	//   signal → 33 (9 line values), RSI → 14, ADX → 27 (2*period candles).
	cases := []struct {
		name  string
		col   []float64
		first int
	}{
		{"EMA50", s.EMA50, 49},
		{"EMA200", s.EMA200, 199},
		{"MACD", s.MACD, 25},
		{"MACDSignal", s.MACDSignal, 33},
		{"RSI", s.RSI, 14},
		{"ADX", s.ADX, 27},
	}
	for _, tc := range cases {
		for i := 0; i < tc.first; i++ {
			if !math.IsNaN(tc.col[i]) {
				t.Errorf("%s[%d]=%.6f, want NaN during warm-up", tc.name, i, tc.col[i])
				break
			}
		}
		for i := tc.first; i < len(tc.col); i++ {
			if math.IsNaN(tc.col[i]) {
				t.Errorf("%s[%d]=NaN, want defined after warm-up", tc.name, i)
				break
			}
		}
	}
}

func TestSeries_ShortHistory_EMA200NeverDefined(t *testing.T) {
	// Fewer than 200 candles: EMA200 is undefined at every index, so
	// DefinedAt must be false everywhere and no screening decision can fire.
	s := Series(priceSeries(199))
	for i := 0; i < s.Len(); i++ {
		if !math.IsNaN(s.EMA200[i]) {
			t.Fatalf("EMA200[%d] defined with only 199 candles", i)
		}
		if s.DefinedAt(i) {
			t.Fatalf("DefinedAt(%d)=true with only 199 candles", i)
		}
	}
}

func TestSeries_DefinedAt(t *testing.T) {
	s := Series(priceSeries(250))

	if s.DefinedAt(-1) || s.DefinedAt(s.Len()) {
		t.Error("DefinedAt out-of-range index returned true")
	}
	if s.DefinedAt(100) {
		t.Error("DefinedAt(100)=true before EMA200 warm-up")
	}
	if !s.DefinedAt(199) {
		t.Error("DefinedAt(199)=false after all warm-ups")
	}
	if !s.DefinedAt(249) {
		t.Error("DefinedAt(249)=false at latest index")
	}
}

func TestSeries_MACDLineMatchesEMADifference(t *testing.T) {
	// The MACD column must equal fast-EMA minus slow-EMA computed
	// independently over the same closes.
	candles := priceSeries(120)
	s := Series(candles)

	fast := NewEMA(MACDFastPeriod)
	slow := NewEMA(MACDSlowPeriod)
	for i, c := range candles {
		fast.Update(c)
		slow.Update(c)
		if !slow.Ready() {
			continue
		}
		assertClose(t, "MACD vs EMA diff", s.MACD[i], fast.Value()-slow.Value(), 1e-9)
	}
}
