package screener

import (
	"context"
	"fmt"
	"time"

	"crypto-screenerv1/internal/indicator"
	"crypto-screenerv1/internal/model"
)

// Fibonacci extension ratios for the two target levels above the swing high.
const (
	FibRatio1 = 0.618
	FibRatio2 = 1.0
)

// Detail builds the technical dashboard report for one selected symbol:
// refetch (cache hit expected), recompute indicators, derive swing levels
// and fib extension targets, and attach the chart spec.
//
// Unlike screening, a fetch failure here aborts the view — there is nothing
// to render without candles.
func Detail(ctx context.Context, source model.CandleSource, symbol string, tf model.Timeframe, limit int) (*model.DetailReport, error) {
	candles, err := source.Fetch(ctx, symbol, tf, limit)
	if err != nil {
		return nil, fmt.Errorf("detail %s: %w", symbol, err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("detail %s: %w", symbol, model.ErrDataUnavailable)
	}

	set := indicator.Series(candles)
	n := len(candles)
	if !set.DefinedAt(n - 1) {
		return nil, fmt.Errorf("detail %s: %d candles: %w", symbol, n, model.ErrInsufficientHistory)
	}
	latest := RowAt(set, candles, n-1)

	// Swing levels span the full fetched window, not the S/R lookback.
	swingLow, swingHigh := SupportResistance(candles, n)
	span := swingHigh - swingLow

	report := &model.DetailReport{
		Symbol:      symbol,
		Timeframe:   tf,
		GeneratedAt: time.Now().UTC(),

		Price:  latest.Close,
		EMA50:  latest.EMA50,
		EMA200: latest.EMA200,

		MACD:        latest.MACD,
		MACDSignal:  latest.MACDSignal,
		ADX:         latest.ADX,
		StrongTrend: latest.ADX > ADXThreshold,

		// The buy banner re-checks trend clauses only; the RSI band that
		// admitted the symbol during screening is not reapplied here.
		BuySignal:  TrendConfirmed(latest),
		SwingLow:   swingLow,
		SwingHigh:  swingHigh,
		FibTarget1: swingHigh + span*FibRatio1,
		FibTarget2: swingHigh + span*FibRatio2,

		Chart: chartSpec(symbol, tf, candles, set),
	}
	return report, nil
}

// chartSpec assembles the candlestick trace plus EMA50/EMA200 overlays.
func chartSpec(symbol string, tf model.Timeframe, candles []model.Candle, set *indicator.Set) model.ChartSpec {
	n := len(candles)
	ts := make([]time.Time, n)
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closePx := make([]float64, n)
	for i, c := range candles {
		ts[i] = c.TS
		open[i] = c.Open
		high[i] = c.High
		low[i] = c.Low
		closePx[i] = c.Close
	}

	return model.ChartSpec{
		Title:      fmt.Sprintf("%s Price Chart (%s)", symbol, tf),
		Template:   "dark",
		Height:     600,
		RangeSlide: false,
		Candles: model.CandleSeries{
			Name:            "Price",
			IncreasingColor: "green",
			DecreasingColor: "red",
			TS:              ts,
			Open:            open,
			High:            high,
			Low:             low,
			Close:           closePx,
		},
		Overlays: []model.LineSeries{
			{Name: "EMA 50", Color: "blue", TS: ts, Values: jsonFloats(set.EMA50)},
			{Name: "EMA 200", Color: "orange", TS: ts, Values: jsonFloats(set.EMA200)},
		},
	}
}

func jsonFloats(in []float64) []model.JSONFloat {
	out := make([]model.JSONFloat, len(in))
	for i, v := range in {
		out[i] = model.JSONFloat(v)
	}
	return out
}
