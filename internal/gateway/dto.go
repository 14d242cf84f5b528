package gateway

import (
	"crypto-screenerv1/internal/model"
	"crypto-screenerv1/internal/screener"
)

// ResultOut is the REST/WS shape of one bullish listing entry. Monetary
// fields are pre-formatted through the price formatting policy; raw values
// ride along for clients that chart them.
type ResultOut struct {
	Symbol        string  `json:"symbol"`
	Price         string  `json:"price"`
	PercentChange float64 `json:"percent_change"`
	ChangeGlyph   string  `json:"change_glyph"`
	ChangeArrow   string  `json:"change_arrow"`
	ADX           float64 `json:"adx"`
	RSI           float64 `json:"rsi"`
	Support       string  `json:"support"`
	Resistance    string  `json:"resistance"`
	Summary       string  `json:"summary"`

	Raw model.ScreeningResult `json:"raw"`
}

// ScreenOut is the REST response for POST /api/screen.
type ScreenOut struct {
	Results []ResultOut       `json:"results"`
	Stats   model.ScreenStats `json:"stats"`
	// Message carries the explicit empty state when nothing qualified.
	Message string `json:"message,omitempty"`
}

// DetailOut wraps the detail report with formatted headline metrics.
type DetailOut struct {
	Report *model.DetailReport `json:"report"`

	PriceFmt      string `json:"price_fmt"`
	EMA50Fmt      string `json:"ema50_fmt"`
	EMA200Fmt     string `json:"ema200_fmt"`
	MACDFmt       string `json:"macd_fmt"`
	MACDSignalFmt string `json:"macd_signal_fmt"`
	TrendLabel    string `json:"trend_label"` // "Strong trend" / "Weak trend"
	FibTarget1Fmt string `json:"fib_target_1_fmt"`
	FibTarget2Fmt string `json:"fib_target_2_fmt"`
}

// NoBullishMessage is the explicit empty-screen state.
const NoBullishMessage = "No bullish setups found."

func toResultOut(r model.ScreeningResult) ResultOut {
	glyph, arrow := screener.ChangeGlyph(r.PercentChange)
	return ResultOut{
		Symbol:        r.Symbol,
		Price:         screener.FormatPrice(r.Price),
		PercentChange: r.PercentChange,
		ChangeGlyph:   glyph,
		ChangeArrow:   arrow,
		ADX:           r.ADX,
		RSI:           r.RSI,
		Support:       screener.FormatPrice(r.Support),
		Resistance:    screener.FormatPrice(r.Resistance),
		Summary:       screener.Summary(r),
		Raw:           r,
	}
}

func toScreenOut(results []model.ScreeningResult, stats model.ScreenStats) ScreenOut {
	out := ScreenOut{
		Results: make([]ResultOut, 0, len(results)),
		Stats:   stats,
	}
	for _, r := range results {
		out.Results = append(out.Results, toResultOut(r))
	}
	if len(out.Results) == 0 {
		out.Message = NoBullishMessage
	}
	return out
}

func toDetailOut(rep *model.DetailReport) DetailOut {
	trend := "Weak trend"
	if rep.StrongTrend {
		trend = "Strong trend"
	}
	return DetailOut{
		Report:        rep,
		PriceFmt:      screener.FormatPrice(rep.Price),
		EMA50Fmt:      screener.FormatPrice(rep.EMA50),
		EMA200Fmt:     screener.FormatPrice(rep.EMA200),
		MACDFmt:       screener.FormatPrice(rep.MACD),
		MACDSignalFmt: screener.FormatPrice(rep.MACDSignal),
		TrendLabel:    trend,
		FibTarget1Fmt: screener.FormatPrice(rep.FibTarget1),
		FibTarget2Fmt: screener.FormatPrice(rep.FibTarget2),
	}
}
