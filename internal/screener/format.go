package screener

import (
	"fmt"

	"crypto-screenerv1/internal/model"
)

// FormatPrice renders a monetary value with precision scaled to magnitude,
// so low-unit-price assets keep significant digits:
//
//	value >= 1      → 4 decimals
//	0.01 <= v < 1   → 6 decimals
//	value < 0.01    → 8 decimals
func FormatPrice(value float64) string {
	switch {
	case value >= 1:
		return fmt.Sprintf("%.4f", value)
	case value >= 0.01:
		return fmt.Sprintf("%.6f", value)
	default:
		return fmt.Sprintf("%.8f", value)
	}
}

// ChangeGlyph returns the colour glyph and arrow for a percent change.
func ChangeGlyph(pct float64) (glyph, arrow string) {
	if pct > 0 {
		return "🟢", "↑"
	}
	return "🔴", "↓"
}

// Summary renders the one-line listing for a bullish result, all monetary
// values through the price formatting policy.
func Summary(r model.ScreeningResult) string {
	glyph, arrow := ChangeGlyph(r.PercentChange)
	pct := r.PercentChange
	if pct < 0 {
		pct = -pct
	}
	return fmt.Sprintf("%s • Price: $%s • %s Change: %.2f%% %s • ADX: %.1f • RSI: %.1f • Support: $%s • Resistance: $%s",
		r.Symbol, FormatPrice(r.Price), glyph, pct, arrow, r.ADX, r.RSI,
		FormatPrice(r.Support), FormatPrice(r.Resistance))
}
