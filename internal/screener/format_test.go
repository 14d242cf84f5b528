package screener

import (
	"strings"
	"testing"

	"crypto-screenerv1/internal/model"
)

func TestFormatPrice_PrecisionByMagnitude(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{1234.5, "1234.5000"},
		{50000, "50000.0000"},
		{1, "1.0000"}, // lower bound of the 4-decimal range
		{0.05, "0.050000"},
		{0.01, "0.010000"}, // lower bound of the 6-decimal range
		{0.000123, "0.00012300"},
		{0.0099, "0.00990000"},
	}
	for _, tc := range cases {
		if got := FormatPrice(tc.value); got != tc.want {
			t.Errorf("FormatPrice(%v): got %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestChangeGlyph(t *testing.T) {
	if glyph, arrow := ChangeGlyph(2.5); glyph != "🟢" || arrow != "↑" {
		t.Errorf("positive: got %s %s", glyph, arrow)
	}
	if glyph, arrow := ChangeGlyph(-1.3); glyph != "🔴" || arrow != "↓" {
		t.Errorf("negative: got %s %s", glyph, arrow)
	}
}

func TestSummary_Line(t *testing.T) {
	r := model.ScreeningResult{
		Symbol:        "BTC/USDT",
		Price:         50000,
		PercentChange: 2.0408,
		ADX:           31.2,
		RSI:           61.7,
		Support:       48000,
		Resistance:    51000,
	}
	line := Summary(r)

	for _, want := range []string{
		"BTC/USDT",
		"$50000.0000",
		"🟢",
		"2.04%",
		"↑",
		"ADX: 31.2",
		"RSI: 61.7",
		"$48000.0000",
		"$51000.0000",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("summary missing %q:\n%s", want, line)
		}
	}
}

func TestSummary_NegativeChangeShownAsMagnitude(t *testing.T) {
	r := model.ScreeningResult{Symbol: "ETH/USDT", Price: 2000, PercentChange: -3.5}
	line := Summary(r)
	if strings.Contains(line, "-3.5") {
		t.Errorf("change must render as magnitude with direction glyphs:\n%s", line)
	}
	if !strings.Contains(line, "3.50%") || !strings.Contains(line, "🔴") {
		t.Errorf("negative change rendering wrong:\n%s", line)
	}
}
