package indicator

import (
	"math"
	"strconv"

	"crypto-screenerv1/internal/model"
)

// ADX calculates the Average Directional Index via Wilder's smoothing of
// true range and directional movement, then of the DX series itself.
// Output is bounded to [0, 100] and quantifies trend strength regardless of
// direction.
//
// Warm-up: one candle to establish previous H/L/C, `period` candles of
// TR/DM for the first DI pair, then `period` DX values for the first ADX —
// Ready after 2*period candles.
type ADX struct {
	period int
	count  int

	prevHigh  float64
	prevLow   float64
	prevClose float64

	// Wilder-smoothed running sums
	tr14    float64
	plusDM  float64
	minusDM float64

	// DX accumulation for the first ADX value
	dxSum   float64
	dxCount int

	current float64
}

// NewADX creates a new ADX indicator with the given period (typically 14).
func NewADX(period int) *ADX {
	return &ADX{period: period}
}

func (a *ADX) Name() string { return "ADX_" + strconv.Itoa(a.period) }

func (a *ADX) Update(candle model.Candle) {
	a.count++

	if a.count == 1 {
		a.prevHigh = candle.High
		a.prevLow = candle.Low
		a.prevClose = candle.Close
		return
	}

	// True range and raw directional movement
	tr := math.Max(candle.High-candle.Low,
		math.Max(math.Abs(candle.High-a.prevClose), math.Abs(candle.Low-a.prevClose)))

	upMove := candle.High - a.prevHigh
	downMove := a.prevLow - candle.Low
	plus, minus := 0.0, 0.0
	if upMove > downMove && upMove > 0 {
		plus = upMove
	}
	if downMove > upMove && downMove > 0 {
		minus = downMove
	}

	a.prevHigh = candle.High
	a.prevLow = candle.Low
	a.prevClose = candle.Close

	p := float64(a.period)
	if a.count <= a.period+1 {
		// Accumulation phase: plain sums for the first smoothed values
		a.tr14 += tr
		a.plusDM += plus
		a.minusDM += minus
		if a.count < a.period+1 {
			return
		}
	} else {
		// Wilder's smoothing: S = S - S/period + current
		a.tr14 = a.tr14 - a.tr14/p + tr
		a.plusDM = a.plusDM - a.plusDM/p + plus
		a.minusDM = a.minusDM - a.minusDM/p + minus
	}

	dx := a.computeDX()
	if a.dxCount < a.period {
		// Build the first ADX as a simple average of the first period DXs
		a.dxSum += dx
		a.dxCount++
		if a.dxCount == a.period {
			a.current = a.dxSum / p
		}
		return
	}

	// Wilder's smoothing of the DX series
	a.current = (a.current*(p-1) + dx) / p
}

func (a *ADX) computeDX() float64 {
	if a.tr14 == 0 {
		return 0
	}
	plusDI := 100.0 * a.plusDM / a.tr14
	minusDI := 100.0 * a.minusDM / a.tr14
	sum := plusDI + minusDI
	if sum == 0 {
		return 0
	}
	return 100.0 * math.Abs(plusDI-minusDI) / sum
}

func (a *ADX) Value() float64 { return a.current }
func (a *ADX) Ready() bool    { return a.count >= 2*a.period }
