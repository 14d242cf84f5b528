package indicator

import (
	"fmt"

	"crypto-screenerv1/internal/model"
)

// MACD calculates Moving Average Convergence/Divergence: the difference
// between a fast and a slow EMA of closes, plus a signal line that is an EMA
// of the MACD line itself. Both EMAs use the standard SMA-seeded recursion,
// and the signal line is seeded once the slow EMA has produced enough MACD
// values.
type MACD struct {
	fast   *EMA
	slow   *EMA
	signal *EMA
	line   float64
}

// NewMACD creates a MACD indicator with the given fast/slow/signal periods
// (typically 12, 26, 9).
func NewMACD(fastPeriod, slowPeriod, signalPeriod int) *MACD {
	return &MACD{
		fast:   NewEMA(fastPeriod),
		slow:   NewEMA(slowPeriod),
		signal: NewEMA(signalPeriod),
	}
}

func (m *MACD) Name() string {
	return fmt.Sprintf("MACD_%d_%d_%d", m.fast.period, m.slow.period, m.signal.period)
}

func (m *MACD) Update(candle model.Candle) {
	m.fast.step(candle.Close)
	m.slow.step(candle.Close)

	if !m.slow.Ready() {
		return // fast period < slow period, so fast is ready first
	}

	m.line = m.fast.Value() - m.slow.Value()
	m.signal.step(m.line)
}

// Value returns the MACD line (fast EMA minus slow EMA).
func (m *MACD) Value() float64 { return m.line }

// Signal returns the signal line (EMA of the MACD line).
func (m *MACD) Signal() float64 { return m.signal.Value() }

// LineReady reports whether the MACD line itself is defined (slow EMA warm).
func (m *MACD) LineReady() bool { return m.slow.Ready() }

// Ready reports whether both the MACD line and its signal line are defined.
func (m *MACD) Ready() bool { return m.slow.Ready() && m.signal.Ready() }
