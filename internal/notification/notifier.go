// Package notification delivers screening alerts to external channels
// (Telegram, generic webhooks). A pass that finds bullish setups fires one
// alert; delivery failures are logged, never propagated into the pass.
package notification

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"crypto-screenerv1/internal/model"
	"crypto-screenerv1/internal/screener"
)

// AlertLevel represents the severity of an alert.
type AlertLevel string

const (
	AlertInfo    AlertLevel = "INFO"
	AlertWarning AlertLevel = "WARNING"
)

// Alert represents a notification to be sent.
type Alert struct {
	Level   AlertLevel `json:"level"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

// Notifier is the interface for all notification backends.
type Notifier interface {
	// Send delivers an alert. Returns error if delivery fails.
	Send(ctx context.Context, alert Alert) error
}

// BullishAlert builds the alert for one completed screening pass. The
// message body is the ranked listing, one summary line per symbol.
func BullishAlert(results []model.ScreeningResult, stats model.ScreenStats) Alert {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, screener.Summary(r))
	}
	level := AlertInfo
	if stats.Skipped > 0 {
		level = AlertWarning
	}
	return Alert{
		Level: level,
		Title: fmt.Sprintf("%d bullish setups (%s)", stats.Bullish, stats.Timeframe),
		Message: fmt.Sprintf("%sevaluated %d, skipped %d, took %s",
			b.String(), stats.Evaluated, stats.Skipped, stats.Took.Round(time.Millisecond)),
	}
}

// LogNotifier logs alerts instead of delivering them (useful for development).
type LogNotifier struct{}

// NewLogNotifier creates a log-based notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(ctx context.Context, alert Alert) error {
	log.Printf("[notify] [%s] %s: %s", alert.Level, alert.Title, alert.Message)
	return nil
}

// Multi fans one alert out to several backends; the first failure is
// returned after every backend has been tried.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, alert Alert) error {
	var first error
	for _, n := range m {
		if err := n.Send(ctx, alert); err != nil && first == nil {
			first = err
		}
	}
	return first
}
