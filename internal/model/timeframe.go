package model

import "fmt"

// Timeframe is a candle interval supported by the data source.
type Timeframe string

const (
	TF15m Timeframe = "15m"
	TF30m Timeframe = "30m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
)

// Timeframes lists the supported intervals in ascending order.
var Timeframes = []Timeframe{TF15m, TF30m, TF1h, TF4h, TF1d}

// ParseTimeframe validates a timeframe string.
func ParseTimeframe(s string) (Timeframe, error) {
	for _, tf := range Timeframes {
		if string(tf) == s {
			return tf, nil
		}
	}
	return "", fmt.Errorf("unsupported timeframe %q (want one of %v)", s, Timeframes)
}
