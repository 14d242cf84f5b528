// Package binance is a minimal client for Binance spot public market data.
// It covers exactly what the screener needs: the /api/v3/klines endpoint,
// with client-side rate limiting against the exchange's request weights.
//
// Symbols use the BASE/QUOTE convention ("BTC/USDT") and are converted to
// Binance's concatenated form on the wire. Public kline data requires no
// credentials.
//
// Usage example:
//
//	cli := binance.NewClient(binance.Config{})
//	candles, err := cli.Fetch(ctx, "BTC/USDT", model.TF1d, 200)
//	if err != nil { log.Fatal(err) }
//	fmt.Println("latest close:", candles[len(candles)-1].Close)
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"crypto-screenerv1/internal/model"
)

const defaultBaseURL = "https://api.binance.com"

// Config configures the client. Zero values get sensible defaults.
type Config struct {
	BaseURL        string        // default: https://api.binance.com
	Timeout        time.Duration // default: 10s
	RequestsPerSec float64       // default: 10 (well under the 1200-weight/min budget)
	Burst          int           // default: 1
	Debug          bool
}

// Client fetches OHLCV candles over the Binance REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	debug      bool
}

// NewClient creates a Client with the given config.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSec == 0 {
		cfg.RequestsPerSec = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		debug:      cfg.Debug,
	}
}

// Fetch implements model.CandleSource. Any upstream failure — transport
// error, bad status, malformed payload, or fewer candles than requested —
// wraps model.ErrDataUnavailable. No retries: the first error propagates.
func (c *Client) Fetch(ctx context.Context, symbol string, tf model.Timeframe, limit int) ([]model.Candle, error) {
	pair, err := wireSymbol(symbol)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("klines %s: rate limiter: %w", symbol, err)
	}

	q := url.Values{}
	q.Set("symbol", pair)
	q.Set("interval", string(tf))
	q.Set("limit", strconv.Itoa(limit))
	reqURL := c.baseURL + "/api/v3/klines?" + q.Encode()

	if c.debug {
		log.Printf("[binance] GET %s", reqURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("klines %s: build request: %w", symbol, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("klines %s: %v: %w", symbol, err, model.ErrDataUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("klines %s: read body: %v: %w", symbol, err, model.ErrDataUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("klines %s: status %d: %s: %w",
			symbol, resp.StatusCode, truncate(body, 200), model.ErrDataUnavailable)
	}

	candles, err := parseKlines(body)
	if err != nil {
		return nil, fmt.Errorf("klines %s: %v: %w", symbol, err, model.ErrDataUnavailable)
	}

	// Oldest first, deduplicated: indicator math depends on it.
	sort.Slice(candles, func(i, j int) bool { return candles[i].TS.Before(candles[j].TS) })
	candles = model.Dedup(candles)

	if len(candles) < limit {
		return nil, fmt.Errorf("klines %s: got %d candles, want %d: %w",
			symbol, len(candles), limit, model.ErrDataUnavailable)
	}
	return candles, nil
}

// wireSymbol converts "BASE/QUOTE" to Binance's concatenated form.
func wireSymbol(symbol string) (string, error) {
	base, quote, ok := strings.Cut(symbol, "/")
	if !ok || base == "" || quote == "" {
		return "", fmt.Errorf("invalid symbol %q (want BASE/QUOTE)", symbol)
	}
	return strings.ToUpper(base + quote), nil
}

// parseKlines decodes the kline payload: an array of arrays where index 0
// is the open time in ms and indexes 1-5 are OHLCV as strings.
func parseKlines(body []byte) ([]model.Candle, error) {
	var rows [][]interface{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode klines: %v", err)
	}

	candles := make([]model.Candle, 0, len(rows))
	for i, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("kline %d: %d fields, want >= 6", i, len(row))
		}
		openMs, ok := row[0].(float64)
		if !ok {
			return nil, fmt.Errorf("kline %d: open time is %T", i, row[0])
		}
		vals := [5]float64{}
		for j := 1; j <= 5; j++ {
			s, ok := row[j].(string)
			if !ok {
				return nil, fmt.Errorf("kline %d field %d: %T, want string", i, j, row[j])
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("kline %d field %d: %v", i, j, err)
			}
			vals[j-1] = v
		}
		candles = append(candles, model.Candle{
			TS:     time.UnixMilli(int64(openMs)).UTC(),
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}
	return candles, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
