package gateway

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crypto-screenerv1/config"
	"crypto-screenerv1/internal/metrics"
	"crypto-screenerv1/internal/model"
)

type fakeSource struct {
	candles map[string][]model.Candle
	err     error
}

func (f *fakeSource) Fetch(ctx context.Context, symbol string, tf model.Timeframe, limit int) ([]model.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.candles[symbol]
	if !ok {
		return nil, model.ErrDataUnavailable
	}
	return c, nil
}

// genCandles builds n daily candles with a gentle uptrend plus oscillation,
// enough history for every indicator to warm up when n >= 200.
func genCandles(n int) []model.Candle {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.Candle, n)
	for i := 0; i < n; i++ {
		px := 100 + 0.3*float64(i) + 5*math.Sin(float64(i)/7)
		out[i] = model.Candle{
			TS:     start.Add(time.Duration(i) * 24 * time.Hour),
			Open:   px - 0.5,
			High:   px + 1,
			Low:    px - 1,
			Close:  px,
			Volume: 1000,
		}
	}
	return out
}

func newTestService(src model.CandleSource, universe []string) (*Service, *http.ServeMux) {
	cfg := &config.Config{
		Timeframe:   model.TF1d,
		CandleLimit: 200,
		Lookback:    20,
		Concurrency: 2,
	}
	svc := NewService(src, cfg, universe, NewHub(), nil, metrics.NewHealthStatus())
	mux := http.NewServeMux()
	svc.RegisterRoutes(mux)
	return svc, mux
}

func TestRoutes_TFsListsTimeframes(t *testing.T) {
	_, mux := newTestService(&fakeSource{}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/tfs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS origin header: got %q, want *", got)
	}
	var tfs []model.Timeframe
	if err := json.NewDecoder(rec.Body).Decode(&tfs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, tf := range tfs {
		if tf == model.TF1d {
			found = true
		}
	}
	if !found {
		t.Errorf("timeframes %v missing %s", tfs, model.TF1d)
	}
}

func TestRoutes_ScreenAllSymbolsSkipped(t *testing.T) {
	universe := []string{"BTC/USDT", "ETH/USDT", "SOL/USDT"}
	_, mux := newTestService(&fakeSource{err: model.ErrDataUnavailable}, universe)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/screen", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var out ScreenOut
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Results) != 0 {
		t.Errorf("results: got %d, want 0", len(out.Results))
	}
	if out.Message != NoBullishMessage {
		t.Errorf("message: got %q, want %q", out.Message, NoBullishMessage)
	}
	if out.Stats.Skipped != len(universe) {
		t.Errorf("skipped: got %d, want %d", out.Stats.Skipped, len(universe))
	}
	if out.Stats.Evaluated != len(universe) {
		t.Errorf("evaluated: got %d, want %d", out.Stats.Evaluated, len(universe))
	}
}

func TestRoutes_ScreenRejectsUnknownTimeframe(t *testing.T) {
	_, mux := newTestService(&fakeSource{}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/screen?tf=7m", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestRoutes_ScreenRejectsGet(t *testing.T) {
	_, mux := newTestService(&fakeSource{}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/screen", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rec.Code)
	}
}

func TestRoutes_DetailRequiresSymbol(t *testing.T) {
	_, mux := newTestService(&fakeSource{}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/detail", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestRoutes_DetailUpstreamDownIsBadGateway(t *testing.T) {
	_, mux := newTestService(&fakeSource{err: model.ErrDataUnavailable}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/detail?symbol=BTC/USDT", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want 502", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body["error"] == "" {
		t.Error("error body missing message")
	}
}

func TestRoutes_DetailSuccess(t *testing.T) {
	src := &fakeSource{candles: map[string][]model.Candle{
		"BTC/USDT": genCandles(250),
	}}
	_, mux := newTestService(src, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/detail?symbol=BTC/USDT", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rec.Code, rec.Body.String())
	}
	var out DetailOut
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Report == nil || out.Report.Symbol != "BTC/USDT" {
		t.Fatalf("report symbol mismatch: %+v", out.Report)
	}
	// Prices above one dollar format with four decimals.
	if !strings.Contains(out.PriceFmt, ".") || len(out.PriceFmt)-strings.Index(out.PriceFmt, ".")-1 != 4 {
		t.Errorf("price_fmt precision: got %q, want 4 decimals", out.PriceFmt)
	}
	if out.Report.FibTarget2 <= out.Report.FibTarget1 || out.Report.FibTarget1 <= out.Report.SwingHigh {
		t.Errorf("fib targets not ascending: swing_high=%v t1=%v t2=%v",
			out.Report.SwingHigh, out.Report.FibTarget1, out.Report.FibTarget2)
	}
}

func TestRoutes_HistoryRecordsPasses(t *testing.T) {
	universe := []string{"BTC/USDT"}
	_, mux := newTestService(&fakeSource{err: model.ErrDataUnavailable}, universe)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/history", nil))
	var before []json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&before); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(before) != 0 {
		t.Errorf("history before any pass: got %d records", len(before))
	}

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/screen", nil))
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/screen", nil))

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/history?n=1", nil))
	var after []struct {
		Stats model.ScreenStats `json:"stats"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(after) != 1 {
		t.Fatalf("history with n=1: got %d records", len(after))
	}
	if after[0].Stats.Evaluated != 1 {
		t.Errorf("recorded stats: %+v", after[0].Stats)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/history?n=junk", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid n: got %d, want 400", rec.Code)
	}
}

func TestRoutes_Health(t *testing.T) {
	svc, mux := newTestService(&fakeSource{}, nil)
	svc.Health.SetLastPassAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var out map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["status"] != "ok" {
		t.Errorf("status field: got %v, want ok", out["status"])
	}
	if out["ws_clients"] != float64(0) {
		t.Errorf("ws_clients: got %v, want 0", out["ws_clients"])
	}
	if out["last_pass_at"] != "2026-03-01T12:00:00Z" {
		t.Errorf("last_pass_at: got %v", out["last_pass_at"])
	}
}
