package binance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"crypto-screenerv1/internal/model"
)

// klineRow renders one kline in Binance's wire format.
func klineRow(openMs int64, o, h, l, c, v float64) string {
	return fmt.Sprintf(`[%d,"%f","%f","%f","%f","%f",%d,"0",0,"0","0","0"]`,
		openMs, o, h, l, c, v, openMs+86399999)
}

func klineServer(t *testing.T, rows int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/klines" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if rows > limit {
			rows = limit
		}
		base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, "[")
		for i := 0; i < rows; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			px := 100.0 + float64(i)
			fmt.Fprint(w, klineRow(base+int64(i)*86400000, px, px+1, px-1, px+0.5, 1000))
		}
		fmt.Fprint(w, "]")
	}))
}

func testClient(baseURL string) *Client {
	return NewClient(Config{BaseURL: baseURL, RequestsPerSec: 1000, Burst: 1000})
}

func TestFetch_ParsesKlines(t *testing.T) {
	srv := klineServer(t, 5)
	defer srv.Close()

	candles, err := testClient(srv.URL).Fetch(context.Background(), "BTC/USDT", model.TF1d, 5)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(candles) != 5 {
		t.Fatalf("got %d candles, want 5", len(candles))
	}
	if !model.SortedByTS(candles) {
		t.Error("candles not strictly increasing in time")
	}
	first := candles[0]
	if first.Open != 100 || first.High != 101 || first.Low != 99 || first.Close != 100.5 || first.Volume != 1000 {
		t.Errorf("unexpected first candle: %+v", first)
	}
	if got := first.TS; !got.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first TS = %v", got)
	}
}

func TestFetch_SymbolConversion(t *testing.T) {
	var gotSymbol string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSymbol = r.URL.Query().Get("symbol")
		fmt.Fprintf(w, "[%s]", klineRow(1717200000000, 1, 2, 0.5, 1.5, 10))
	}))
	defer srv.Close()

	testClient(srv.URL).Fetch(context.Background(), "doge/usdt", model.TF1h, 1)
	if gotSymbol != "DOGEUSDT" {
		t.Errorf("wire symbol = %q, want DOGEUSDT", gotSymbol)
	}
}

func TestFetch_InvalidSymbol(t *testing.T) {
	if _, err := testClient("http://unused").Fetch(context.Background(), "BTCUSDT", model.TF1d, 1); err == nil {
		t.Fatal("expected error for symbol without separator")
	}
}

func TestFetch_ShortResponse_IsDataUnavailable(t *testing.T) {
	srv := klineServer(t, 3)
	defer srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background(), "BTC/USDT", model.TF1d, 200)
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("want ErrDataUnavailable for short response, got %v", err)
	}
}

func TestFetch_UpstreamError_IsDataUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1121,"msg":"Invalid symbol."}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background(), "BAD/USDT", model.TF1d, 1)
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("want ErrDataUnavailable for HTTP 400, got %v", err)
	}
}

func TestFetch_Unreachable_IsDataUnavailable(t *testing.T) {
	// Closed server: connection refused.
	srv := klineServer(t, 1)
	srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background(), "BTC/USDT", model.TF1d, 1)
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("want ErrDataUnavailable for unreachable upstream, got %v", err)
	}
}

func TestFetch_MalformedPayload_IsDataUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"not":"klines"}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background(), "BTC/USDT", model.TF1d, 1)
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("want ErrDataUnavailable for malformed payload, got %v", err)
	}
}

func TestFetch_DuplicateBuckets_Deduplicated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts := int64(1717200000000)
		fmt.Fprintf(w, "[%s,%s,%s]",
			klineRow(ts, 1, 2, 0.5, 1.0, 10),
			klineRow(ts, 1, 2, 0.5, 1.5, 12), // same bucket, later write wins
			klineRow(ts+86400000, 1.5, 2.5, 1.0, 2.0, 8))
	}))
	defer srv.Close()

	candles, err := testClient(srv.URL).Fetch(context.Background(), "BTC/USDT", model.TF1d, 2)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("got %d candles after dedup, want 2", len(candles))
	}
	if candles[0].Close != 1.5 {
		t.Errorf("dedup kept close %.2f, want the last occurrence 1.5", candles[0].Close)
	}
}
