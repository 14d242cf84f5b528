package metrics

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the screener service.
type Metrics struct {
	// Data source
	FetchesTotal prometheus.Counter
	FetchErrors  prometheus.Counter
	FetchDur     prometheus.Histogram

	// Candle cache
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Screening passes
	ScreenDur      prometheus.Histogram
	BullishCount   prometheus.Gauge
	SymbolsSkipped prometheus.Counter

	// Detail views
	DetailRequests prometheus.Counter
	DetailErrors   prometheus.Counter
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_fetches_total",
			Help: "Total candle fetches issued to the upstream exchange",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_fetch_errors_total",
			Help: "Upstream fetch failures (including short candle counts)",
		}),
		FetchDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "screener_fetch_duration_seconds",
			Help:    "Upstream candle fetch latency",
			Buckets: prometheus.DefBuckets,
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_cache_hits_total",
			Help: "Candle cache hits within TTL",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_cache_misses_total",
			Help: "Candle cache misses or expired entries",
		}),
		ScreenDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "screener_pass_duration_seconds",
			Help:    "Duration of one full screening pass over the universe",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		BullishCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "screener_bullish_count",
			Help: "Bullish symbols found in the most recent pass",
		}),
		SymbolsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_symbols_skipped_total",
			Help: "Symbols skipped due to fetch failures during screening",
		}),
		DetailRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_detail_requests_total",
			Help: "Detail view requests",
		}),
		DetailErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_detail_errors_total",
			Help: "Detail views aborted by unavailable data",
		}),
	}

	prometheus.MustRegister(
		m.FetchesTotal,
		m.FetchErrors,
		m.FetchDur,
		m.CacheHits,
		m.CacheMisses,
		m.ScreenDur,
		m.BullishCount,
		m.SymbolsSkipped,
		m.DetailRequests,
		m.DetailErrors,
	)

	return m
}

// HealthStatus represents the system health.
type HealthStatus struct {
	mu sync.RWMutex

	UpstreamOK     bool      `json:"upstream_ok"`
	RedisConnected bool      `json:"redis_connected"`
	LastPassAt     time.Time `json:"last_pass_at"`

	// Liveness probe results
	RedisLatencyMs float64   `json:"redis_latency_ms"`
	LastCheckAt    time.Time `json:"last_check_at"`
	StartedAt      time.Time `json:"started_at"`
}

// NewHealthStatus returns a default health status. The upstream is assumed
// healthy until a fetch proves otherwise.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{
		StartedAt:  time.Now(),
		UpstreamOK: true,
	}
}

func (h *HealthStatus) SetUpstreamOK(v bool) {
	h.mu.Lock()
	h.UpstreamOK = v
	h.mu.Unlock()
}

func (h *HealthStatus) SetRedisConnected(v bool) {
	h.mu.Lock()
	h.RedisConnected = v
	h.mu.Unlock()
}

func (h *HealthStatus) SetLastPassAt(t time.Time) {
	h.mu.Lock()
	h.LastPassAt = t
	h.mu.Unlock()
}

// HealthSnapshot is a point-in-time copy of the health flags.
type HealthSnapshot struct {
	UpstreamOK     bool
	RedisConnected bool
	LastPassAt     time.Time
}

// Snapshot returns the current health flags.
func (h *HealthStatus) Snapshot() HealthSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return HealthSnapshot{
		UpstreamOK:     h.UpstreamOK,
		RedisConnected: h.RedisConnected,
		LastPassAt:     h.LastPassAt,
	}
}

// CheckRedis pings Redis and records latency + connectivity.
func (h *HealthStatus) CheckRedis(ctx context.Context, rdb *goredis.Client) {
	start := time.Now()
	err := rdb.Ping(ctx).Err()
	latency := time.Since(start)

	h.mu.Lock()
	h.RedisConnected = err == nil
	h.RedisLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// StartLivenessChecker runs periodic dependency checks.
func (h *HealthStatus) StartLivenessChecker(ctx context.Context, rdb *goredis.Client, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
				if rdb != nil {
					h.CheckRedis(probeCtx, rdb)
				}
				cancel()
			}
		}
	}()
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	overallStatus := "healthy"
	httpCode := http.StatusOK
	if !h.UpstreamOK {
		overallStatus = "degraded"
		httpCode = http.StatusServiceUnavailable
	}

	lastPass := ""
	if !h.LastPassAt.IsZero() {
		lastPass = h.LastPassAt.Format(time.RFC3339)
	}

	status := struct {
		Status         string  `json:"status"`
		Uptime         string  `json:"uptime"`
		UpstreamOK     bool    `json:"upstream_ok"`
		RedisConnected bool    `json:"redis_connected"`
		RedisLatencyMs float64 `json:"redis_latency_ms"`
		LastPassAt     string  `json:"last_pass_at"`
		LastCheckAt    string  `json:"last_check_at"`
	}{
		Status:         overallStatus,
		Uptime:         time.Since(h.StartedAt).Round(time.Second).String(),
		UpstreamOK:     h.UpstreamOK,
		RedisConnected: h.RedisConnected,
		RedisLatencyMs: h.RedisLatencyMs,
		LastPassAt:     lastPass,
		LastCheckAt:    h.LastCheckAt.Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if httpCode != http.StatusOK {
		w.WriteHeader(httpCode)
	}
	json.NewEncoder(w).Encode(status)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	health *HealthStatus
	addr   string
	srv    *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string, health *HealthStatus) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", health.ServeHTTP)

	return &Server{
		health: health,
		addr:   addr,
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
