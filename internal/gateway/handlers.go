package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"crypto-screenerv1/config"
	"crypto-screenerv1/internal/history"
	"crypto-screenerv1/internal/metrics"
	"crypto-screenerv1/internal/model"
	"crypto-screenerv1/internal/notification"
	"crypto-screenerv1/internal/screener"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	EnableCompression: true,
}

// SetCORS sets CORS headers for REST endpoints.
func SetCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// Service wires the candle source, screening pipeline and WS hub behind the
// HTTP surface. One Service serves all routes.
type Service struct {
	Source   model.CandleSource
	Cfg      *config.Config
	Universe []string
	Hub      *Hub
	Prom     *metrics.Metrics      // optional
	Health   *metrics.HealthStatus // optional
	History  *history.Ring
	Notify   notification.Notifier // optional

	start time.Time

	// screenMu serializes screening passes; a second POST /api/screen while
	// one is running gets 409 instead of doubling load on the upstream.
	screenMu sync.Mutex
}

// NewService creates the HTTP service.
func NewService(source model.CandleSource, cfg *config.Config, universe []string, hub *Hub, prom *metrics.Metrics, health *metrics.HealthStatus) *Service {
	size := cfg.HistorySize
	if size <= 0 {
		size = 16
	}
	return &Service{
		Source:   source,
		Cfg:      cfg,
		Universe: universe,
		Hub:      hub,
		Prom:     prom,
		Health:   health,
		History:  history.New(size),
		start:    time.Now(),
	}
}

// RegisterRoutes registers all HTTP routes on the provided mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	// WebSocket endpoint: screening progress and result broadcasts.
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[gateway] ws upgrade error: %v", err)
			return
		}
		s.Hub.HandleWSRequest(conn)
	})

	// REST: available timeframes
	mux.HandleFunc("/api/tfs", func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(model.Timeframes)
	})

	// REST: effective configuration
	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"timeframe":    s.Cfg.Timeframe,
			"candle_limit": s.Cfg.CandleLimit,
			"lookback":     s.Cfg.Lookback,
			"concurrency":  s.Cfg.Concurrency,
			"universe":     s.Universe,
		})
	})

	// REST: run one screening pass
	mux.HandleFunc("/api/screen", func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		w.Header().Set("Content-Type", "application/json")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != "POST" {
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
			return
		}

		tf := s.Cfg.Timeframe
		if v := r.URL.Query().Get("tf"); v != "" {
			parsed, err := model.ParseTimeframe(v)
			if err != nil {
				http.Error(w, `{"error":"unknown timeframe"}`, http.StatusBadRequest)
				return
			}
			tf = parsed
		}

		if !s.screenMu.TryLock() {
			http.Error(w, `{"error":"a screening pass is already running"}`, http.StatusConflict)
			return
		}
		defer s.screenMu.Unlock()

		sc := screener.New(s.Source, screener.Config{
			Timeframe:   tf,
			Limit:       s.Cfg.CandleLimit,
			Lookback:    s.Cfg.Lookback,
			Concurrency: s.Cfg.Concurrency,
			Universe:    s.Universe,
		}, s.Prom)
		sc.OnProgress = func(p screener.Progress) {
			s.Hub.Broadcast("progress", p)
		}

		results, stats := sc.Run(r.Context())
		out := toScreenOut(results, stats)
		s.Hub.Broadcast("results", out)
		s.History.Add(history.PassRecord{At: time.Now().UTC(), Stats: stats, Results: results})

		if s.Health != nil {
			s.Health.SetLastPassAt(time.Now())
			s.Health.SetUpstreamOK(stats.Skipped < stats.Evaluated)
		}
		if s.Notify != nil && stats.Bullish > 0 {
			alert := notification.BullishAlert(results, stats)
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				if err := s.Notify.Send(ctx, alert); err != nil {
					log.Printf("[gateway] alert delivery failed: %v", err)
				}
			}()
		}
		json.NewEncoder(w).Encode(out)
	})

	// REST: recent passes, newest first
	mux.HandleFunc("/api/history", func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		w.Header().Set("Content-Type", "application/json")

		n := s.History.Cap()
		if v := r.URL.Query().Get("n"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed <= 0 {
				http.Error(w, `{"error":"n must be a positive integer"}`, http.StatusBadRequest)
				return
			}
			n = parsed
		}
		records := s.History.Recent(n)
		if records == nil {
			records = []history.PassRecord{}
		}
		json.NewEncoder(w).Encode(records)
	})

	// REST: detail view for one symbol
	mux.HandleFunc("/api/detail", func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		w.Header().Set("Content-Type", "application/json")

		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			http.Error(w, `{"error":"symbol is required"}`, http.StatusBadRequest)
			return
		}
		tf := s.Cfg.Timeframe
		if v := r.URL.Query().Get("tf"); v != "" {
			parsed, err := model.ParseTimeframe(v)
			if err != nil {
				http.Error(w, `{"error":"unknown timeframe"}`, http.StatusBadRequest)
				return
			}
			tf = parsed
		}

		if s.Prom != nil {
			s.Prom.DetailRequests.Inc()
		}
		rep, err := screener.Detail(r.Context(), s.Source, symbol, tf, s.Cfg.CandleLimit)
		if err != nil {
			if s.Prom != nil {
				s.Prom.DetailErrors.Inc()
			}
			log.Printf("[gateway] detail %s: %v", symbol, err)
			status := http.StatusInternalServerError
			if errors.Is(err, model.ErrDataUnavailable) {
				status = http.StatusBadGateway
			} else if errors.Is(err, model.ErrInsufficientHistory) {
				status = http.StatusUnprocessableEntity
			}
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		json.NewEncoder(w).Encode(toDetailOut(rep))
	})

	// Health endpoint
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		w.Header().Set("Content-Type", "application/json")

		out := map[string]interface{}{
			"status":     "ok",
			"ws_clients": s.Hub.ClientCount(),
			"uptime_sec": int64(time.Since(s.start).Seconds()),
			"ts":         time.Now().UTC().Format(time.RFC3339Nano),
		}
		if s.Health != nil {
			snap := s.Health.Snapshot()
			out["upstream_ok"] = snap.UpstreamOK
			out["redis"] = snap.RedisConnected
			if !snap.LastPassAt.IsZero() {
				out["last_pass_at"] = snap.LastPassAt.UTC().Format(time.RFC3339)
			}
		}
		json.NewEncoder(w).Encode(out)
	})
}
