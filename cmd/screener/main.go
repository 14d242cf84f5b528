package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto-screenerv1/config"
	"crypto-screenerv1/internal/cache"
	"crypto-screenerv1/internal/gateway"
	"crypto-screenerv1/internal/logger"
	"crypto-screenerv1/internal/metrics"
	"crypto-screenerv1/internal/model"
	"crypto-screenerv1/internal/notification"
	"crypto-screenerv1/pkg/binance"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	log.Println("[screener] starting...")
	logger.Init("screener", slog.LevelInfo)

	// ---- Load config from env ----
	cfg := config.Load()

	// ---- Load the screening universe ----
	universe, err := config.LoadUniverse(cfg.UniverseFile)
	if err != nil {
		log.Fatalf("[screener] universe load failed: %v", err)
	}
	symbols := universe.Screenable()
	log.Printf("[screener] universe: %d symbols (%d excluded)",
		len(symbols), len(universe.Symbols)-len(symbols))

	// ---- Setup metrics & health ----
	prom := metrics.NewMetrics()
	health := metrics.NewHealthStatus()
	metricsSrv := metrics.NewServer(cfg.MetricsAddr, health)
	metricsSrv.Start()

	// ---- Setup context for graceful shutdown ----
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// ---- Candle cache: Redis when configured, in-memory otherwise ----
	var store model.CandleCache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			TTL:      cfg.CacheTTL,
		})
		if err != nil {
			log.Printf("[screener] WARNING: redis init failed: %v (continuing with in-memory cache)", err)
			health.SetRedisConnected(false)
			store = cache.NewMemory(cfg.CacheTTL)
		} else {
			health.SetRedisConnected(true)
			health.StartLivenessChecker(ctx, redisCache.Client(), 10*time.Second)
			store = redisCache
			log.Println("[screener] redis candle cache ready")
		}
	} else {
		store = cache.NewMemory(cfg.CacheTTL)
		log.Println("[screener] in-memory candle cache ready")
	}
	defer store.Close()

	// ---- Upstream exchange client behind the cache ----
	client := binance.NewClient(binance.Config{
		BaseURL:        cfg.BinanceBaseURL,
		RequestsPerSec: cfg.RequestsPerSec,
	})
	source := cache.NewSource(client, store, prom)

	// ---- Alert channels ----
	var notifiers notification.Multi
	if cfg.WebhookURL != "" {
		notifiers = append(notifiers, notification.NewWebhookNotifier(cfg.WebhookURL))
		log.Println("[screener] webhook alerts enabled")
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		notifiers = append(notifiers, notification.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID))
		log.Println("[screener] telegram alerts enabled")
	}

	// ---- HTTP + WS surface ----
	hub := gateway.NewHub()
	svc := gateway.NewService(source, cfg, symbols, hub, prom, health)
	if len(notifiers) > 0 {
		svc.Notify = notifiers
	}
	mux := http.NewServeMux()
	svc.RegisterRoutes(mux)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}
	go func() {
		log.Printf("[screener] http server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[screener] http server error: %v", err)
		}
	}()

	log.Println("[screener] ╔══════════════════════════════════════════════════════════╗")
	log.Println("[screener] ║  Bullish Screener                                        ║")
	log.Println("[screener] ║                                                          ║")
	log.Println("[screener] ║  [Binance REST] → [Cache] → [Indicators] → [Rule/Rank]   ║")
	log.Printf("[screener] ║  TF: %-6s  candles: %-5d  workers: %-2d  cache: %-5s   ║",
		cfg.Timeframe, cfg.CandleLimit, cfg.Concurrency, cacheKind(cfg))
	log.Println("[screener] ║  POST /api/screen to run a pass, /ws for live progress   ║")
	log.Println("[screener] ╚══════════════════════════════════════════════════════════╝")

	// ---- Wait for shutdown signal ----
	<-sigCh
	log.Println("[screener] shutdown signal received, cleaning up...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)
	metricsSrv.Stop(shutdownCtx)

	log.Println("[screener] shutdown complete.")
}

func cacheKind(cfg *config.Config) string {
	if cfg.RedisAddr != "" {
		return "redis"
	}
	return "mem"
}
