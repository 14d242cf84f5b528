package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"crypto-screenerv1/internal/model"
)

// Config holds all application configuration loaded from environment
// variables. Components receive it (or slices of it) through their
// constructors — nothing reads the environment after Load.
type Config struct {
	// Screening
	Timeframe   model.Timeframe
	CandleLimit int
	Lookback    int // support/resistance window
	Concurrency int // screener worker pool size

	// Candle cache
	CacheTTL time.Duration

	// Upstream exchange
	BinanceBaseURL string
	RequestsPerSec float64

	// Infrastructure
	ListenAddr    string
	MetricsAddr   string
	RedisAddr     string // empty = in-memory cache only
	RedisPassword string

	// Universe
	UniverseFile string // optional YAML file; empty = built-in default

	// Pass history retained for /api/history
	HistorySize int

	// Alerting; empty values disable the channel
	WebhookURL       string
	TelegramBotToken string
	TelegramChatID   string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	tf, err := model.ParseTimeframe(getEnv("TIMEFRAME", "1d"))
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	return &Config{
		Timeframe:   tf,
		CandleLimit: getEnvInt("CANDLE_LIMIT", 200),
		Lookback:    getEnvInt("SR_LOOKBACK", 20),
		Concurrency: getEnvInt("SCREEN_CONCURRENCY", 4),

		CacheTTL: time.Duration(getEnvInt("CACHE_TTL_SECONDS", 300)) * time.Second,

		BinanceBaseURL: getEnv("BINANCE_BASE_URL", ""),
		RequestsPerSec: getEnvFloat("REQUESTS_PER_SEC", 10),

		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		MetricsAddr:   getEnv("METRICS_ADDR", ":9090"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		UniverseFile: getEnv("UNIVERSE_FILE", ""),

		HistorySize: getEnvInt("SCREEN_HISTORY", 16),

		WebhookURL:       getEnv("WEBHOOK_URL", ""),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
	}
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[config] ignoring invalid %s=%q", key, v)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Printf("[config] ignoring invalid %s=%q", key, v)
		return fallback
	}
	return f
}
