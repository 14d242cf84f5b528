package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"crypto-screenerv1/internal/model"

	goredis "github.com/go-redis/redis/v8"
)

const keyPrefix = "screener:candles:"

// Redis is a CandleCache backed by a shared Redis instance, so several
// screener processes (or restarts within the TTL) reuse the same fetches.
// Expiry is enforced server-side via SETEX.
type Redis struct {
	client *goredis.Client
	ttl    time.Duration
}

// RedisConfig configures the Redis cache.
type RedisConfig struct {
	Addr     string // e.g. "localhost:6379"
	Password string
	DB       int
	TTL      time.Duration
}

// redisEntry is the stored value: the series plus its fetch instant, so Get
// can still report entry age even though Redis owns expiry.
type redisEntry struct {
	FetchedAt time.Time      `json:"fetched_at"`
	Candles   []model.Candle `json:"candles"`
}

// NewRedis creates a Redis-backed cache and pings the server.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Printf("[cache] connected to redis at %s", cfg.Addr)
	return &Redis{client: client, ttl: cfg.TTL}, nil
}

// Client returns the underlying Redis client for health checks.
func (r *Redis) Client() *goredis.Client { return r.client }

// Get returns the cached series if the key is still live in Redis.
func (r *Redis) Get(ctx context.Context, key model.CacheKey) ([]model.Candle, time.Time, bool) {
	raw, err := r.client.Get(ctx, keyPrefix+key.String()).Bytes()
	if err != nil {
		if err != goredis.Nil {
			log.Printf("[cache] redis get %s: %v", key, err)
		}
		return nil, time.Time{}, false
	}

	var e redisEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		log.Printf("[cache] redis decode %s: %v (dropping entry)", key, err)
		r.client.Del(ctx, keyPrefix+key.String())
		return nil, time.Time{}, false
	}
	return e.Candles, e.FetchedAt, true
}

// Put stores the series with server-side TTL expiry.
func (r *Redis) Put(ctx context.Context, key model.CacheKey, candles []model.Candle) {
	raw, err := json.Marshal(redisEntry{FetchedAt: time.Now().UTC(), Candles: candles})
	if err != nil {
		log.Printf("[cache] redis encode %s: %v", key, err)
		return
	}
	if err := r.client.Set(ctx, keyPrefix+key.String(), raw, r.ttl).Err(); err != nil {
		log.Printf("[cache] redis set %s: %v", key, err)
	}
}

// Close releases the Redis connection.
func (r *Redis) Close() error { return r.client.Close() }
