// Package cache holds the optional Redis cache for generated question sets.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/studyhub-ai/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "studyhub:gen:"

// GenerationCache stores serialized generation results. A disabled cache
// always misses and never fails.
type GenerationCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// ParseURL validates a Redis connection URL.
func ParseURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("cache URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}
	return opts, nil
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGenerationCache connects to REDIS_URL. Without a URL, or when the server
// does not answer, caching is disabled rather than failing start-up.
func NewGenerationCache(cfg *config.Config) GenerationCache {
	if cfg.Redis.URL == "" {
		log.Info().Msg("REDIS_URL is not set. Generation cache disabled.")
		return noopCache{}
	}
	opts, err := ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Warn().Err(err).Msg("Generation cache disabled")
		return noopCache{}
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		log.Warn().Err(err).Msg("Redis ping failed. Generation cache disabled.")
		return noopCache{}
	}
	return &redisCache{client: client, ttl: cfg.Generation.CacheTTL}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return val, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, keyPrefix+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (noopCache) Set(context.Context, string, []byte) error         { return nil }
func (noopCache) Close() error                                      { return nil }

// Disabled returns a cache that never stores anything.
func Disabled() GenerationCache { return noopCache{} }

// Key derives a stable cache key from a request kind and its JSON form.
func Key(kind string, req any) (string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	sum := sha256.Sum256(append([]byte(kind+":"), b...))
	return kind + ":" + hex.EncodeToString(sum[:]), nil
}
