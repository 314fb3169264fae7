package cache

import (
	"log/slog"
	"time"
)

// Config selects and tunes the cache backend.
type Config struct {
	// RedisURL enables the Redis backend when set.
	RedisURL string

	// Prefix is the Redis key prefix.
	Prefix string

	// DefaultTTL applies when Set is called with a zero TTL.
	DefaultTTL time.Duration

	// MaxSize caps the memory backend's entry count (0 = unlimited).
	MaxSize int
}

// New creates the configured cache backend. A Redis connection failure
// falls back to the memory backend so the builder keeps serving.
func New(cfg Config, logger *slog.Logger) Cacher {
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = time.Hour
	}

	if cfg.RedisURL != "" {
		rc, err := NewRedisCache(RedisCacheOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
		if err == nil {
			logger.Info("cache backend: redis", "prefix", cfg.Prefix)
			return rc
		}
		logger.Warn("redis unavailable, using memory cache", "error", err)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: time.Minute,
	})
}
