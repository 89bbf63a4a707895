package pkg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/survey-service/internal/cache"
	"github.com/SAP-F-2025/survey-service/internal/config"
)

// NewRedisClient parses the URL and pings the server before returning.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return client, nil
}

// NewSessionCache returns the cache selected by SESSION_STORE. The returned
// close func releases the Redis connection and is a no-op for memory.
func NewSessionCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.CacheService, func() error, error) {
	if cfg.SessionStore != "redis" {
		logger.Info("Using in-memory session store")
		return cache.NewMemoryCache(), func() error { return nil }, nil
	}

	client, err := NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Using Redis session store", "addr", client.Options().Addr)
	return cache.NewRedisCache(client, logger), client.Close, nil
}
