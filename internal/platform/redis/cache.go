package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/cleanconnect-api/internal/platform/logger"
	goredis "github.com/redis/go-redis/v9"
)

// ViewCache is a JSON-backed Redis cache for read views of type T. A zero
// ttl stores keys without expiry.
type ViewCache[T any] struct {
	client *goredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewViewCache creates a ViewCache on client. If logger is nil, a default
// logger will be used.
func NewViewCache[T any](client *goredis.Client, ttl time.Duration, logger *slog.Logger) *ViewCache[T] {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewCache[T]{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "view_cache")),
	}
}

// Get reads and decodes key. Misses and decode failures both return
// (nil, false); only the latter is logged.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			log.Warn("cache read failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Warn("cache entry could not be decoded", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	return &v, true
}

// Set encodes value and stores it under key. Failures are logged, not
// returned.
func (c *ViewCache[T]) Set(ctx context.Context, key string, value *T) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	data, err := json.Marshal(value)
	if err != nil {
		log.Warn("cache entry could not be encoded", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Warn("cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}

// Delete removes key. Failures are logged, not returned.
func (c *ViewCache[T]) Delete(ctx context.Context, key string) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Warn("cache delete failed", slog.String("key", key), slog.Any("error", err))
	}
}
