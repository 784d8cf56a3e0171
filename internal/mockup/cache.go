package mockup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/frameshot/mockup-renderer/internal/config"
)

// RenderCache stores encoded mockup output in Redis, keyed by the source
// screenshot bytes and the composition options. Optional: callers treat
// failures as cache misses and render through.
type RenderCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRenderCache creates a render cache from Redis configuration.
func NewRenderCache(cfg *config.RedisConfig, ttlSeconds int) *RenderCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRenderCacheFromClient(rdb, ttlSeconds)
}

// NewRenderCacheFromClient creates a render cache over an existing client.
func NewRenderCacheFromClient(client *redis.Client, ttlSeconds int) *RenderCache {
	return &RenderCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

// Key derives the cache key for a screenshot and its composition options.
// Every option that affects pixels participates in the hash.
func (r *RenderCache) Key(screenshot []byte, opts Options, format string, quality int) string {
	h := sha256.New()
	h.Write(screenshot)
	fmt.Fprintf(h, "|%s|%s|%s|%s|%s|%dx%d|%.4f|%.4f|%.4f|%.4f|%s|%d",
		opts.Style, opts.Colors, opts.ProjectPath, opts.Device, opts.Platform,
		opts.Width, opts.Height, opts.Scale, opts.Angle, opts.PosX, opts.PosY,
		format, quality)
	return "mockup:render:" + hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached render. A missing key is not an error.
func (r *RenderCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	result, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get key %s from Redis: %w", key, err)
	}
	return result, true, nil
}

// Set stores an encoded render under the cache TTL.
func (r *RenderCache) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s in Redis: %w", key, err)
	}
	return nil
}

// Ping tests the Redis connection
func (r *RenderCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RenderCache) Close() error {
	return r.client.Close()
}
