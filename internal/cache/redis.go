package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	platformconfig "github.com/shelfmark/engagement-api/internal/platform/config"
)

// ErrCacheUnavailable is returned when the redis backend cannot be reached.
var ErrCacheUnavailable = errors.New("cache unavailable")

// Service is a thin redis-backed string cache with a shared TTL and key
// prefix. A nil *Service is a valid no-op cache, so callers never need to
// branch on whether caching is enabled.
type Service struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// New creates a redis cache service. Returns (nil, nil) when caching is
// disabled in the configuration.
func New(config *platformconfig.CacheConfig) (*Service, error) {
	if config == nil || !config.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.Database,
		PoolSize: config.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	return &Service{
		client: client,
		ttl:    config.TTL,
		prefix: config.Prefix,
	}, nil
}

// Get returns the cached value and whether the key was present.
func (s *Service) Get(ctx context.Context, key string) (string, bool, error) {
	if s == nil {
		return "", false, nil
	}

	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return val, true, nil
}

// Set stores a value under the shared TTL.
func (s *Service) Set(ctx context.Context, key, value string) error {
	if s == nil {
		return nil
	}

	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Close releases the redis connection.
func (s *Service) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}
