package allowlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultKey is the Redis key holding the cached allow-list
const DefaultKey = "manas-admin:allowlist"

// Redis shares the cached allow-list between dashboard replicas
type Redis struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedis creates a Redis-backed cache. An empty key uses DefaultKey.
func NewRedis(client redis.UniversalClient, key string, ttl time.Duration, logger zerolog.Logger) *Redis {
	if key == "" {
		key = DefaultKey
	}
	return &Redis{client: client, key: key, ttl: ttl, logger: logger}
}

// Get treats every Redis failure as a miss so the gate falls through to
// the directory
func (r *Redis) Get(ctx context.Context) ([]string, bool) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn().Err(err).Str("key", r.key).Msg("Failed to read cached allow-list")
		}
		return nil, false
	}

	var emails []string
	if err := json.Unmarshal(data, &emails); err != nil {
		r.logger.Warn().Err(err).Str("key", r.key).Msg("Discarding corrupt cached allow-list")
		return nil, false
	}
	return emails, true
}

func (r *Redis) Set(ctx context.Context, emails []string) {
	if r.ttl <= 0 {
		return
	}
	if emails == nil {
		emails = []string{}
	}

	data, err := json.Marshal(emails)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Failed to encode allow-list")
		return
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		r.logger.Warn().Err(err).Str("key", r.key).Msg("Failed to cache allow-list")
	}
}

func (r *Redis) Invalidate(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate allow-list cache: %w", err)
	}
	return nil
}
