package identity

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
)

const (
	defaultCacheTTL = 30 * time.Second
	cacheKeyPrefix  = "cyclerental:actor:"
)

// RedisClient is the part of *redis.Client the cache needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisCache caches the actors resolved by the next provider in Redis.
// Unknown actors are not cached, so new actors are visible immediately.
// A failing Redis is bypassed, the next provider is asked instead.
type RedisCache struct {
	client RedisClient
	next   shell.IdentityProvider
	ttl    time.Duration
	logger shell.Logger
}

// CacheOption configures a RedisCache.
type CacheOption func(*RedisCache) error

// WithTTL sets how long a resolved actor is cached.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *RedisCache) error {
		if ttl <= 0 {
			return errors.New("cache ttl must be positive")
		}

		c.ttl = ttl

		return nil
	}
}

// WithLogger sets a logger which receives bypassed Redis failures at warn level.
func WithLogger(logger shell.Logger) CacheOption {
	return func(c *RedisCache) error {
		c.logger = logger
		return nil
	}
}

func NewRedisCache(client RedisClient, next shell.IdentityProvider, opts ...CacheOption) (*RedisCache, error) {
	c := &RedisCache{client: client, next: next, ttl: defaultCacheTTL}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *RedisCache) Actor(ctx context.Context, actorID string) (core.Actor, error) {
	key := cacheKeyPrefix + actorID

	data, err := c.client.Get(ctx, key).Bytes()

	switch {
	case err == nil:
		var actor core.Actor
		if unmarshalErr := jsoniter.ConfigFastest.Unmarshal(data, &actor); unmarshalErr == nil {
			return actor, nil
		}
	case !errors.Is(err, redis.Nil):
		c.warn("identity cache read failed", err)
	}

	actor, err := c.next.Actor(ctx, actorID)
	if err != nil || !actor.IsKnown() {
		return actor, err
	}

	if encoded, marshalErr := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(actor); marshalErr == nil {
		if setErr := c.client.Set(ctx, key, encoded, c.ttl).Err(); setErr != nil {
			c.warn("identity cache write failed", setErr)
		}
	}

	return actor, nil
}

func (c *RedisCache) warn(msg string, err error) {
	if c.logger != nil {
		c.logger.Warn(msg, "error", err.Error())
	}
}
