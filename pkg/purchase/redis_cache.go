package purchase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/purchasekit/pkg/logger"
)

const redisLatestKey = "latest"

// RedisCache is a quote cache backed by Redis, for panel frontends that run
// several instances behind one session store. A cache is a fallback source
// only, so every Redis failure degrades to a miss instead of propagating.
type RedisCache struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
	log    *slog.Logger
}

// RedisCacheOption configures a RedisCache instance.
type RedisCacheOption func(*RedisCache)

// WithRedisTTL sets the expiry for cached quotes. Defaults to 30 minutes,
// matching the longest realistic purchase flow session.
func WithRedisTTL(ttl time.Duration) RedisCacheOption {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithRedisLogger sets the structured logger. Defaults to a discard logger.
func WithRedisLogger(log *slog.Logger) RedisCacheOption {
	return func(c *RedisCache) {
		if log != nil {
			c.log = log
		}
	}
}

// NewRedisCache creates a Redis-backed quote cache. The prefix scopes keys to
// one user session, e.g. "quotes:user:42:".
func NewRedisCache(rdb redis.UniversalClient, prefix string, opts ...RedisCacheOption) *RedisCache {
	if rdb == nil {
		panic("purchase: redis client is required")
	}
	c := &RedisCache{
		rdb:    rdb,
		prefix: prefix,
		ttl:    30 * time.Minute,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) Get(ctx context.Context, key QuoteKey) (*Quote, bool) {
	return c.fetch(ctx, c.prefix+key.String())
}

func (c *RedisCache) Latest(ctx context.Context) (*Quote, bool) {
	return c.fetch(ctx, c.prefix+redisLatestKey)
}

func (c *RedisCache) Put(ctx context.Context, q *Quote) {
	if q == nil {
		return
	}
	raw, err := json.Marshal(q)
	if err != nil {
		c.log.WarnContext(ctx, "failed to encode quote",
			logger.Component("purchase.rediscache"), logger.Error(err))
		return
	}

	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, c.prefix+q.Key.String(), raw, c.ttl)
	pipe.Set(ctx, c.prefix+redisLatestKey, raw, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.WarnContext(ctx, "failed to store quote",
			logger.Component("purchase.rediscache"), logger.Error(err))
	}
}

func (c *RedisCache) fetch(ctx context.Context, key string) (*Quote, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.WarnContext(ctx, "quote lookup failed",
				logger.Component("purchase.rediscache"), logger.Error(err))
		}
		return nil, false
	}
	var q Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		c.log.WarnContext(ctx, "failed to decode cached quote",
			logger.Component("purchase.rediscache"), logger.Error(err))
		return nil, false
	}
	return &q, true
}
