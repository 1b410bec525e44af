package ratelimit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"codeberg.org/taskflow/server/internal/errors"
	"codeberg.org/taskflow/server/internal/logger"
)

// per-client-IP request limiter for unauthenticated endpoints
type Limiter struct {
	limiter *limiter.Limiter
	client  *redis.Client
}

// creates a new limiter backed by redis when a URL is configured, memory otherwise
func New(ctx context.Context, cfg Config) (*Limiter, error) {
	cfg = cfg.withDefaults()

	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", cfg.Rate, err)
	}

	if cfg.RedisURL == "" {
		store := memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          cfg.Prefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		})

		return &Limiter{limiter: limiter.New(store, rate)}, nil
	}

	client, err := connect(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   cfg.Prefix,
		MaxRetry: 3,
	})
	if err != nil {
		client.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
	}

	return &Limiter{limiter: limiter.New(store, rate), client: client}, nil
}

func connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis", "addr", opts.Addr)

	return client, nil
}

// closes the redis connection, if any
func (l *Limiter) Close() error {
	if l.client == nil {
		return nil
	}

	return l.client.Close()
}

// returns a Gin middleware that rejects clients over the limit with 429.
// store failures let the request through
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		lctx, err := l.limiter.Get(c.Request.Context(), ip)
		if err != nil {
			logger.ErrorErr(err, "rate limit store unavailable", "ip", ip)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			logger.Warn("rate limit reached", "ip", ip, "path", c.Request.URL.Path)
			errors.TooManyRequests(c, "too many requests, slow down")
			return
		}

		c.Next()
	}
}
