package ratelimit

import "time"

const (
	defaultRate   = "30-M"
	defaultPrefix = "taskflow:ratelimit"

	// how long to wait for redis on startup
	connectTimeout = 5 * time.Second
)

// holds rate limiter configuration
type Config struct {
	// limit in ulule format, e.g. "30-M" for 30 requests per minute
	Rate string

	// shared store for multi-instance deployments. empty keeps counters in memory
	RedisURL string

	// key prefix inside redis
	Prefix string
}

func (c Config) withDefaults() Config {
	if c.Rate == "" {
		c.Rate = defaultRate
	}

	if c.Prefix == "" {
		c.Prefix = defaultPrefix
	}

	return c
}
