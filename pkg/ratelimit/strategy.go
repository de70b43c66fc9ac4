package ratelimit

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/go-redis/redis/v8"
)

type Logger interface {
	Error(msg string, args ...interface{})
}

// RateLimiter is the strategy every limiter in the service implements.
// IsLimited records the attempt for key and reports whether it must be rejected.
type RateLimiter interface {
	GetLimitDetails() (int, time.Duration)
	IsLimited(key string) (bool, error)
	Close() error
}

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Redis    *redis.Client // Optional, if nil uses in-memory
	Logger   Logger        // Optional logger for Redis operations
	Now      func() time.Time
}

// NewRateLimiter builds the router-wide limiter: a sliding window in Redis when a
// client is configured, a token bucket otherwise.
func NewRateLimiter(config *RateLimitConfig) RateLimiter {
	if config.Redis != nil {
		return NewRedisRateLimiter(config.Redis, config.Requests, config.Window, config.Logger)
	}
	return NewInMemoryRateLimiter(config.Requests, config.Window)
}

// NewFixedWindowLimiter builds a fixed window limiter. Counters live in Redis when a
// client is configured so that every instance shares them.
func NewFixedWindowLimiter(config *RateLimitConfig) RateLimiter {
	if config.Redis != nil {
		return NewRedisFixedWindowRateLimiter(config.Redis, config.Requests, config.Window, config.Logger)
	}

	var opts []FixedWindowOption
	if config.Now != nil {
		opts = append(opts, WithClock(config.Now))
	}
	return NewFixedWindowRateLimiter(config.Requests, config.Window, opts...)
}

func generateUniqueID() string {
	bytes := make([]byte, 8)

	rand.Read(bytes)

	return hex.EncodeToString(bytes)
}
