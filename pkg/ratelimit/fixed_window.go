package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// windowEntry counts accepted requests for one key until resetAt.
type windowEntry struct {
	count   int
	resetAt time.Time
}

type FixedWindowOption func(*FixedWindowRateLimiter)

// WithClock replaces time.Now, mainly for tests that need to cross a window boundary.
func WithClock(now func() time.Time) FixedWindowOption {
	return func(r *FixedWindowRateLimiter) {
		if now != nil {
			r.now = now
		}
	}
}

// FixedWindowRateLimiter admits at most requests per key in each window. Windows are
// discrete, so a caller can get up to twice the limit across a boundary.
//
// Entries are kept for the life of the process.
type FixedWindowRateLimiter struct {
	requests int
	window   time.Duration
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*windowEntry
}

func NewFixedWindowRateLimiter(requests int, window time.Duration, opts ...FixedWindowOption) *FixedWindowRateLimiter {
	r := &FixedWindowRateLimiter{
		requests: requests,
		window:   window,
		now:      time.Now,
		entries:  make(map[string]*windowEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *FixedWindowRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *FixedWindowRateLimiter) IsLimited(key string) (bool, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[key]
	if !ok || now.After(entry.resetAt) {
		r.entries[key] = &windowEntry{count: 1, resetAt: now.Add(r.window)}
		return false, nil
	}

	if entry.count >= r.requests {
		return true, nil
	}

	entry.count++
	return false, nil
}

// Count returns the accepted requests recorded for key in its current window.
func (r *FixedWindowRateLimiter) Count(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[key]; ok {
		return entry.count
	}
	return 0
}

func (r *FixedWindowRateLimiter) Close() error {
	return nil
}

// KEYS[1] counter, ARGV[1] limit, ARGV[2] window in milliseconds.
// The counter expires with the window, which resets it.
const fixedWindowScript = `
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[1]) then
	return 1
end

if redis.call('INCR', KEYS[1]) == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[2])
end

return 0
`

// RedisFixedWindowRateLimiter keeps fixed window counters in Redis.
type RedisFixedWindowRateLimiter struct {
	client    *redis.Client
	requests  int
	window    time.Duration
	keyPrefix string
	logger    Logger
}

func NewRedisFixedWindowRateLimiter(client *redis.Client, requests int, window time.Duration, logger Logger) *RedisFixedWindowRateLimiter {
	return &RedisFixedWindowRateLimiter{
		client:    client,
		requests:  requests,
		window:    window,
		keyPrefix: "ratelimit:fixed:",
		logger:    logger,
	}
}

func (r *RedisFixedWindowRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *RedisFixedWindowRateLimiter) IsLimited(key string) (bool, error) {
	fullKey := prefixedKey(r.keyPrefix, key)

	result, err := r.client.Eval(
		context.Background(),
		fixedWindowScript,
		[]string{fullKey},
		r.requests,
		r.window.Milliseconds(),
	).Int64()
	if err != nil {
		if r.logger != nil {
			r.logger.Error("Redis fixed window script execution failed", "key", fullKey, "error", err)
		}
		return false, fmt.Errorf("rate limiter Redis error: %w", err)
	}

	return result == 1, nil
}

// The Redis client is owned by the ApplicationConfig and closed there.
func (r *RedisFixedWindowRateLimiter) Close() error {
	return nil
}
