package factory

import (
	"context"
	"time"

	"github.com/akeren/portfolio-api/pkg/ratelimit"
	"github.com/go-redis/redis/v8"
)

type Cache interface {
	Ping(ctx context.Context) error
}

type RedisClientProvider interface {
	GetClient() *redis.Client
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Logger   ratelimit.Logger
}

type RateLimiterFactory interface {
	CreateRateLimiter() ratelimit.RateLimiter
}

// DefaultRateLimiterFactory builds token bucket or Redis sliding window limiters.
type DefaultRateLimiterFactory struct {
	config *ratelimit.RateLimitConfig
}

func NewDefaultRateLimiterFactory(requests int, window time.Duration, cache Cache, logger ratelimit.Logger) *DefaultRateLimiterFactory {
	return &DefaultRateLimiterFactory{
		config: &ratelimit.RateLimitConfig{
			Requests: requests,
			Window:   window,
			Redis:    redisClientFrom(cache),
			Logger:   logger,
		},
	}
}

func (f *DefaultRateLimiterFactory) CreateRateLimiter() ratelimit.RateLimiter {
	return ratelimit.NewRateLimiter(f.config)
}

// FixedWindowLimiterFactory builds fixed window limiters, shared through Redis when
// the cache exposes a client.
type FixedWindowLimiterFactory struct {
	config *ratelimit.RateLimitConfig
}

func NewFixedWindowLimiterFactory(requests int, window time.Duration, cache Cache, logger ratelimit.Logger) *FixedWindowLimiterFactory {
	return &FixedWindowLimiterFactory{
		config: &ratelimit.RateLimitConfig{
			Requests: requests,
			Window:   window,
			Redis:    redisClientFrom(cache),
			Logger:   logger,
		},
	}
}

func (f *FixedWindowLimiterFactory) CreateRateLimiter() ratelimit.RateLimiter {
	return ratelimit.NewFixedWindowLimiter(f.config)
}

func (f *FixedWindowLimiterFactory) UsesRedis() bool {
	return f.config.Redis != nil
}

type FactoryContainer struct {
	RateLimiterFactory    RateLimiterFactory
	ContactLimiterFactory RateLimiterFactory
}

// NewFactoryContainer wires the router-wide limiter factory and the contact
// submission limiter factory from the same cache.
func NewFactoryContainer(rateLimitConfig *RateLimitConfig, contactLimitConfig *RateLimitConfig, cache Cache) *FactoryContainer {
	return &FactoryContainer{
		RateLimiterFactory: NewDefaultRateLimiterFactory(
			rateLimitConfig.Requests, rateLimitConfig.Window, cache, rateLimitConfig.Logger,
		),
		ContactLimiterFactory: NewFixedWindowLimiterFactory(
			contactLimitConfig.Requests, contactLimitConfig.Window, cache, contactLimitConfig.Logger,
		),
	}
}

func redisClientFrom(cache Cache) *redis.Client {
	if cache == nil {
		return nil
	}
	if provider, ok := cache.(RedisClientProvider); ok {
		return provider.GetClient()
	}
	return nil
}
