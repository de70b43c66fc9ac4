package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestFixedWindowRateLimiter_LimitsAfterMaxRequests(t *testing.T) {
	clock := newFakeClock()
	limiter := NewFixedWindowRateLimiter(5, 15*time.Minute, WithClock(clock.Now))

	for i := 1; i <= 5; i++ {
		limited, err := limiter.IsLimited("1.2.3.4")
		require.NoError(t, err)
		assert.False(t, limited, "request %d should be allowed", i)
		assert.Equal(t, i, limiter.Count("1.2.3.4"))
	}

	limited, err := limiter.IsLimited("1.2.3.4")
	require.NoError(t, err)
	assert.True(t, limited, "sixth request inside the window should be limited")
	assert.Equal(t, 5, limiter.Count("1.2.3.4"), "a limited request must not change the entry")
}

func TestFixedWindowRateLimiter_ResetsAfterWindow(t *testing.T) {
	clock := newFakeClock()
	limiter := NewFixedWindowRateLimiter(5, 15*time.Minute, WithClock(clock.Now))

	for i := 0; i < 6; i++ {
		_, _ = limiter.IsLimited("1.2.3.4")
	}

	// Exactly at the reset instant the window is still active.
	clock.Advance(15 * time.Minute)
	limited, err := limiter.IsLimited("1.2.3.4")
	require.NoError(t, err)
	assert.True(t, limited)

	clock.Advance(time.Millisecond)
	limited, err = limiter.IsLimited("1.2.3.4")
	require.NoError(t, err)
	assert.False(t, limited)
	assert.Equal(t, 1, limiter.Count("1.2.3.4"))
}

func TestFixedWindowRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewFixedWindowRateLimiter(5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		_, _ = limiter.IsLimited("client-a")
	}

	limited, _ := limiter.IsLimited("client-a")
	assert.True(t, limited)

	limited, _ = limiter.IsLimited("client-b")
	assert.False(t, limited)
	assert.Equal(t, 1, limiter.Count("client-b"))
}

func TestFixedWindowRateLimiter_ConcurrentRequestsAdmitExactlyMax(t *testing.T) {
	limiter := NewFixedWindowRateLimiter(5, time.Minute)

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limited, _ := limiter.IsLimited("burst"); !limited {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(5), allowed.Load())
}

func TestRedisFixedWindowRateLimiter_UnreachableRedisReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRedisFixedWindowRateLimiter(client, 5, 15*time.Minute, nil)

	requests, window := limiter.GetLimitDetails()
	assert.Equal(t, 5, requests)
	assert.Equal(t, 15*time.Minute, window)

	limited, err := limiter.IsLimited("1.2.3.4")
	require.Error(t, err)
	assert.False(t, limited, "callers fail open on limiter errors")
	assert.NoError(t, limiter.Close())
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return server, client
}

func TestRedisFixedWindowRateLimiter_LimitsWithinWindow(t *testing.T) {
	server, client := newMiniredisClient(t)
	limiter := NewRedisFixedWindowRateLimiter(client, 5, 15*time.Minute, nil)

	for i := 1; i <= 5; i++ {
		limited, err := limiter.IsLimited("1.2.3.4")
		require.NoError(t, err)
		assert.False(t, limited, "request %d", i)
	}

	limited, err := limiter.IsLimited("1.2.3.4")
	require.NoError(t, err)
	assert.True(t, limited)

	count, err := server.Get("ratelimit:fixed:1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, "5", count, "a limited request must not increment the counter")

	limited, err = limiter.IsLimited("5.6.7.8")
	require.NoError(t, err)
	assert.False(t, limited, "keys are counted independently")
}

func TestRedisFixedWindowRateLimiter_ResetsAfterWindow(t *testing.T) {
	server, client := newMiniredisClient(t)
	limiter := NewRedisFixedWindowRateLimiter(client, 2, time.Minute, nil)

	for i := 0; i < 2; i++ {
		_, err := limiter.IsLimited("1.2.3.4")
		require.NoError(t, err)
	}

	ttl := server.TTL("ratelimit:fixed:1.2.3.4")
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	limited, err := limiter.IsLimited("1.2.3.4")
	require.NoError(t, err)
	assert.True(t, limited)

	server.FastForward(time.Minute + time.Millisecond)

	limited, err = limiter.IsLimited("1.2.3.4")
	require.NoError(t, err)
	assert.False(t, limited, "a new window starts once the counter expires")
}
