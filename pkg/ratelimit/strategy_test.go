package ratelimit

import (
	"testing"
	"time"
)

func TestInMemoryRateLimiter_IsLimited_IsPerKey(t *testing.T) {
	limiter := NewInMemoryRateLimiter(1, time.Second)

	limited, err := limiter.IsLimited("client-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limited {
		t.Fatalf("first request for client-a should not be limited")
	}

	limited, err = limiter.IsLimited("client-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !limited {
		t.Fatalf("second immediate request for client-a should be limited")
	}

	limited, err = limiter.IsLimited("client-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limited {
		t.Fatalf("first request for client-b should not be limited (per-key limiter)")
	}
}

func TestNewFixedWindowLimiter_WithoutRedisIsInMemory(t *testing.T) {
	limiter := NewFixedWindowLimiter(&RateLimitConfig{Requests: 5, Window: 15 * time.Minute})

	if _, ok := limiter.(*FixedWindowRateLimiter); !ok {
		t.Fatalf("expected *FixedWindowRateLimiter, got %T", limiter)
	}

	requests, window := limiter.GetLimitDetails()
	if requests != 5 || window != 15*time.Minute {
		t.Fatalf("unexpected limit details: %d per %s", requests, window)
	}
}

func TestUnlimitedRateLimiter_NeverLimits(t *testing.T) {
	limiter := NewUnlimitedRateLimiter()

	for i := 0; i < 100; i++ {
		limited, err := limiter.IsLimited("client")
		if err != nil || limited {
			t.Fatalf("request %d: limited=%v err=%v", i, limited, err)
		}
	}

	if !IsUnlimited(limiter) {
		t.Fatalf("expected IsUnlimited to recognise the unlimited limiter")
	}
	if IsUnlimited(NewInMemoryRateLimiter(1, time.Second)) {
		t.Fatalf("token bucket must not be reported as unlimited")
	}
}
