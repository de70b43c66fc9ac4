package ratelimit

import "time"

// UnlimitedRateLimiter never limits. Mount it as an override to exempt a controller
// from the router-wide limiter.
type UnlimitedRateLimiter struct{}

func NewUnlimitedRateLimiter() *UnlimitedRateLimiter {
	return &UnlimitedRateLimiter{}
}

func (UnlimitedRateLimiter) GetLimitDetails() (int, time.Duration) {
	return 0, 0
}

func (UnlimitedRateLimiter) IsLimited(string) (bool, error) {
	return false, nil
}

func (UnlimitedRateLimiter) Close() error {
	return nil
}

// IsUnlimited reports whether limiter is exempt from limiting.
func IsUnlimited(limiter RateLimiter) bool {
	switch limiter.(type) {
	case nil:
		return true
	case *UnlimitedRateLimiter, UnlimitedRateLimiter:
		return true
	}
	return false
}
