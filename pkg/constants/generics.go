package constants

import "time"

// Router-wide rate limiting defaults, overridable through RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW.
const (
	DefaultRateLimitRequests      = 100
	DefaultRateLimitWindowMinutes = 1
)

// DefaultRateLimitWindow returns the default rate limit window duration
func DefaultRateLimitWindow() time.Duration {
	return time.Duration(DefaultRateLimitWindowMinutes) * time.Minute
}

// Contact submissions are capped per caller identifier. These are fixed.
const (
	ContactRateLimitRequests      = 5
	ContactRateLimitWindowMinutes = 15
)

func ContactRateLimitWindow() time.Duration {
	return time.Duration(ContactRateLimitWindowMinutes) * time.Minute
}

// Contact field limits, counted in characters after trimming.
const (
	ContactNameMaxLength    = 100
	ContactEmailMaxLength   = 255
	ContactMessageMaxLength = 2000
)

// UnknownClient is used when a caller cannot be identified.
const UnknownClient = "unknown"

const (
	DefaultMongoDatabase     = "portfolio"
	ContactMessageCollection = "messages"
)
