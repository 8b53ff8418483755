package ratelimit

import (
	"context"
	"time"
)

// Rate defines the rate limit configuration
type Rate struct {
	// Requests is the number of requests allowed in the window
	Requests int
	// Window is the time window for the rate limit
	Window time.Duration
}

// RateLimitInfo contains information about the current rate limit status
type RateLimitInfo struct {
	// Limit is the total number of requests allowed
	Limit int
	// Remaining is the number of requests remaining
	Remaining int
	// Reset is when the rate limit will reset
	Reset time.Time
}

// RateLimiter defines the interface for rate limiting implementations
type RateLimiter interface {
	// Allow checks if a request is allowed and returns rate limit info
	Allow(ctx context.Context, key string, limit Rate) (bool, RateLimitInfo)
	// Reset resets the rate limit for a key
	Reset(ctx context.Context, key string) error
}

// Console rate limits
var (
	// PublicLimit is for unauthenticated endpoints (30 req/min)
	PublicLimit = Rate{
		Requests: 30,
		Window:   time.Minute,
	}

	// ListLimit is for list reads and view changes per operator (240 req/min).
	// Typing in a search box produces one request per keystroke.
	ListLimit = Rate{
		Requests: 240,
		Window:   time.Minute,
	}

	// DeleteLimit is for single and bulk deletes per operator (30 req/min)
	DeleteLimit = Rate{
		Requests: 30,
		Window:   time.Minute,
	}
)
