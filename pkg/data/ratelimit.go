package data

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket shared by every request of a provider
type RateLimiter struct {
	limiter *rate.Limiter
	now     func() time.Time
}

// NewRateLimiter allows bursts of capacity requests and refills at
// requestsPerSecond. The bucket starts full.
func NewRateLimiter(capacity int, requestsPerSecond float64) *RateLimiter {
	if capacity < 1 {
		capacity = 1
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), capacity),
		now:     time.Now,
	}
}

// Allow takes a token if one is available
func (rl *RateLimiter) Allow() bool {
	return rl.limiter.AllowN(rl.now(), 1)
}

// Wait blocks until a token is available or ctx is done. It fails at once
// when ctx expires before the next token would.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}

// Tokens returns the tokens currently available
func (rl *RateLimiter) Tokens() float64 {
	return rl.limiter.TokensAt(rl.now())
}
