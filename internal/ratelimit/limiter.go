package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Limiter paces outbound requests to a rate-limited source
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit_limiter.go -package=mocks -mock_names=Limiter=MockLimiter
type Limiter interface {
	// Wait blocks until a request may be sent or the context is done
	Wait(ctx context.Context) error
}

type localLimiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a token bucket limiter.
// A non-positive rate disables pacing.
func NewLimiter(requestsPerSecond float64, burst int) Limiter {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}

	return &localLimiter{limiter: rate.NewLimiter(limit, burst)}
}

func (l *localLimiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("failed to acquire rate limit token: %w", err)
	}
	return nil
}
