// Package resilience wraps outbound calls with retry and circuit breaking.
package resilience

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/sony/gobreaker"
)

type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
}

// Permanent marks an error that must not be retried.
type Permanent struct {
	Err error
}

func (p *Permanent) Error() string { return p.Err.Error() }
func (p *Permanent) Unwrap() error { return p.Err }

// RetryWithBackoff runs fn until it succeeds, returns a *Permanent error, or retries run out.
// The wait doubles each attempt, plus up to 50% jitter, and stops early when ctx is done.
func RetryWithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var perm *Permanent
		if errors.As(lastErr, &perm) {
			return perm.Err
		}

		if attempt == cfg.MaxRetries {
			break
		}

		backoff := cfg.InitialBackoff << attempt
		wait := backoff
		if half := int64(backoff / 2); half > 0 {
			wait += time.Duration(rand.Int64N(half))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return lastErr
}

// NewCircuitBreaker opens after 60% failures over at least 5 requests and probes again after 10s.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	})
}
