// Package retry runs an operation with exponential backoff and jitter.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// Config configures retry behavior for transient failures.
type Config struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns three attempts starting at one second.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		InitialWait: 1 * time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
	}
}

// Decision is what a Classifier says about a failed attempt.
type Decision struct {
	// Retry reports whether another attempt may be made.
	Retry bool

	// After overrides the computed backoff when positive (e.g. Retry-After).
	After time.Duration
}

// Classifier inspects an error and decides whether to retry.
type Classifier func(err error) Decision

// Always retries every error except context cancellation.
func Always(err error) Decision {
	return Decision{Retry: true}
}

// Do calls fn until it succeeds, the classifier refuses, attempts run out or
// ctx is done. Context errors are never retried. The last error is returned.
func Do(ctx context.Context, cfg Config, classify Classifier, fn func(ctx context.Context) error) error {
	if classify == nil {
		classify = Always
	}
	attempts := max(cfg.MaxAttempts, 1)

	var lastErr error
	for attempt := range attempts {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		d := classify(err)
		if !d.Retry {
			return err
		}

		// Last attempt: don't sleep.
		if attempt == attempts-1 {
			break
		}

		wait := d.After
		if wait <= 0 {
			wait = Backoff(cfg, attempt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return lastErr
}

// Backoff computes the wait before the attempt following the given one,
// with ±20% jitter.
func Backoff(cfg Config, attempt int) time.Duration {
	mult := cfg.Multiplier
	if mult <= 0 {
		mult = 1
	}
	wait := float64(cfg.InitialWait) * math.Pow(mult, float64(attempt))
	if cfg.MaxWait > 0 && wait > float64(cfg.MaxWait) {
		wait = float64(cfg.MaxWait)
	}

	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
