package backend

import (
	"context"
	"errors"

	"github.com/abhisek/weirdtraffic/internal/retry"
)

// retryable decides whether a failed backend call should be repeated.
// Client errors (4xx other than 429) and empty results are permanent.
func retryable(err error) retry.Decision {
	var se *StatusError
	if errors.As(err, &se) {
		return retry.Decision{Retry: se.Temporary()}
	}
	if errors.Is(err, ErrNoImages) {
		return retry.Decision{Retry: false}
	}
	return retry.Decision{Retry: true}
}

type retryGenerator struct {
	inner Generator
	cfg   retry.Config
}

// WithGenerateRetry wraps a Generator with retry logic.
func WithGenerateRetry(g Generator, cfg retry.Config) Generator {
	return &retryGenerator{inner: g, cfg: cfg}
}

func (r *retryGenerator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var out *GenerateResponse
	err := retry.Do(ctx, r.cfg, retryable, func(ctx context.Context) error {
		resp, err := r.inner.Generate(ctx, req)
		if err != nil {
			return err
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *retryGenerator) Name() string { return r.inner.Name() }

type retryDetector struct {
	inner Detector
	cfg   retry.Config
}

// WithDetectRetry wraps a Detector with retry logic.
func WithDetectRetry(d Detector, cfg retry.Config) Detector {
	return &retryDetector{inner: d, cfg: cfg}
}

func (r *retryDetector) Detect(ctx context.Context, req DetectRequest) (*DetectResponse, error) {
	var out *DetectResponse
	err := retry.Do(ctx, r.cfg, retryable, func(ctx context.Context) error {
		resp, err := r.inner.Detect(ctx, req)
		if err != nil {
			return err
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *retryDetector) Name() string { return r.inner.Name() }
