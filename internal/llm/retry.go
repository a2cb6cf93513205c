package llm

import (
	"context"

	"github.com/abhisek/weirdtraffic/internal/retry"
)

// RetryProvider retries transient errors with exponential backoff.
type RetryProvider struct {
	inner  Provider
	config retry.Config
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg retry.Config) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var out *Response
	invalidRetried := false

	err := retry.Do(ctx, r.config, func(err error) retry.Decision {
		return decide(err, &invalidRetried)
	}, func(ctx context.Context) error {
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

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}
