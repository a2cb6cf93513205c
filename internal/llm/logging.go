package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LoggingProvider records every request with latency, token usage and the
// estimated cost.
type LoggingProvider struct {
	inner Provider
	log   zerolog.Logger
}

// WithLogging wraps a Provider with request logging.
func WithLogging(p Provider, log zerolog.Logger) Provider {
	return &LoggingProvider{inner: p, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := l.log.Debug()
	if err != nil {
		ev = l.log.Warn().Err(err)
	}
	ev = ev.Str("model", l.inner.ModelID()).
		Str("purpose", PurposeFrom(ctx)).
		Int64("latency_ms", time.Since(start).Milliseconds()).
		Bool("success", err == nil)
	if req.Schema != nil {
		ev = ev.Str("schema", req.Schema.Name)
	}
	if resp != nil {
		ev = ev.Str("served_by", resp.Model).
			Int("input_tokens", resp.Usage.InputTokens).
			Int("output_tokens", resp.Usage.OutputTokens)
		if cost := LookupCost(resp.Model); cost != nil {
			ev = ev.Float64("cost_usd", cost.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens))
		}
	}
	ev.Msg("llm request")

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
