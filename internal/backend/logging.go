package backend

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type loggingGenerator struct {
	inner Generator
	log   zerolog.Logger
}

// WithGenerateLogging records every generation call with its latency.
func WithGenerateLogging(g Generator, log zerolog.Logger) Generator {
	return &loggingGenerator{inner: g, log: log}
}

func (l *loggingGenerator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := l.log.Debug()
	if err != nil {
		ev = l.log.Warn().Err(err)
	}
	images := 0
	if resp != nil {
		images = len(resp.Images)
	}
	ev.Str("backend", l.inner.Name()).
		Str("call", "generate").
		Int("prompt_len", len(req.Prompt)).
		Int("images", images).
		Int64("latency_ms", time.Since(start).Milliseconds()).
		Bool("success", err == nil).
		Msg("backend call")

	return resp, err
}

func (l *loggingGenerator) Name() string { return l.inner.Name() }

type loggingDetector struct {
	inner Detector
	log   zerolog.Logger
}

// WithDetectLogging records every detection call with its latency and score.
func WithDetectLogging(d Detector, log zerolog.Logger) Detector {
	return &loggingDetector{inner: d, log: log}
}

func (l *loggingDetector) Detect(ctx context.Context, req DetectRequest) (*DetectResponse, error) {
	start := time.Now()
	resp, err := l.inner.Detect(ctx, req)

	ev := l.log.Debug()
	if err != nil {
		ev = l.log.Warn().Err(err)
	}
	if resp != nil {
		ev = ev.Float64("similarity", resp.SimilarityScore)
	}
	ev.Str("backend", l.inner.Name()).
		Str("call", "detect").
		Int64("latency_ms", time.Since(start).Milliseconds()).
		Bool("success", err == nil).
		Msg("backend call")

	return resp, err
}

func (l *loggingDetector) Name() string { return l.inner.Name() }
