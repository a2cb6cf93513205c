package backend

import (
	"fmt"

	"github.com/rs/zerolog"
)

// New builds the Generator and Detector selected by cfg, each wrapped with
// middleware: caller → retry → logging → base.
func New(cfg Config, log zerolog.Logger) (Generator, Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	var (
		gen Generator
		det Detector
	)

	switch cfg.Kind {
	case KindSynthetic:
		s := NewSynthetic(cfg.Synthetic)
		gen, det = s, s
	case KindHTTP:
		c, err := NewHTTPClient(cfg.URL, cfg.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing http backend: %w", err)
		}
		gen, det = c, c
	case KindOpenAI:
		g, err := NewOpenAIGenerator(cfg.OpenAI)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing openai backend: %w", err)
		}
		gen = g
		// No hosted detector exists; use an HTTP backend when configured.
		if cfg.URL != "" {
			c, err := NewHTTPClient(cfg.URL, cfg.Timeout)
			if err != nil {
				return nil, nil, fmt.Errorf("initializing http detector: %w", err)
			}
			det = c
		} else {
			det = NewSynthetic(cfg.Synthetic)
		}
	}

	log = log.With().Str("component", "backend").Logger()
	gen = WithGenerateRetry(WithGenerateLogging(gen, log), cfg.Retry)
	det = WithDetectRetry(WithDetectLogging(det, log), cfg.Retry)
	return gen, det, nil
}
