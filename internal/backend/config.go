package backend

import (
	"fmt"
	"time"

	"github.com/abhisek/weirdtraffic/internal/retry"
)

// Kind selects which backend implementation the game talks to.
type Kind string

const (
	KindSynthetic Kind = "synthetic"
	KindHTTP      Kind = "http"
	KindOpenAI    Kind = "openai"
)

// Config holds backend selection and tuning.
type Config struct {
	Kind Kind

	// URL is the base URL of an HTTP backend. Required for KindHTTP; for
	// KindOpenAI it optionally points detection at an HTTP backend.
	URL string

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	Retry     retry.Config
	Synthetic SyntheticConfig
	OpenAI    OpenAIConfig
}

// DefaultConfig returns a synthetic backend with the reference latency.
func DefaultConfig() Config {
	return Config{
		Kind:      KindSynthetic,
		Timeout:   60 * time.Second,
		Retry:     retry.Config{MaxAttempts: 1},
		Synthetic: DefaultSyntheticConfig(),
	}
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Kind {
	case KindSynthetic:
	case KindHTTP:
		if c.URL == "" {
			return fmt.Errorf("backend.url is required for the http backend")
		}
	case KindOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("openai.api_key is required for the openai backend")
		}
	default:
		return fmt.Errorf("unknown backend kind: %q", c.Kind)
	}
	return nil
}
