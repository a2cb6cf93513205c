package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/abhisek/weirdtraffic/internal/retry"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use. Empty disables the LLM.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      retry.Config

	// Timeout bounds a single request including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// DefaultConfig returns a Config with the cheap default models and no
// provider selected.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry:      retry.DefaultConfig(),
		Timeout:    30 * time.Second,
	}
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool { return c.Provider != "" }

// Discover fills in the provider from the standard API key variables
// (Gemini, OpenAI, Anthropic, OpenRouter in that order) when none is
// selected. It reports whether a provider is available afterwards.
func (c *Config) Discover(getenv func(string) string) bool {
	if c.Provider != "" {
		return true
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	switch {
	case getenv("GEMINI_API_KEY") != "":
		c.Provider = ProviderGemini
		c.Gemini.APIKey = getenv("GEMINI_API_KEY")
	case getenv("OPENAI_API_KEY") != "":
		c.Provider = ProviderOpenAI
		c.OpenAI.APIKey = getenv("OPENAI_API_KEY")
	case getenv("ANTHROPIC_API_KEY") != "":
		c.Provider = ProviderAnthropic
		c.Anthropic.APIKey = getenv("ANTHROPIC_API_KEY")
	case getenv("OPENROUTER_API_KEY") != "":
		c.Provider = ProviderOpenRouter
		c.OpenRouter.APIKey = getenv("OPENROUTER_API_KEY")
	default:
		return false
	}
	return true
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "", ProviderMock:
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("WEIRDTRAFFIC_LLM_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("WEIRDTRAFFIC_LLM_OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("WEIRDTRAFFIC_LLM_GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("WEIRDTRAFFIC_LLM_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
