package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// NewProvider creates a Provider from configuration, wrapped as
// caller → retry → logging → base.
func NewProvider(ctx context.Context, cfg Config, log zerolog.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		m := NewMockProvider()
		m.Fallback = EchoEmpty
		return m, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, log), cfg.Retry), nil
}
