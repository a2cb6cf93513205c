// Package config loads settings from flags, WEIRDTRAFFIC_* environment
// variables, an optional config file and defaults, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/weirdtraffic/internal/backend"
	"github.com/abhisek/weirdtraffic/internal/llm"
	"github.com/abhisek/weirdtraffic/internal/modal"
	"github.com/abhisek/weirdtraffic/internal/narration"
	"github.com/abhisek/weirdtraffic/internal/retry"
	"github.com/abhisek/weirdtraffic/internal/scoring"
	"github.com/abhisek/weirdtraffic/internal/session"
)

// EnvPrefix prefixes every environment variable, e.g. WEIRDTRAFFIC_BACKEND_URL.
const EnvPrefix = "WEIRDTRAFFIC"

// Config is the typed view of all settings.
type Config struct {
	Backend backend.Config
	Serve   ServeConfig
	Game    GameConfig
	LLM     llm.Config
	Log     LogConfig
}

// ServeConfig configures the stand-in backend server.
type ServeConfig struct {
	Addr string

	// Rate and Burst limit requests per second across all clients.
	// Zero rate disables limiting.
	Rate  float64
	Burst int
}

// GameConfig tunes the session and its presentation.
type GameConfig struct {
	ModalThreshold int
	ModalDelay     time.Duration
	StageDelay     time.Duration
	CharDelay      time.Duration
	MaxScore       int
	MaxIncrement   int
}

// LogConfig selects the log destination and verbosity.
type LogConfig struct {
	Level string

	// File receives logs while the TUI owns the terminal. Empty uses the
	// default state directory.
	File string
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	b := backend.DefaultConfig()
	l := llm.DefaultConfig()

	v.SetDefault("backend.kind", string(b.Kind))
	v.SetDefault("backend.url", "")
	v.SetDefault("backend.timeout", b.Timeout)
	v.SetDefault("backend.retries", b.Retry.MaxAttempts)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "dall-e-2")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.image_count", 4)
	v.SetDefault("openai.size", "512x512")

	v.SetDefault("synthetic.delay", b.Synthetic.Delay)
	v.SetDefault("synthetic.images", b.Synthetic.Images)
	v.SetDefault("synthetic.size", b.Synthetic.Size)
	v.SetDefault("synthetic.seed", 0)

	v.SetDefault("serve.addr", "127.0.0.1:8787")
	v.SetDefault("serve.rate", 5.0)
	v.SetDefault("serve.burst", 10)

	v.SetDefault("game.modal_threshold", session.DefaultModalThreshold)
	v.SetDefault("game.modal_delay", modal.DefaultDelay)
	v.SetDefault("game.max_score", scoring.DefaultMaxScore)
	v.SetDefault("game.max_increment", scoring.DefaultMaxIncrement)
	v.SetDefault("narration.stage_delay", narration.DefaultStageDelay)
	v.SetDefault("narration.char_delay", narration.DefaultCharDelay)

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", l.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", l.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", l.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", l.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", l.OpenRouter.Model)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges a config file into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return nil
}

// Load builds the typed Config from v.
func Load(v *viper.Viper) (Config, error) {
	retries := retry.DefaultConfig()
	retries.MaxAttempts = max(v.GetInt("backend.retries"), 1)

	cfg := Config{
		Backend: backend.Config{
			Kind:    backend.Kind(strings.ToLower(v.GetString("backend.kind"))),
			URL:     v.GetString("backend.url"),
			Timeout: v.GetDuration("backend.timeout"),
			Retry:   retries,
			Synthetic: backend.SyntheticConfig{
				Delay:  v.GetDuration("synthetic.delay"),
				Images: v.GetInt("synthetic.images"),
				Size:   v.GetInt("synthetic.size"),
				Seed:   v.GetUint64("synthetic.seed"),
			},
			OpenAI: backend.OpenAIConfig{
				APIKey:  v.GetString("openai.api_key"),
				Model:   v.GetString("openai.model"),
				BaseURL: v.GetString("openai.base_url"),
				Images:  v.GetInt("openai.image_count"),
				Size:    v.GetString("openai.size"),
			},
		},
		Serve: ServeConfig{
			Addr:  v.GetString("serve.addr"),
			Rate:  v.GetFloat64("serve.rate"),
			Burst: v.GetInt("serve.burst"),
		},
		Game: GameConfig{
			ModalThreshold: v.GetInt("game.modal_threshold"),
			ModalDelay:     v.GetDuration("game.modal_delay"),
			StageDelay:     v.GetDuration("narration.stage_delay"),
			CharDelay:      v.GetDuration("narration.char_delay"),
			MaxScore:       v.GetInt("game.max_score"),
			MaxIncrement:   v.GetInt("game.max_increment"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
	}

	l := llm.DefaultConfig()
	l.Provider = strings.ToLower(v.GetString("llm.provider"))
	l.Timeout = v.GetDuration("llm.timeout")
	l.Anthropic = llm.AnthropicConfig{APIKey: v.GetString("llm.anthropic.api_key"), Model: v.GetString("llm.anthropic.model")}
	l.OpenAI = llm.OpenAIConfig{
		APIKey:  v.GetString("llm.openai.api_key"),
		Model:   v.GetString("llm.openai.model"),
		BaseURL: v.GetString("llm.openai.base_url"),
	}
	l.Gemini = llm.GeminiConfig{APIKey: v.GetString("llm.gemini.api_key"), Model: v.GetString("llm.gemini.model")}
	l.OpenRouter = llm.OpenRouterConfig{APIKey: v.GetString("llm.openrouter.api_key"), Model: v.GetString("llm.openrouter.model")}
	cfg.LLM = l

	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	var errs []error
	if err := c.Backend.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.LLM.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Game.ModalThreshold < 1 {
		errs = append(errs, fmt.Errorf("game.modal_threshold must be at least 1, got %d", c.Game.ModalThreshold))
	}
	if c.Game.MaxScore < 1 || c.Game.MaxIncrement < 1 {
		errs = append(errs, errors.New("game.max_score and game.max_increment must be positive"))
	}
	if c.Serve.Rate < 0 || c.Serve.Burst < 0 {
		errs = append(errs, errors.New("serve.rate and serve.burst must not be negative"))
	}
	if c.Backend.Synthetic.Images < 1 {
		errs = append(errs, fmt.Errorf("synthetic.images must be at least 1, got %d", c.Backend.Synthetic.Images))
	}
	return errors.Join(errs...)
}
