package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Err: &ErrRateLimit{}},
	)

	resp, err := mock.Generate(context.Background(), UserPrompt("sys", "first", nil, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"a":1}` || resp.Usage.InputTokens != 10 || resp.StopReason != "end" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	_, err = mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}

	_, err = mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable from empty queue, got: %T", err)
	}

	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" || mock.Calls[0].Messages[0].Content != "first" {
		t.Fatalf("unexpected first call: %+v", mock.Calls[0])
	}
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}
	if p := PurposeFrom(WithPurpose(ctx, "word-bank")); p != "word-bank" {
		t.Fatalf("expected 'word-bank', got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled", Config{}, false},
		{"mock needs no key", Config{Provider: ProviderMock}, false},
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "k"}}, false},
		{"openai without key", Config{Provider: ProviderOpenAI}, true},
		{"gemini with key", Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k"}}, false},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, true},
		{"unknown provider", Config{Provider: "unknown"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Discover(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}

	cfg := DefaultConfig()
	if cfg.Discover(env(nil)) {
		t.Fatal("expected no provider without keys")
	}
	if cfg.Enabled() {
		t.Fatal("expected disabled config")
	}

	cfg = DefaultConfig()
	if !cfg.Discover(env(map[string]string{"OPENAI_API_KEY": "o", "ANTHROPIC_API_KEY": "a"})) {
		t.Fatal("expected provider")
	}
	if cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "o" {
		t.Fatalf("expected openai to win, got %q", cfg.Provider)
	}

	cfg = DefaultConfig()
	cfg.Provider = ProviderMock
	if !cfg.Discover(env(map[string]string{"GEMINI_API_KEY": "g"})) || cfg.Provider != ProviderMock {
		t.Fatal("explicit provider must not be replaced")
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nopLogger())
	if err != nil || p.ModelID() != "mock" {
		t.Fatalf("NewProvider(mock) = %v, %v", p, err)
	}

	if _, err := NewProvider(context.Background(), Config{Provider: "nope"}, nopLogger()); err == nil {
		t.Fatal("expected error for unknown provider")
	}

	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenAI
	cfg.OpenAI.APIKey = "k"
	p, err = NewProvider(context.Background(), cfg, nopLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*RetryProvider); !ok {
		t.Fatalf("expected retry decorator outermost, got %T", p)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Fatalf("ModelID = %q", p.ModelID())
	}
}

func TestMockProvider_FallbackAfterScript(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"n":1}`)})
	mock.Fallback = EchoEmpty

	for i, want := range []string{`{"n":1}`, `{}`, `{}`} {
		resp, err := mock.Generate(context.Background(), Request{})
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if string(resp.Content) != want {
			t.Fatalf("call %d: content = %s, want %s", i, resp.Content, want)
		}
	}
	if got := len(mock.Requests()); got != 3 {
		t.Fatalf("expected 3 recorded requests, got %d", got)
	}
}
