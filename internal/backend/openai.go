package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the OpenAI image generator.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "dall-e-2"
	BaseURL string // Optional. Override for compatible APIs.
	Images  int    // Candidates per prompt. Default: 4
	Size    string // Default: "512x512"
}

// OpenAIGenerator implements Generator with the OpenAI images API,
// requesting base64 payloads so no second download is needed.
type OpenAIGenerator struct {
	client *openai.Client
	cfg    OpenAIConfig
}

var _ Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator creates an OpenAI-backed generator.
func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = openai.CreateImageModelDallE2
	}
	if cfg.Images <= 0 {
		cfg.Images = 4
	}
	if cfg.Size == "" {
		cfg.Size = openai.CreateImageSize512x512
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
	}, nil
}

func (g *OpenAIGenerator) Name() string { return "openai:" + g.cfg.Model }

func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          g.cfg.Model,
		N:              g.cfg.Images,
		Size:           g.cfg.Size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	out := &GenerateResponse{Images: make([]GeneratedImage, 0, len(resp.Data))}
	for _, d := range resp.Data {
		if d.B64JSON == "" {
			continue
		}
		out.Images = append(out.Images, GeneratedImage{ImageData: d.B64JSON})
	}
	return out, nil
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &StatusError{Code: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode >= http.StatusBadRequest {
		return &StatusError{Code: reqErr.HTTPStatusCode, Body: reqErr.Error()}
	}
	return &ErrUnavailable{Err: err}
}
