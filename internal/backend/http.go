package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxErrorBody bounds how much of a failed response body is kept.
const maxErrorBody = 2048

// HTTPClient speaks the generate/detect JSON contract over HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

var (
	_ Generator = (*HTTPClient)(nil)
	_ Detector  = (*HTTPClient)(nil)
)

// NewHTTPClient creates a client for the backend rooted at baseURL
// (e.g. "http://localhost:8000"). A zero timeout leaves requests bounded
// only by their context.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("backend URL is required")
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) Name() string { return "http" }

func (c *HTTPClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var out GenerateResponse
	if err := c.post(ctx, "/generate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Detect(ctx context.Context, req DetectRequest) (*DetectResponse, error) {
	var out DetectResponse
	if err := c.post(ctx, "/detect", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &ErrUnavailable{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
