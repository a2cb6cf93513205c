package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/weirdtraffic/internal/backend"
)

type failingBackend struct{}

func (failingBackend) Name() string { return "failing" }

func (failingBackend) Generate(context.Context, backend.GenerateRequest) (*backend.GenerateResponse, error) {
	return nil, errors.New("model offline")
}

func (failingBackend) Detect(context.Context, backend.DetectRequest) (*backend.DetectResponse, error) {
	return nil, errors.New("model offline")
}

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	syn := backend.NewSynthetic(backend.SyntheticConfig{Images: 4, Size: 8, Seed: 7})
	ts := httptest.NewServer(New(syn, syn, opts...).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGenerate(t *testing.T) {
	ts := newTestServer(t)
	resp, out := post(t, ts.URL+"/generate", `{"prompt":"a goose directing traffic"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	images, ok := out["images"].([]any)
	require.True(t, ok)
	assert.Len(t, images, 4)
	first := images[0].(map[string]any)
	assert.NotEmpty(t, first["imageData"])
}

func TestDetect(t *testing.T) {
	ts := newTestServer(t)
	resp, out := post(t, ts.URL+"/detect", `{"prompt":"cow on a roundabout","imageBase64":"aGVsbG8="}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	score, ok := out["similarityScore"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
	assert.Equal(t, "aGVsbG8=", out["detectedImage"])
}

func TestDetect_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing image", `{"prompt":"x"}`, "Missing prompt or imageBase64"},
		{"missing prompt", `{"imageBase64":"aGk="}`, "Missing prompt or imageBase64"},
		{"empty object", `{}`, "Missing prompt or imageBase64"},
		{"not json", `{prompt:`, "Invalid JSON body"},
	}
	ts := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := post(t, ts.URL+"/detect", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.message, out["message"])
		})
	}
}

func TestGenerate_BadRequests(t *testing.T) {
	ts := newTestServer(t)

	resp, out := post(t, ts.URL+"/generate", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing prompt", out["message"])

	resp, out = post(t, ts.URL+"/generate", `nope`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid JSON body", out["message"])
}

func TestBackendFailureIs500(t *testing.T) {
	ts := httptest.NewServer(New(failingBackend{}, failingBackend{}).Handler())
	defer ts.Close()

	resp, out := post(t, ts.URL+"/generate", `{"prompt":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal Server Error", out["message"])

	resp, _ = post(t, ts.URL+"/detect", `{"prompt":"x","imageBase64":"aGk="}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, WithRateLimit(0.001, 1))

	resp, _ := post(t, ts.URL+"/detect", `{"prompt":"x","imageBase64":"aGk="}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, out := post(t, ts.URL+"/detect", `{"prompt":"x","imageBase64":"aGk="}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Too Many Requests", out["message"])

	// Health checks bypass the limiter.
	h, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	h.Body.Close()
	assert.Equal(t, http.StatusOK, h.StatusCode)
}

func TestRoundTripThroughHTTPClient(t *testing.T) {
	ts := newTestServer(t)
	client, err := backend.NewHTTPClient(ts.URL, 0)
	require.NoError(t, err)

	gen, err := client.Generate(context.Background(), backend.GenerateRequest{Prompt: "tractor in the fast lane"})
	require.NoError(t, err)
	refs := backend.ImageRefs(gen)
	require.Len(t, refs, 4)
	assert.True(t, strings.HasPrefix(refs[0], "data:image/png;base64,"))

	det, err := client.Detect(context.Background(), backend.DetectRequest{
		Prompt:      "tractor in the fast lane",
		ImageBase64: backend.StripDataURI(refs[0]),
	})
	require.NoError(t, err)
	assert.Equal(t, backend.StripDataURI(refs[0]), det.DetectedImage)
}
