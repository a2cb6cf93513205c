// Package backend defines the image generation and detection contracts the
// game consumes, together with the clients and stand-ins that satisfy them.
package backend

import "context"

// GenerateRequest asks for candidate images for a prompt.
type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// GeneratedImage is one candidate. ImageData is base64 PNG data, optionally
// already wrapped in a data URI.
type GeneratedImage struct {
	ImageData string `json:"imageData"`
}

// GenerateResponse carries the generated candidates in display order.
type GenerateResponse struct {
	Images []GeneratedImage `json:"images"`
}

// DetectRequest asks how well an image matches the prompt it was made for.
type DetectRequest struct {
	Prompt      string `json:"prompt" validate:"required"`
	ImageBase64 string `json:"imageBase64" validate:"required"`
}

// DetectResponse reports the similarity (0-100) and the annotated image.
type DetectResponse struct {
	SimilarityScore float64 `json:"similarityScore"`
	DetectedImage   string  `json:"detectedImage"`
}

// Generator produces candidate images for a prompt.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Name identifies the backend in logs.
	Name() string
}

// Detector rates how well an image matches a prompt.
type Detector interface {
	Detect(ctx context.Context, req DetectRequest) (*DetectResponse, error)

	// Name identifies the backend in logs.
	Name() string
}
