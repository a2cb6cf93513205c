package session

import "github.com/abhisek/weirdtraffic/internal/backend"

// GenerationDoneMsg carries the outcome of a generation request back into
// the update loop.
type GenerationDoneMsg struct {
	// PlaceholderID is the image-choices message created for the request.
	PlaceholderID string
	Images        []string
	Err           error
}

// DetectionDoneMsg carries the outcome of a detection request back into the
// update loop.
type DetectionDoneMsg struct {
	MessageID string
	Response  *backend.DetectResponse
	Err       error
}
