package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoImages indicates a generation response without any usable image.
var ErrNoImages = errors.New("generation returned no images")

// StatusError indicates the backend answered with a non-success status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Body)
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// ErrUnavailable indicates the backend could not be reached.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend unavailable: %v", e.Err)
	}
	return "backend unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }
