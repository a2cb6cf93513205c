package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/weirdtraffic/internal/retry"
)

// ErrRateLimit is a 429 from the provider. RetryAfter is zero when the
// provider did not say how long to wait.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	msg := "rate limited"
	if e.RetryAfter > 0 {
		msg = fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the content did not decode or did not match the
// requested schema. Content keeps the raw payload for the request log.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable wraps transport failures and 5xx answers.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "LLM provider unavailable"
	}
	return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means generation stopped at the token limit, so
// Content is a truncated JSON document.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return fmt.Sprintf("LLM response truncated at max tokens (%d bytes received)", len(e.Content))
}

// decide maps a provider failure onto a retry decision. Truncation is final
// since a repeat hits the same limit; an invalid response gets one more try.
func decide(err error, invalidRetried *bool) retry.Decision {
	var (
		maxTok *ErrMaxTokensExceeded
		inv    *ErrInvalidResponse
		rl     *ErrRateLimit
	)
	switch {
	case errors.As(err, &maxTok):
		return retry.Decision{}
	case errors.As(err, &inv):
		if *invalidRetried {
			return retry.Decision{}
		}
		*invalidRetried = true
		return retry.Decision{Retry: true}
	case errors.As(err, &rl):
		return retry.Decision{Retry: true, After: rl.RetryAfter}
	}
	return retry.Decision{Retry: true}
}
