package llm

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
)

// MockResponse is one scripted answer of a MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider answers from a script, first in first out, and records every
// request it sees. Once the script runs dry it uses Fallback, or fails as
// unavailable when Fallback is nil.
type MockProvider struct {
	Fallback func(Request) MockResponse

	mu     sync.Mutex
	script []MockResponse
	Calls  []Request
}

// NewMockProvider returns a MockProvider playing responses in order.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{script: responses}
}

// EchoEmpty answers every request with an empty JSON object, which leaves
// any merged structure unchanged.
func EchoEmpty(Request) MockResponse {
	return MockResponse{Content: json.RawMessage(`{}`)}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	var (
		next MockResponse
		ok   bool
	)
	if len(m.script) > 0 {
		next, m.script, ok = m.script[0], m.script[1:], true
	}
	m.mu.Unlock()

	switch {
	case ok:
	case m.Fallback != nil:
		next = m.Fallback(req)
	default:
		return nil, &ErrProviderUnavailable{}
	}
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: "end"}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse queues another scripted answer.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	m.script = append(m.script, resp)
	m.mu.Unlock()
}

// CallCount is the number of Generate calls so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Requests returns a copy of the recorded requests.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.Calls)
}
