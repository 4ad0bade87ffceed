package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned answer for MockProvider.
type MockResponse struct {
	// Purpose, when set, reserves the answer for calls labelled with that
	// purpose. Concurrent narratives then get their own answers regardless
	// of call order.
	Purpose string
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays canned answers and records every request. It is
// used by tests and never selected by configuration.
type MockProvider struct {
	mu      sync.Mutex
	queue   []MockResponse
	Calls   []Request
	Purpose []string
}

// NewMockProvider queues responses in order.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

// AddResponse queues another answer.
func (m *MockProvider) AddResponse(r MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, r)
}

// Generate returns the first queued answer whose Purpose is empty or
// matches the call's purpose. It fails with ErrProviderUnavailable when
// nothing matches.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	purpose := PurposeFrom(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	m.Purpose = append(m.Purpose, purpose)

	for i, r := range m.queue {
		if r.Purpose != "" && r.Purpose != purpose {
			continue
		}
		m.queue = append(m.queue[:i:i], m.queue[i+1:]...)
		if r.Err != nil {
			return nil, r.Err
		}
		return &Response{Content: r.Content, Usage: r.Usage, Model: "mock"}, nil
	}
	return nil, &ErrProviderUnavailable{}
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// CallCount returns the number of Generate calls so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
