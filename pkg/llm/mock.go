package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted Client for testing. Responses and errors are
// consumed in order; once exhausted it returns a default response.
type MockClient struct {
	mu sync.Mutex

	// Responses to return for each request, in order.
	Responses []string
	// Errors to return for each request, in order. A nil entry means
	// return the matching response instead.
	Errors []error

	// Calls records every prompt received.
	Calls []string

	index int
}

// NewMockClient creates a mock that replies with the given responses.
func NewMockClient(responses ...string) *MockClient {
	return &MockClient{Responses: responses}
}

func (m *MockClient) Complete(_ context.Context, prompt string, _ ...Option) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, prompt)

	i := m.index
	m.index++

	if i < len(m.Errors) && m.Errors[i] != nil {
		return "", m.Errors[i]
	}
	if i < len(m.Responses) {
		return m.Responses[i], nil
	}
	return "mock response", nil
}

func (m *MockClient) Close() error { return nil }

// CallCount reports how many completions were requested.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
