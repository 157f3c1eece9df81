package oracle

import (
	"context"
	"sync"
)

// MockProvider returns a predefined sequence of completions for testing.
type MockProvider struct {
	mu        sync.Mutex
	responses []string
	err       error
	index     int
	requests  []CompletionRequest
}

// NewMockProvider creates a mock provider that yields the given message
// contents in order. The last response repeats once exhausted.
func NewMockProvider(responses ...string) *MockProvider {
	return &MockProvider{responses: responses}
}

// Fail makes every Complete call return err.
func (p *MockProvider) Fail(err error) *MockProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
	return p
}

// Name returns the provider name.
func (p *MockProvider) Name() string {
	return "mock"
}

// Complete implements the Provider interface.
func (p *MockProvider) Complete(_ context.Context, req CompletionRequest) (CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, req)
	if p.err != nil {
		return CompletionResponse{}, p.err
	}
	if len(p.responses) == 0 {
		return CompletionResponse{}, nil
	}

	i := p.index
	if i >= len(p.responses) {
		i = len(p.responses) - 1
	}
	p.index++
	return CompletionResponse{
		ID:      "mock-completion",
		Model:   "mock",
		Message: Message{Role: "assistant", Content: p.responses[i]},
	}, nil
}

// Requests returns the completion requests seen so far.
func (p *MockProvider) Requests() []CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]CompletionRequest, len(p.requests))
	copy(out, p.requests)
	return out
}
