package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/medcards-api/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	SuggestAnswerFn func(ctx context.Context, req generation.AnswerRequest) (string, error)

	// Default response values
	Answer string
	Err    error

	mu       sync.Mutex
	requests []generation.AnswerRequest
}

var _ generation.Generator = (*MockGenerator)(nil)

// SuggestAnswer implements the generation.Generator interface
func (m *MockGenerator) SuggestAnswer(ctx context.Context, req generation.AnswerRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.SuggestAnswerFn != nil {
		return m.SuggestAnswerFn(ctx, req)
	}
	return m.Answer, m.Err
}

// Requests returns the requests received so far.
func (m *MockGenerator) Requests() []generation.AnswerRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generation.AnswerRequest(nil), m.requests...)
}
