package mocks

import (
	"context"
	"errors"
	"sync"

	"google.golang.org/genai"
)

// GenerateCall records the arguments of one GenerateContent invocation.
type GenerateCall struct {
	Model    string
	Contents []*genai.Content
	Config   *genai.GenerateContentConfig
}

// MockGenerator implements upstream.ContentGenerator for tests. It records
// every call and answers with GenerateFunc.
//
// Example usage:
//
//	gen := NewMockGenerator(func(ctx context.Context, call GenerateCall) (*genai.GenerateContentResponse, error) {
//	    return TextResponse("mocked summary"), nil
//	})
type MockGenerator struct {
	GenerateFunc func(context.Context, GenerateCall) (*genai.GenerateContentResponse, error)

	mu    sync.Mutex
	calls []GenerateCall
}

// NewMockGenerator creates a MockGenerator. With a nil generateFunc every
// call returns an empty response and no error.
func NewMockGenerator(generateFunc func(context.Context, GenerateCall) (*genai.GenerateContentResponse, error)) *MockGenerator {
	return &MockGenerator{GenerateFunc: generateFunc}
}

// NewFailingGenerator returns a MockGenerator whose calls fail with message.
func NewFailingGenerator(message string) *MockGenerator {
	return NewMockGenerator(func(context.Context, GenerateCall) (*genai.GenerateContentResponse, error) {
		return nil, errors.New(message)
	})
}

// GenerateContent records the call and delegates to GenerateFunc.
func (m *MockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	call := GenerateCall{Model: model, Contents: contents, Config: config}

	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, call)
	}
	return &genai.GenerateContentResponse{}, nil
}

// Calls returns a copy of the recorded calls.
func (m *MockGenerator) Calls() []GenerateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]GenerateCall(nil), m.calls...)
}

// CallCount returns how many times GenerateContent was invoked.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// TextResponse builds a response with one candidate carrying text.
func TextResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}
