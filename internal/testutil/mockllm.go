// Package testutil provides shared test doubles for the service and
// API layers.
package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/notestream/notestream/internal/llm"
)

// MockLLM provides deterministic completion responses for testing.
// It matches the last user message against registered patterns and
// returns the corresponding response.
//
// Thread-safe for concurrent use.
type MockLLM struct {
	mu        sync.Mutex
	responses []mockRule
	fallback  string
	err       error
	calls     []MockCall
}

type mockRule struct {
	pattern  string // substring match in the last user message
	response string
}

// MockCall records a single call to the mock client.
type MockCall struct {
	Messages    []llm.Message
	UserMessage string // last user message text
	Model       string
	APIKey      string
	Response    string
}

// NewMockLLM creates a mock client with the given fallback response.
// The fallback is returned when no pattern matches.
func NewMockLLM(fallback string) *MockLLM {
	return &MockLLM{fallback: fallback}
}

// AddResponse registers a pattern-response pair.
// When the last user message contains the pattern (case-insensitive),
// the response is returned. Patterns are checked in registration
// order; first match wins.
func (m *MockLLM) AddResponse(pattern, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockRule{
		pattern:  strings.ToLower(pattern),
		response: response,
	})
}

// FailWith makes every subsequent Complete call return err.
func (m *MockLLM) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns a copy of all recorded calls.
func (m *MockLLM) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]MockCall, len(m.calls))
	copy(cp, m.calls)
	return cp
}

// CallCount returns how many times Complete has been invoked.
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset clears all recorded calls and registered responses.
func (m *MockLLM) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.responses = nil
}

// Complete implements llm.Client.
func (m *MockLLM) Complete(_ context.Context, req llm.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}

	userMsg := lastUserMessage(req.Messages)
	response := m.fallback
	lower := strings.ToLower(userMsg)
	for _, rule := range m.responses {
		if strings.Contains(lower, rule.pattern) {
			response = rule.response
			break
		}
	}

	m.calls = append(m.calls, MockCall{
		Messages:    req.Messages,
		UserMessage: userMsg,
		Model:       req.Model,
		APIKey:      req.APIKey,
		Response:    response,
	})
	return response, nil
}

func lastUserMessage(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
