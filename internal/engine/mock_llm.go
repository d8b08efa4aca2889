package engine

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// MockCompleter is a test implementation of the Completer interface. With no
// queued responses it echoes a benign classification for every article id it
// finds in the prompt; queued responses and errors are returned in order.
type MockCompleter struct {
	responses []string
	errors    []error
	prompts   []string
	calls     int
	mu        sync.Mutex
}

// NewMockCompleter creates a new mock LLM completer.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// QueueResponse adds a canned response returned by a future Complete call.
func (m *MockCompleter) QueueResponse(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, response)
	m.errors = append(m.errors, nil)
}

// QueueError adds an error returned by a future Complete call.
func (m *MockCompleter) QueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, "")
	m.errors = append(m.errors, err)
}

// Calls returns how many times Complete was invoked.
func (m *MockCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Prompts returns the user prompts received so far.
func (m *MockCompleter) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Complete returns the next queued response or a generated benign one.
func (m *MockCompleter) Complete(_ context.Context, _ string, user string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.calls
	m.calls++
	m.prompts = append(m.prompts, user)

	if idx < len(m.responses) {
		if m.errors[idx] != nil {
			return "", m.errors[idx]
		}
		return m.responses[idx], nil
	}

	return m.generateResponse(user), nil
}

// generateResponse produces a NONE classification for every article id
// present in the prompt.
func (m *MockCompleter) generateResponse(prompt string) string {
	var elements []map[string]any
	for _, line := range strings.Split(prompt, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "Article ID:") {
			continue
		}
		id := strings.TrimSpace(strings.TrimPrefix(line, "Article ID:"))
		elements = append(elements, map[string]any{
			"id":           id,
			"threatLevel":  "NONE",
			"threatType":   "N/A",
			"industries":   []string{},
			"alertMatches": []string{},
			"isSpam":       false,
		})
	}

	data, err := json.Marshal(elements)
	if err != nil {
		return "[]"
	}
	return string(data)
}
