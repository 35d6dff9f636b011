package llm

import (
	"context"
)

// MockTextCompleter is a configurable mock for testing research flows.
// Set the function field to control behavior in tests.
type MockTextCompleter struct {
	// CompleteTextFunc is called when CompleteText is invoked.
	// If nil, returns empty string and nil error.
	CompleteTextFunc func(ctx context.Context, prompt string, model string, temperature float64) (string, error)

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	// Call tracking for verification
	CompleteTextCalls int
	Prompts           []string
}

// NewMockTextCompleter creates a new mock with sensible defaults.
func NewMockTextCompleter() *MockTextCompleter {
	return &MockTextCompleter{
		Model: "mock-model",
	}
}

// CompleteText implements TextCompleter.
func (m *MockTextCompleter) CompleteText(ctx context.Context, prompt string, model string, temperature float64) (string, error) {
	m.CompleteTextCalls++
	m.Prompts = append(m.Prompts, prompt)
	if m.CompleteTextFunc != nil {
		return m.CompleteTextFunc(ctx, prompt, model, temperature)
	}
	return "", nil
}

// GetModel implements TextCompleter.
func (m *MockTextCompleter) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// Reset clears call tracking.
func (m *MockTextCompleter) Reset() {
	m.CompleteTextCalls = 0
	m.Prompts = nil
}
