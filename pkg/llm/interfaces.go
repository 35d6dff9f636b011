// Package llm provides the model-provider clients behind competitor
// discovery and research.
package llm

import (
	"context"
)

// TextCompleter defines the single-turn text generation operation the
// research pipeline depends on. Use this interface for dependency injection
// to enable mocking in tests.
type TextCompleter interface {
	// CompleteText sends one user prompt and returns the raw response text.
	// An empty model selects the client's configured default.
	CompleteText(ctx context.Context, prompt string, model string, temperature float64) (string, error)

	// GetModel returns the configured default model name.
	GetModel() string
}

// Ensure implementations satisfy TextCompleter at compile time.
var (
	_ TextCompleter = (*Client)(nil)
	_ TextCompleter = (*AnthropicClient)(nil)
	_ TextCompleter = (*MockTextCompleter)(nil)
)
