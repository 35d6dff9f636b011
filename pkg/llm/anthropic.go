package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"
)

const anthropicDefaultEndpoint = "https://api.anthropic.com/v1"

// anthropicMaxTokens caps response length on the Messages API, which requires
// an explicit limit on every request.
const anthropicMaxTokens = 4096

// AnthropicClient provides access to the Anthropic Messages API.
type AnthropicClient struct {
	client   *anthropic.Client
	endpoint string
	model    string
	logger   *zap.Logger
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(cfg *Config, logger *zap.Logger) (*AnthropicClient, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	endpoint := anthropicDefaultEndpoint
	opts := []anthropic.ClientOption{
		anthropic.WithHTTPClient(&http.Client{Timeout: completionTimeout}),
	}
	if cfg.Endpoint != "" {
		endpoint = strings.TrimSuffix(cfg.Endpoint, "/")
		opts = append(opts, anthropic.WithBaseURL(endpoint))
	}

	return &AnthropicClient{
		client:   anthropic.NewClient(cfg.APIKey, opts...),
		endpoint: endpoint,
		model:    cfg.Model,
		logger:   logger.Named("llm"),
	}, nil
}

// CompleteText sends a single user prompt and returns the raw response text.
func (a *AnthropicClient) CompleteText(ctx context.Context, prompt string, model string, temperature float64) (string, error) {
	if model == "" {
		model = a.model
	}

	a.logger.Debug("completion request",
		zap.String("model", model),
		zap.Int("prompt_len", len(prompt)),
		zap.Float64("temperature", temperature))

	start := time.Now()
	temp := float32(temperature)

	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(model),
		MaxTokens:   anthropicMaxTokens,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &prompt},
			}},
		},
	})
	if err != nil {
		a.logger.Error("completion request failed",
			zap.String("model", model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", a.classify(model, err)
	}

	text := extractTextFromResponse(resp)
	if text == "" {
		return "", NewError(ErrorTypeUnknown, "no text content in response", nil)
	}

	a.logger.Info("completion request completed",
		zap.String("model", model),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))

	return text, nil
}

// GetModel returns the configured default model name.
func (a *AnthropicClient) GetModel() string {
	return a.model
}

func (a *AnthropicClient) classify(model string, err error) error {
	llmErr := ClassifyError(err)
	llmErr.Model = model
	llmErr.Endpoint = a.endpoint
	return llmErr
}

// extractTextFromResponse returns the first text block of a response.
func extractTextFromResponse(resp anthropic.MessagesResponse) string {
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			return *block.Text
		}
	}
	return ""
}
