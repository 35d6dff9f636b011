package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// completionTimeout bounds a single completion round trip. Research prompts
// produce multi-series JSON and can run long.
const completionTimeout = 2 * time.Minute

// Client provides access to OpenAI and OpenAI-compatible endpoints.
type Client struct {
	client   *openai.Client
	endpoint string
	model    string
	logger   *zap.Logger
}

// Config holds configuration for creating a provider client.
type Config struct {
	Endpoint string // Optional base URL override, e.g. for gateways/proxies
	Model    string // Default model name, e.g. "gpt-4"
	APIKey   string
}

// NewClient creates a new OpenAI-compatible client.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.HTTPClient = &http.Client{Timeout: completionTimeout}
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")
	}

	return &Client{
		client:   openai.NewClientWithConfig(clientConfig),
		endpoint: clientConfig.BaseURL,
		model:    cfg.Model,
		logger:   logger.Named("llm"),
	}, nil
}

// CompleteText sends a single user prompt and returns the raw response text.
func (c *Client) CompleteText(ctx context.Context, prompt string, model string, temperature float64) (string, error) {
	if model == "" {
		model = c.model
	}

	c.logger.Debug("completion request",
		zap.String("model", model),
		zap.Int("prompt_len", len(prompt)),
		zap.Float64("temperature", temperature))

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(temperature),
	})
	if err != nil {
		c.logger.Error("completion request failed",
			zap.String("model", model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", c.classify(model, err)
	}

	if len(resp.Choices) == 0 {
		return "", NewError(ErrorTypeUnknown, "no choices in response", nil)
	}

	c.logger.Info("completion request completed",
		zap.String("model", model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return resp.Choices[0].Message.Content, nil
}

// GetModel returns the configured default model name.
func (c *Client) GetModel() string {
	return c.model
}

// classify attaches request context to a classified provider error.
func (c *Client) classify(model string, err error) error {
	llmErr := ClassifyError(err)
	llmErr.Model = model
	llmErr.Endpoint = c.endpoint
	return llmErr
}
