package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gpt-4o-mini"

// ErrEmptyCompletion is returned when the service answers without text.
var ErrEmptyCompletion = errors.New("LLM returned no text")

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// New creates a new LLM client.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Client{
		api:     openai.NewClientWithConfig(config),
		model:   modelName,
		timeout: 90 * time.Second,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Complete sends one system and one user message and returns the trimmed
// answer text.
func (c *Client) Complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	slog.Debug("LLM response", "model", c.model, "chars", len(text), "took", time.Since(start))
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// Ping checks that the API is reachable and the key is accepted by listing
// models.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("LLM ping: %w", err)
	}
	return nil
}
