// Package llm wraps the LLM provider behind an opaque invocation
// interface. The provider is potentially slow and potentially failing;
// this package does not retry, and callers own any timeout beyond the
// client's request timeout.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fieldside-ai/fieldside/pkg/models"
)

// Invoker sends a conversation to the LLM and returns the response text.
type Invoker interface {
	Invoke(ctx context.Context, messages []models.ChatMessage) (string, error)
}

// Config holds LLM client configuration.
type Config struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns sensible client defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
		Timeout: 60 * time.Second,
	}
}

// Client is an OpenAI-compatible chat-completions client.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient creates a Client from the given configuration.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultConfig().Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// advisoryTemperature is set low for consistent coaching advice.
const advisoryTemperature = 0.3

// Invoke sends the messages to the chat-completions endpoint and returns
// the first choice's content.
func (c *Client) Invoke(ctx context.Context, messages []models.ChatMessage) (string, error) {
	temp := advisoryTemperature
	body, err := json.Marshal(models.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: &temp,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := c.cfg.BaseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp models.ChatCompletionResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response from AI model")
	}
	return chatResp.Choices[0].Message.Content, nil
}
