package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Groq serves an OpenAI-compatible chat completion API, so the go-openai
// client is reused with a different base URL.
const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.1-8b-instant"
)

// ErrNoChoices is returned when the provider answers without any choice.
var ErrNoChoices = errors.New("llm: response contained no choices")

// Client sends one single-turn conversation (system + user) to the provider
// and returns the assistant's text.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Config holds the provider settings.  It is built once at startup and
// passed in, never read from the environment here.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout bounds a single completion call.  Zero means no bound.
	Timeout time.Duration
}

// OpenAIClient calls an OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIClient constructs a client from cfg, filling in the Groq endpoint
// and model when they are left empty.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = DefaultBaseURL
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIClient{
		client:  openai.NewClientWithConfig(oc),
		model:   model,
		timeout: cfg.Timeout,
	}
}

// Model reports the model identifier sent with every request.
func (c *OpenAIClient) Model() string { return c.model }

// Complete sends the system prompt and user message and returns the first
// choice's content unchanged.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion (%s): %w", c.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}
