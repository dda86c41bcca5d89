// Package generator wraps the OpenAI-compatible chat completion endpoint
// used to draft replies. One round-trip per reply; no retries.
package generator

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lysyi3m/mention-comb/app/cfg"
)

type Client struct {
	api   *openai.Client
	model string
}

func NewClient() *Client {
	c := cfg.Get()

	// The endpoint serves chat completions at <base>/chat/completions, so
	// the configured base URL is used as-is without the /v1 segment.
	apiConfig := openai.DefaultConfig(c.GeneratorKey)
	apiConfig.BaseURL = c.GeneratorURL

	return &Client{
		api:   openai.NewClientWithConfig(apiConfig),
		model: c.GeneratorModel,
	}
}

// Chat sends the system and user instructions and returns the generated
// text. A response without choices is an error.
func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
