package assistant

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
)

// OpenAICompleter is the OpenAI small-talk provider.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter creates a new OpenAI provider.
func NewOpenAICompleter(apiKey string) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	return &OpenAICompleter{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
	}, nil
}

// Name returns the provider name.
func (c *OpenAICompleter) Name() string {
	return "openai"
}

// Complete sends a single-turn completion request.
func (c *OpenAICompleter) Complete(ctx context.Context, userMessage string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: 512,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
