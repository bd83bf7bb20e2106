package assistant

import (
	"context"
)

// systemPrompt frames the LLM for small-talk replies. Structured lookups
// never go through the LLM; it only handles messages the intent router
// could not resolve against the store.
const systemPrompt = "You are a friendly support assistant for an online store. " +
	"Answer briefly and helpfully. If the customer asks about a specific order " +
	"or product, ask them for the order number or product name."

// Completer is the interface for LLM providers.
type Completer interface {
	// Complete returns a reply to the user message.
	Complete(ctx context.Context, userMessage string) (string, error)

	// Name returns the provider name.
	Name() string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// NewCompleter creates an LLM client based on provider.
func NewCompleter(provider Provider, apiKey string) (Completer, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAICompleter(apiKey)
	default:
		return NewAnthropicCompleter(apiKey)
	}
}
