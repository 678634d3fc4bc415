// Package llm provides text-generation clients for OpenAI, Azure OpenAI and Anthropic.
package llm

import (
	"context"
)

// GenerateResponseResult is a completion plus token usage.
type GenerateResponseResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// LLMClient defines the interface for LLM operations.
// Use this interface for dependency injection to enable mocking in tests.
type LLMClient interface {
	// GenerateResponse sends a system and user message and returns the first completion.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (*GenerateResponseResult, error)

	// GetModel returns the configured model (or Azure deployment) name.
	GetModel() string

	// GetProvider returns the provider identifier, e.g. "openai".
	GetProvider() string
}

// Ensure implementations satisfy LLMClient at compile time.
var (
	_ LLMClient = (*Client)(nil)
	_ LLMClient = (*AnthropicClient)(nil)
	_ LLMClient = (*BreakerClient)(nil)
	_ LLMClient = (*MockLLMClient)(nil)
)
