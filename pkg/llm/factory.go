package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/pkg/config"
)

// NewClientFromConfig builds the client for the provider selected by cfg.Provider(),
// wrapped in a circuit breaker.
func NewClientFromConfig(cfg *config.AIConfig, logger *zap.Logger) (LLMClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		client LLMClient
		err    error
	)

	switch provider := cfg.Provider(); provider {
	case config.AIProviderAzureOpenAI:
		client, err = NewClient(&Config{
			Azure:      true,
			APIKey:     cfg.AzureAPIKey,
			BaseURL:    cfg.AzureEndpoint,
			Model:      cfg.AzureDeployment,
			APIVersion: cfg.AzureAPIVersion,
			Timeout:    cfg.RequestTimeout,
			MaxTokens:  cfg.MaxTokens,
		}, logger)
	case config.AIProviderOpenAI:
		client, err = NewClient(&Config{
			APIKey:    cfg.OpenAIAPIKey,
			BaseURL:   cfg.OpenAIBaseURL,
			Model:     cfg.OpenAIModel,
			Timeout:   cfg.RequestTimeout,
			MaxTokens: cfg.MaxTokens,
		}, logger)
	case config.AIProviderAnthropic:
		client, err = NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.MaxTokens, logger)
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.Provider(), err)
	}

	return NewBreakerClient(client, NewCircuitBreaker(DefaultCircuitBreakerConfig())), nil
}
