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

// Client talks to OpenAI or Azure OpenAI chat completion endpoints.
type Client struct {
	client    *openai.Client
	provider  string
	model     string
	maxTokens int
	logger    *zap.Logger
}

// Config holds configuration for creating an OpenAI-compatible client.
type Config struct {
	APIKey    string
	Model     string        // Model name, or the deployment name for Azure
	BaseURL   string        // Optional override, e.g. a proxy; Azure endpoint for Azure
	Timeout   time.Duration // HTTP timeout; zero means no timeout
	MaxTokens int           // Zero leaves the provider default

	// Azure only
	Azure      bool
	APIVersion string
}

// NewClient creates an OpenAI client, or an Azure OpenAI client when cfg.Azure is set.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	var clientConfig openai.ClientConfig
	provider := "openai"
	if cfg.Azure {
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("azure endpoint is required")
		}
		provider = "azure-openai"
		clientConfig = openai.DefaultAzureConfig(cfg.APIKey, strings.TrimSuffix(cfg.BaseURL, "/"))
		if cfg.APIVersion != "" {
			clientConfig.APIVersion = cfg.APIVersion
		}
		deployment := cfg.Model
		clientConfig.AzureModelMapperFunc = func(string) string { return deployment }
	} else {
		clientConfig = openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
		}
	}

	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		client:    openai.NewClientWithConfig(clientConfig),
		provider:  provider,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    logger.Named("llm").With(zap.String("provider", provider)),
	}, nil
}

// GenerateResponse generates a chat completion response with usage stats.
func (c *Client) GenerateResponse(
	ctx context.Context,
	prompt string,
	systemMessage string,
	temperature float64,
) (*GenerateResponseResult, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}

	c.logger.Debug("LLM request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)),
		zap.Float64("temperature", temperature))

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: float32(temperature),
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		c.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		llmErr := ClassifyError(err)
		llmErr.Model = c.model
		return nil, llmErr
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, NewError(ErrorTypeEmpty, "response was empty", true, nil)
	}

	c.logger.Info("LLM request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return &GenerateResponseResult{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

// GetModel returns the configured model name.
func (c *Client) GetModel() string {
	return c.model
}

// GetProvider returns "openai" or "azure-openai".
func (c *Client) GetProvider() string {
	return c.provider
}
