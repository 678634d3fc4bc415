package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/pkg/config"
)

type capturedRequest struct {
	path     string
	query    string
	auth     string
	apiKey   string
	body     map[string]any
	messages []map[string]any
}

func chatCompletionServer(t *testing.T, status int, content string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.query = r.URL.RawQuery
		captured.auth = r.Header.Get("Authorization")
		captured.apiKey = r.Header.Get("api-key")

		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		captured.body = body
		if msgs, ok := body["messages"].([]any); ok {
			for _, m := range msgs {
				captured.messages = append(captured.messages, m.(map[string]any))
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"choices": []any{map[string]any{"index": 0, "message": map[string]any{"role": "assistant", "content": content}}},
			"usage":   map[string]any{"prompt_tokens": 12, "completion_tokens": 7, "total_tokens": 19},
		})
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func TestClient_GenerateResponse_OpenAI(t *testing.T) {
	server, captured := chatCompletionServer(t, http.StatusOK, `{"ok": true}`)

	client, err := NewClient(&Config{APIKey: "sk-test", Model: "gpt-4.1-mini", BaseURL: server.URL + "/v1/"}, zap.NewNop())
	require.NoError(t, err)

	result, err := client.GenerateResponse(context.Background(), "hello", "be terse", 0.5)
	require.NoError(t, err)

	assert.Equal(t, `{"ok": true}`, result.Content)
	assert.Equal(t, 12, result.PromptTokens)
	assert.Equal(t, 19, result.TotalTokens)

	assert.Equal(t, "/v1/chat/completions", captured.path)
	assert.Equal(t, "Bearer sk-test", captured.auth)
	assert.Equal(t, "gpt-4.1-mini", captured.body["model"])
	assert.InDelta(t, 0.5, captured.body["temperature"], 1e-6)
	require.Len(t, captured.messages, 2)
	assert.Equal(t, "system", captured.messages[0]["role"])
	assert.Equal(t, "be terse", captured.messages[0]["content"])
	assert.Equal(t, "user", captured.messages[1]["role"])

	assert.Equal(t, "openai", client.GetProvider())
}

func TestClient_GenerateResponse_Azure(t *testing.T) {
	server, captured := chatCompletionServer(t, http.StatusOK, "hi")

	client, err := NewClient(&Config{
		Azure:      true,
		APIKey:     "azure-key",
		BaseURL:    server.URL,
		Model:      "newsletter-deployment",
		APIVersion: "2024-10-21",
	}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.GenerateResponse(context.Background(), "hello", "system", 0.5)
	require.NoError(t, err)

	assert.Equal(t, "/openai/deployments/newsletter-deployment/chat/completions", captured.path)
	assert.Contains(t, captured.query, "api-version=2024-10-21")
	assert.Equal(t, "azure-key", captured.apiKey)
	assert.Equal(t, "azure-openai", client.GetProvider())
}

func TestClient_GenerateResponse_ServerErrorIsRetryable(t *testing.T) {
	server, _ := chatCompletionServer(t, http.StatusServiceUnavailable, "")

	client, err := NewClient(&Config{APIKey: "sk", Model: "m", BaseURL: server.URL}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.GenerateResponse(context.Background(), "p", "s", 0.5)
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, ErrorTypeEndpoint, GetErrorType(err))
}

func TestClient_GenerateResponse_EmptyContent(t *testing.T) {
	server, _ := chatCompletionServer(t, http.StatusOK, "")

	client, err := NewClient(&Config{APIKey: "sk", Model: "m", BaseURL: server.URL}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.GenerateResponse(context.Background(), "p", "s", 0.5)
	require.Error(t, err)
	assert.Equal(t, ErrorTypeEmpty, GetErrorType(err))
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(&Config{Model: "m"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewClient(&Config{APIKey: "k"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewClient(&Config{APIKey: "k", Model: "d", Azure: true}, zap.NewNop())
	assert.Error(t, err, "azure requires an endpoint")

	_, err = NewAnthropicClient("", "claude", 0, zap.NewNop())
	assert.Error(t, err)
}

func TestNewClientFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.AIConfig
		provider string
		model    string
	}{
		{
			name:     "azure",
			cfg:      config.AIConfig{AzureEndpoint: "https://x.openai.azure.com", AzureAPIKey: "k", AzureDeployment: "dep", AzureAPIVersion: "2024-10-21"},
			provider: "azure-openai",
			model:    "dep",
		},
		{
			name:     "openai",
			cfg:      config.AIConfig{OpenAIAPIKey: "sk", OpenAIModel: "gpt-4.1-mini"},
			provider: "openai",
			model:    "gpt-4.1-mini",
		},
		{
			name:     "anthropic",
			cfg:      config.AIConfig{AnthropicAPIKey: "ak", AnthropicModel: "claude-3-5-haiku-20241022"},
			provider: "anthropic",
			model:    "claude-3-5-haiku-20241022",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClientFromConfig(&tt.cfg, zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, tt.provider, client.GetProvider())
			assert.Equal(t, tt.model, client.GetModel())
		})
	}
}

func TestNewClientFromConfig_Invalid(t *testing.T) {
	_, err := NewClientFromConfig(&config.AIConfig{}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewClientFromConfig(&config.AIConfig{AzureAPIKey: "k"}, zap.NewNop())
	assert.Error(t, err)
}
