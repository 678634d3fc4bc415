package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ekaya-inc/bizget-engine/pkg/llm"
	"github.com/ekaya-inc/bizget-engine/pkg/retry"
)

func TestIsRetryable_WithLLMError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "retryable llm.Error (503)",
			err:      llm.NewError(llm.ErrorTypeEndpoint, "server error", true, errors.New("HTTP 503")),
			expected: true,
		},
		{
			name:     "rate limited",
			err:      llm.NewError(llm.ErrorTypeRateLimit, "rate limited", true, nil),
			expected: true,
		},
		{
			name:     "auth failure with retryable-looking cause",
			err:      llm.NewError(llm.ErrorTypeAuth, "authentication failed", false, errors.New("HTTP 503")),
			expected: false,
		},
		{
			name:     "classified empty response",
			err:      llm.NewError(llm.ErrorTypeEmpty, "response was empty", true, nil),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retry.IsRetryable(tt.err); got != tt.expected {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDoIfRetryable_WithMockLLMClient(t *testing.T) {
	mock := llm.NewMockLLMClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (*llm.GenerateResponseResult, error) {
		if mock.GenerateResponseCalls < 3 {
			return nil, llm.NewError(llm.ErrorTypeRateLimit, "rate limited", true, nil)
		}
		return &llm.GenerateResponseResult{Content: "done"}, nil
	}

	cfg := &retry.Config{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
	result, err := retry.DoIfRetryableWithResult(context.Background(), cfg, func() (*llm.GenerateResponseResult, error) {
		return mock.GenerateResponse(context.Background(), "p", "s", 0.5)
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if result.Content != "done" {
		t.Errorf("unexpected content %q", result.Content)
	}
	if mock.Calls() != 3 {
		t.Errorf("expected 3 calls, got %d", mock.Calls())
	}
}
