package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func fastConfig() *Config {
	return &Config{
		MaxRetries:   3,
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     20 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxRetries != 3 {
		t.Errorf("expected MaxRetries=3, got %d", cfg.MaxRetries)
	}
	if cfg.InitialDelay != 100*time.Millisecond {
		t.Errorf("expected InitialDelay=100ms, got %v", cfg.InitialDelay)
	}
	if cfg.MaxDelay != 5*time.Second {
		t.Errorf("expected MaxDelay=5s, got %v", cfg.MaxDelay)
	}

	remote := RemoteConfig()
	if remote.InitialDelay <= cfg.InitialDelay {
		t.Errorf("expected remote backoff to start slower than default, got %v", remote.InitialDelay)
	}
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	callCount := 0
	err := Do(context.Background(), fastConfig(), func() error {
		callCount++
		if callCount < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestDo_MaxRetriesExhausted(t *testing.T) {
	callCount := 0
	err := Do(context.Background(), fastConfig(), func() error {
		callCount++
		return fmt.Errorf("attempt %d", callCount)
	})

	if err == nil || err.Error() != "attempt 4" {
		t.Errorf("expected last error 'attempt 4', got %v", err)
	}
	if callCount != 4 {
		t.Errorf("expected 4 calls (1 + 3 retries), got %d", callCount)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := &Config{MaxRetries: 5, InitialDelay: time.Second, MaxDelay: time.Second, Multiplier: 1}

	callCount := 0
	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, cfg, func() error {
			callCount++
			return errors.New("fail")
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Do did not return after cancellation")
	}
	if callCount != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", callCount)
	}
}

func TestDo_NilConfigUsesDefaults(t *testing.T) {
	callCount := 0
	err := Do(context.Background(), nil, func() error {
		callCount++
		return nil
	})
	if err != nil || callCount != 1 {
		t.Errorf("expected single successful call, got err=%v calls=%d", err, callCount)
	}
}

func TestDoWithResult_ReturnsValue(t *testing.T) {
	callCount := 0
	result, err := DoWithResult(context.Background(), fastConfig(), func() (string, error) {
		callCount++
		if callCount == 1 {
			return "", errors.New("connection refused")
		}
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != "ok" {
		t.Errorf("expected result 'ok', got %q", result)
	}
}

func TestDoIfRetryable_StopsOnPermanentError(t *testing.T) {
	callCount := 0
	err := DoIfRetryable(context.Background(), fastConfig(), func() error {
		callCount++
		return errors.New("535 authentication failed")
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if callCount != 1 {
		t.Errorf("expected no retries for permanent error, got %d calls", callCount)
	}
}

func TestDoIfRetryable_RetriesTransientError(t *testing.T) {
	callCount := 0
	err := DoIfRetryable(context.Background(), fastConfig(), func() error {
		callCount++
		if callCount < 2 {
			return errors.New("421 4.7.0 try again later ")
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected success, got %v", err)
	}
	if callCount != 2 {
		t.Errorf("expected 2 calls, got %d", callCount)
	}
}

type declaredError struct{ retryable bool }

func (e declaredError) Error() string     { return "declared 503" }
func (e declaredError) IsRetryable() bool { return e.retryable }

func TestDoIfRetryableWithResult_RespectsDeclaredRetryability(t *testing.T) {
	callCount := 0
	_, err := DoIfRetryableWithResult(context.Background(), fastConfig(), func() (int, error) {
		callCount++
		return 0, fmt.Errorf("wrapped: %w", declaredError{retryable: false})
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if callCount != 1 {
		t.Errorf("declared non-retryable error must win over the 503 text, got %d calls", callCount)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("i/o timeout"), true},
		{errors.New("HTTP 503 service unavailable"), true},
		{errors.New("451 4.3.0 local error "), true},
		{errors.New("syntax error at or near"), false},
		{errors.New("535 5.7.8 bad credentials"), false},
		{context.Canceled, false},
		{fmt.Errorf("send: %w", context.Canceled), false},
		{declaredError{retryable: true}, true},
		{fmt.Errorf("wrapped: %w", declaredError{retryable: true}), true},
	}

	for _, tt := range tests {
		if got := IsRetryable(tt.err); got != tt.want {
			t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
