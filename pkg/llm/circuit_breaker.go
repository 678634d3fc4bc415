package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker open")

// CircuitState represents the current state of the circuit breaker.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig holds configuration for the circuit breaker.
type CircuitBreakerConfig struct {
	// Threshold is the number of consecutive failures before the circuit trips.
	Threshold int
	// ResetAfter is how long the circuit stays open before a trial call is allowed.
	ResetAfter time.Duration
}

// DefaultCircuitBreakerConfig trips after 3 failures and retries after a minute.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Threshold:  3,
		ResetAfter: time.Minute,
	}
}

// CircuitBreaker trips open after N consecutive failures and half-opens after ResetAfter.
type CircuitBreaker struct {
	mu               sync.Mutex
	cfg              CircuitBreakerConfig
	consecutiveFails int
	openedAt         time.Time
	state            CircuitState
	now              func() time.Time
}

// NewCircuitBreaker creates a closed circuit breaker.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{cfg: cfg, state: CircuitClosed, now: time.Now}
}

// Allow reports whether a call may proceed. Only one trial call passes while half-open.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitOpen:
		if cb.now().Sub(cb.openedAt) < cb.cfg.ResetAfter {
			return fmt.Errorf("%w: %d consecutive failures", ErrCircuitOpen, cb.consecutiveFails)
		}
		cb.state = CircuitHalfOpen
		return nil
	case CircuitHalfOpen:
		return fmt.Errorf("%w: trial request in flight", ErrCircuitOpen)
	default:
		return nil
	}
}

// Record updates the breaker with the outcome of a call. Only retryable failures
// count toward tripping; any other outcome closes the circuit.
func (cb *CircuitBreaker) Record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil || !IsRetryable(err) {
		cb.consecutiveFails = 0
		cb.state = CircuitClosed
		return
	}

	cb.consecutiveFails++
	if cb.state == CircuitHalfOpen || cb.consecutiveFails >= cb.cfg.Threshold {
		cb.trip()
	}
}

func (cb *CircuitBreaker) trip() {
	cb.state = CircuitOpen
	cb.openedAt = cb.now()
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// BreakerClient guards an LLMClient with a CircuitBreaker.
type BreakerClient struct {
	inner   LLMClient
	breaker *CircuitBreaker
}

// NewBreakerClient wraps inner with breaker.
func NewBreakerClient(inner LLMClient, breaker *CircuitBreaker) *BreakerClient {
	return &BreakerClient{inner: inner, breaker: breaker}
}

func (c *BreakerClient) GenerateResponse(ctx context.Context, prompt, systemMessage string, temperature float64) (*GenerateResponseResult, error) {
	if err := c.breaker.Allow(); err != nil {
		return nil, err
	}
	result, err := c.inner.GenerateResponse(ctx, prompt, systemMessage, temperature)
	c.breaker.Record(err)
	return result, err
}

func (c *BreakerClient) GetModel() string    { return c.inner.GetModel() }
func (c *BreakerClient) GetProvider() string { return c.inner.GetProvider() }
