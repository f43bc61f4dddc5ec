package circuitbreaker

import (
	"fmt"
	"sync"
	"time"
)

// State represents the circuit breaker state
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
)

// CircuitBreaker implements the circuit breaker pattern keyed by target URL,
// guarding outbound webhook deliveries against a dead endpoint.
type CircuitBreaker struct {
	maxFailures  int
	resetTimeout time.Duration

	mu          sync.Mutex
	failures    map[string]int
	lastFailure map[string]time.Time
	state       map[string]State
}

// New creates a circuit breaker that opens after maxFailures consecutive
// failures and probes again after resetTimeout.
func New(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		failures:     make(map[string]int),
		lastFailure:  make(map[string]time.Time),
		state:        make(map[string]State),
	}
}

// IsOpen reports whether requests to url are currently rejected. An open
// circuit transitions to half-open once the reset timeout has elapsed.
func (cb *CircuitBreaker) IsOpen(url string) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.isOpenLocked(url)
}

func (cb *CircuitBreaker) isOpenLocked(url string) bool {
	switch cb.state[url] {
	case StateOpen:
		if time.Since(cb.lastFailure[url]) > cb.resetTimeout {
			cb.state[url] = StateHalfOpen
			return false
		}
		return true
	default:
		// Closed or half-open: allow the request
		return false
	}
}

// Execute runs fn with circuit breaker protection for url.
func (cb *CircuitBreaker) Execute(url string, fn func() error) error {
	cb.mu.Lock()
	if cb.isOpenLocked(url) {
		cb.mu.Unlock()
		return fmt.Errorf("circuit breaker is open for URL: %s", url)
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failures[url]++
		cb.lastFailure[url] = time.Now()
		if cb.failures[url] >= cb.maxFailures {
			cb.state[url] = StateOpen
		}
		return err
	}

	// Success closes the circuit and clears the failure count
	cb.failures[url] = 0
	cb.state[url] = StateClosed
	return nil
}

// StateFor returns the current state for url.
func (cb *CircuitBreaker) StateFor(url string) State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if s, ok := cb.state[url]; ok {
		return s
	}
	return StateClosed
}
