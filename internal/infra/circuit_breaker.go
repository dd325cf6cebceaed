package infra

import (
	"log/slog"
	"sync"
	"time"
)

// BreakerState is the circuit breaker state.
type BreakerState int

const (
	BreakerClosed BreakerState = iota // normal operation
	BreakerOpen                       // failing, reject requests
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "CLOSED"
	case BreakerOpen:
		return "OPEN"
	default:
		return "UNKNOWN"
	}
}

// CircuitBreaker guards the public market-data endpoint: after
// failureThreshold consecutive failures it opens and candle fetches fail
// fast (the pair is skipped, same contract as a network failure) until the
// cooldown passes. It deliberately does NOT sit on the order or account
// path, so it can never collapse the liquidation loop's per-asset
// isolation into a whole-run failure.
type CircuitBreaker struct {
	name string
	log  *slog.Logger

	mu          sync.Mutex
	state       BreakerState
	failures    int
	lastFailure time.Time

	failureThreshold int
	cooldown         time.Duration
}

// NewCircuitBreaker creates a closed breaker.
func NewCircuitBreaker(name string, failureThreshold int, cooldown time.Duration, log *slog.Logger) *CircuitBreaker {
	return &CircuitBreaker{
		name:             name,
		log:              log,
		state:            BreakerClosed,
		failureThreshold: failureThreshold,
		cooldown:         cooldown,
	}
}

// Allow reports whether a request may proceed. An open breaker allows one
// probe request after the cooldown.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == BreakerClosed {
		return true
	}
	if time.Since(cb.lastFailure) > cb.cooldown {
		// Probe: stay open, let one request through. A success closes
		// the breaker, a failure refreshes the cooldown.
		return true
	}
	return false
}

// RecordSuccess resets the breaker.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == BreakerOpen {
		cb.log.Info("circuit breaker closed", "name", cb.name)
	}
	cb.state = BreakerClosed
	cb.failures = 0
}

// RecordFailure counts a failure and opens the breaker at the threshold.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailure = time.Now()
	if cb.state == BreakerClosed && cb.failures >= cb.failureThreshold {
		cb.state = BreakerOpen
		cb.log.Warn("circuit breaker open",
			"name", cb.name, "failures", cb.failures)
	}
}

// State returns the current state for monitoring.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
