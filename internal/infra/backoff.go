package infra

import (
	"math/rand"
	"time"
)

const (
	baseDelay = 500 * time.Millisecond
	maxDelay  = 10 * time.Second
)

// RetryDelay returns the delay before retry attempt `attempt` (0-based),
// using exponential backoff with full jitter: a uniform duration in
// (0, baseDelay*2^attempt], capped at maxDelay. Jitter keeps periodic runs
// from hammering the exchange in lockstep after an outage.
func RetryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// 2^25 * 500ms already far exceeds maxDelay; cap the shift early to
	// avoid overflow.
	if attempt > 25 {
		attempt = 25
	}

	ceiling := baseDelay * time.Duration(1<<attempt)
	if ceiling > maxDelay {
		ceiling = maxDelay
	}
	return time.Duration(rand.Int63n(int64(ceiling))) + 1
}
