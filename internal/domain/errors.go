package domain

import "fmt"

// Error taxonomy. ConfigError is fatal at startup; everything else is
// recoverable at its own scope: MarketDataError skips the pair,
// AuthError skips the step that needed balances, OrderError skips the
// single order attempt. Nothing inside the per-pair or per-asset loops
// may terminate a run.

// ConfigError reports invalid or missing startup configuration.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("config: %s", e.Field)
	}
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// MarketDataError reports a failed or malformed candle fetch for one symbol.
type MarketDataError struct {
	Symbol string
	Err    error
}

func (e *MarketDataError) Error() string {
	return fmt.Sprintf("market data %s: %v", e.Symbol, e.Err)
}

func (e *MarketDataError) Unwrap() error { return e.Err }

// AuthError reports a rejected authenticated request.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// OrderError reports a failed order submission.
type OrderError struct {
	Symbol string
	Side   Side
	Err    error
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("order %s %s: %v", e.Side, e.Symbol, e.Err)
}

func (e *OrderError) Unwrap() error { return e.Err }
