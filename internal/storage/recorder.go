// Package storage persists the audit trail of signal decisions and order
// attempts. The append-only log remains the primary audit channel; this
// store makes the same history queryable.
package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"momentum_go/internal/domain"
)

// Decision is one per-pair signal evaluation.
type Decision struct {
	TsUnixMilli int64
	Symbol      string
	Signal      domain.Signal
	RSI         float64
	HasRSI      bool
	MACD        float64
	MACDSignal  float64
	HasMACD     bool
}

// OrderAttempt is one order submission, successful or not.
type OrderAttempt struct {
	TsUnixMilli int64
	Symbol      string
	Side        domain.Side
	Quantity    decimal.Decimal
	Status      string // exchange status, or "ERROR"
	Response    string // raw response body or error text
}

// Recorder persists decisions and order attempts.
type Recorder interface {
	RecordDecision(ctx context.Context, d Decision) error
	RecordOrder(ctx context.Context, o OrderAttempt) error
	Close() error
}

// NoopRecorder is used when no sqlite path is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordDecision(context.Context, Decision) error  { return nil }
func (n *NoopRecorder) RecordOrder(context.Context, OrderAttempt) error { return nil }
func (n *NoopRecorder) Close() error                                    { return nil }
