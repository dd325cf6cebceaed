// Package strategy maps indicator snapshots to trading signals.
package strategy

import (
	"momentum_go/internal/domain"
	"momentum_go/internal/indicator"
)

// RSI decision thresholds. Both boundaries are exclusive: a reading of
// exactly 30 or 70 holds.
const (
	rsiOversold   = 30.0
	rsiOverbought = 70.0
)

// Classify maps one indicator snapshot to a signal:
//
//	Buy  iff RSI < 30 and the MACD line is above its signal line,
//	Sell iff RSI > 70 and the MACD line is below its signal line,
//	Hold otherwise.
//
// Undefined indicators always hold. Pure and total: no side effects, no
// error for any finite input.
func Classify(snap indicator.Snapshot) domain.Signal {
	if !snap.HasRSI || !snap.HasMACD {
		return domain.SignalHold
	}

	switch {
	case snap.RSI < rsiOversold && snap.MACD > snap.MACDSignal:
		return domain.SignalBuy
	case snap.RSI > rsiOverbought && snap.MACD < snap.MACDSignal:
		return domain.SignalSell
	default:
		return domain.SignalHold
	}
}
