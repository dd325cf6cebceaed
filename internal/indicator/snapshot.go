// Package indicator derives technical indicator values from candle
// series. All math runs on float64 close prices; only the latest value of
// each indicator survives into the snapshot, the rest of the series is
// scratch state.
package indicator

import "momentum_go/internal/domain"

// Snapshot holds the indicator values for the last candle of a series.
// HasRSI / HasMACD are false when the series is too short for the
// corresponding lookback; an undefined indicator must classify as Hold,
// never as Buy or Sell.
type Snapshot struct {
	RSI    float64 // in [0, 100] when HasRSI
	HasRSI bool

	MACD       float64
	MACDSignal float64
	HasMACD    bool
}

// Compute evaluates RSI(14) and MACD(12,26,9) over the candle series.
// Pure function of its input; safe on any length including empty.
func Compute(candles []domain.Candle) Snapshot {
	closes := domain.Closes(candles)

	var snap Snapshot
	snap.RSI, snap.HasRSI = rsi(closes)
	snap.MACD, snap.MACDSignal, snap.HasMACD = macd(closes)
	return snap
}
