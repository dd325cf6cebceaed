package domain

import "github.com/shopspring/decimal"

// Candle is one fixed-duration OHLCV record as returned by the exchange.
// Series are always ordered oldest-first; CloseTime of candle i never exceeds
// OpenTime of candle i+1.
type Candle struct {
	OpenTime   int64 // Unix milliseconds
	Open       decimal.Decimal
	High       decimal.Decimal
	Low        decimal.Decimal
	Close      decimal.Decimal
	Volume     decimal.Decimal
	CloseTime  int64 // Unix milliseconds
	TradeCount int64
}

// Closes extracts the close prices of a candle series as float64,
// oldest-first. Indicator math runs on float64; decimals stay at the
// money boundary.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i], _ = c.Close.Float64()
	}
	return out
}
