package indicator

// rsiPeriod is the lookback window for the relative strength index.
const rsiPeriod = 14

// rsi computes the Wilder-smoothed RSI over closes, evaluated at the last
// close. Wilder smoothing (an exponential, not simple, average of gains
// and losses) is load-bearing: a simple moving average diverges near the
// 30/70 decision thresholds.
//
// Defined only with at least rsiPeriod+1 closes; ok is false otherwise.
func rsi(closes []float64) (value float64, ok bool) {
	if len(closes) < rsiPeriod+1 {
		return 0, false
	}

	// Initial averages over the first rsiPeriod deltas.
	var avgGain, avgLoss float64
	for i := 1; i <= rsiPeriod; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= rsiPeriod
	avgLoss /= rsiPeriod

	// Wilder smoothing through the remaining closes.
	for i := rsiPeriod + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(rsiPeriod-1) + gain) / rsiPeriod
		avgLoss = (avgLoss*(rsiPeriod-1) + loss) / rsiPeriod
	}

	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}
