package indicator

// MACD(12,26,9) parameters.
const (
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalPeriod = 9
)

// macdMinCloses is the longest history any indicator here needs: the slow
// EMA warm-up plus the signal EMA warm-up over the MACD line.
const macdMinCloses = macdSlowPeriod + macdSignalPeriod

// macd computes the MACD line (EMA12 − EMA26) and its signal line (EMA9 of
// the MACD line), both evaluated at the last close. ok is false with fewer
// than macdMinCloses closes.
func macd(closes []float64) (line, signal float64, ok bool) {
	if len(closes) < macdMinCloses {
		return 0, 0, false
	}

	fast := ema(closes, macdFastPeriod)
	slow := ema(closes, macdSlowPeriod)

	// The MACD line exists where the slow EMA does.
	diff := make([]float64, 0, len(closes)-macdSlowPeriod+1)
	for i := macdSlowPeriod - 1; i < len(closes); i++ {
		diff = append(diff, fast[i]-slow[i])
	}

	signalSeries := ema(diff, macdSignalPeriod)
	if signalSeries == nil {
		return 0, 0, false
	}

	return diff[len(diff)-1], signalSeries[len(signalSeries)-1], true
}
