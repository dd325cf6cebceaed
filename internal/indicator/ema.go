package indicator

// ema computes the exponential moving average series for the given period
// using the standard smoothing factor 2/(N+1). The first period-1 slots of
// the result are unusable warm-up; the value at index period-1 is seeded
// with the simple average of the first period inputs, as is conventional.
// Returns nil when there is not enough data.
func ema(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	out := make([]float64, len(values))
	alpha := 2.0 / (float64(period) + 1.0)

	var seed float64
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	out[period-1] = seed / float64(period)

	for i := period; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*alpha + out[i-1]
	}
	return out
}
