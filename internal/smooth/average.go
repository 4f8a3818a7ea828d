package smooth

// MovingAverage returns the centred moving average of values. The window
// spans window/2 samples on each side, so an even window behaves like the
// next odd one. Near the ends the window is truncated and the mean is taken
// over the samples that exist. A window of one or less returns a copy.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) < 2 {
		copy(out, values)
		return out
	}

	half := window / 2

	// prefix[i] is the sum of values[:i]
	prefix := make([]float64, len(values)+1)
	for i, v := range values {
		prefix[i+1] = prefix[i] + v
	}

	for i := range values {
		start := max(0, i-half)
		end := min(len(values), i+half+1)
		out[i] = (prefix[end] - prefix[start]) / float64(end-start)
	}
	return out
}
