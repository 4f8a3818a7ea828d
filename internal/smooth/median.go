package smooth

import "sort"

// Median applies a median filter, which removes isolated spikes (barometric
// glitches, single bad DEM samples) without flattening steps. The window is
// forced odd; windows below 3 return a copy.
func Median(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if len(values) < 3 || window < 3 {
		return out
	}

	if window%2 == 0 {
		window++
	}
	half := window / 2

	buf := make([]float64, 0, window)
	for i := range values {
		start := max(0, i-half)
		end := min(len(values), i+half+1)

		buf = append(buf[:0], values[start:end]...)
		out[i] = medianFloat(buf)
	}
	return out
}

// medianFloat sorts xs in place.
func medianFloat(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sort.Float64s(xs)
	mid := len(xs) / 2
	if len(xs)%2 == 1 {
		return xs[mid]
	}
	return 0.5 * (xs[mid-1] + xs[mid])
}
