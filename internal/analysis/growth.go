package analysis

import "math"

// GrowthRate estimates the slope of ln‖x(t)‖ in 1/s from the first and last
// non-zero samples. Negative values mean the trajectory decays.
func GrowthRate[S ~[]float64](states []S, times []float64) float64 {
	first, last := -1, -1
	for i, x := range states {
		if i >= len(times) {
			break
		}
		if norm(x) > 0 {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 || last == first {
		return 0
	}

	dt := times[last] - times[first]
	if dt <= 0 {
		return 0
	}
	return math.Log(norm(states[last])/norm(states[first])) / dt
}

func norm[S ~[]float64](x S) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum)
}
