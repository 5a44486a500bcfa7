// Package algo has the numeric kernels shared by the analytic components.
package algo

import "math"

// Clamp01 clamps v to the [0,1] range.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Stdev returns the population standard deviation of values.
// Fewer than two values yield 0.
func Stdev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// LeastSquares fits an ordinary least-squares line of values against their
// sequence index (x = 0, 1, 2, ...). A constant series yields slope 0 and
// intercept equal to the mean; fewer than two values yield (0, mean).
func LeastSquares(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	if len(values) < 2 {
		return 0, Mean(values)
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, Mean(values)
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// MovingAverage returns the sliding-window means of values. The result has
// len(values)-window+1 points; a window smaller than 1 or larger than the
// input yields nil.
func MovingAverage(values []float64, window int) []float64 {
	if window < 1 || window > len(values) {
		return nil
	}

	out := make([]float64, 0, len(values)-window+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}
