package metrics

import (
	"math"
	"slices"
)

// ScoreStats summarizes overall call scores across archived runs.
type ScoreStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	CILow  float64 `json:"ci95_low"`
	CIHigh float64 `json:"ci95_high"`
}

// Summarize computes ScoreStats for scores. The zero value is returned for
// empty input.
func Summarize(scores []float64) ScoreStats {
	if len(scores) == 0 {
		return ScoreStats{}
	}
	low, high := ConfidenceInterval95(scores)
	return ScoreStats{
		Count:  len(scores),
		Mean:   Mean(scores),
		StdDev: StdDev(scores),
		Min:    slices.Min(scores),
		Max:    slices.Max(scores),
		CILow:  low,
		CIHigh: high,
	}
}

// Mean computes the arithmetic mean of a float64 slice.
// Returns 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev computes the population standard deviation.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// ConfidenceInterval95 returns the 95% confidence interval (low, high) of the
// mean using the normal approximation (z=1.96). Returns (mean, mean) when
// fewer than 2 data points are available. Bounds are clamped to 0..100.
func ConfidenceInterval95(values []float64) (float64, float64) {
	n := len(values)
	m := Mean(values)
	if n < 2 {
		return m, m
	}
	// sample standard deviation (Bessel's correction)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	sampleSD := math.Sqrt(sumSq / float64(n-1))
	margin := 1.96 * sampleSD / math.Sqrt(float64(n))
	return max(m-margin, 0), min(m+margin, 100)
}
