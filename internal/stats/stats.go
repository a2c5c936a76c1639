package stats

import (
	"errors"
	"math"
)

// ErrInsufficientSamples is returned when an estimator is asked to work on
// fewer than two samples. A single measurement carries no spread information,
// so we refuse rather than hand back a degenerate interval.
var ErrInsufficientSamples = errors.New("need at least 2 samples")

// ConfidenceInterval is an estimated range for a population statistic.
// Low is always <= High.
type ConfidenceInterval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Width returns the size of the interval.
func (ci ConfidenceInterval) Width() float64 {
	return ci.High - ci.Low
}

// Mean returns the arithmetic mean of xs. Zero for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Variance returns the sample variance (n-1 denominator) of xs.
func Variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs)-1)
}

// StdDev returns the sample standard deviation of xs.
func StdDev(xs []float64) float64 {
	return math.Sqrt(Variance(xs))
}

// Percentile returns the p-th percentile (0-100) of sorted, interpolating
// linearly between adjacent order statistics. This is the single place the
// interpolation rule lives; every interval bound in this package goes
// through it.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower < 0 {
		return sorted[0]
	}
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	if lower == upper {
		return sorted[lower]
	}
	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
