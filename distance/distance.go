package distance

import (
	"fmt"
	"math"
)

// NaNEuclidean calculates the Euclidean distance between a and b over the
// coordinates observed in both, scaled by len(a)/shared so that pairs with few
// overlapping coordinates are not favored.
// Assumes rows are the same length (caller's responsibility).
// Returns (+Inf, 0) when no coordinate is shared.
func NaNEuclidean(a, b []float64) (float64, int) {
	sum, shared := sumSquares(a, b)
	if shared == 0 {
		return math.Inf(1), 0
	}
	return math.Sqrt(float64(len(a)) / float64(shared) * sum), shared
}

// MeanSquared calculates the mean squared difference over the coordinates
// observed in both rows.
// Returns (+Inf, 0) when no coordinate is shared.
func MeanSquared(a, b []float64) (float64, int) {
	sum, shared := sumSquares(a, b)
	if shared == 0 {
		return math.Inf(1), 0
	}
	return sum / float64(shared), shared
}

// NaNManhattan calculates the Manhattan distance over shared coordinates,
// scaled by len(a)/shared.
// Returns (+Inf, 0) when no coordinate is shared.
func NaNManhattan(a, b []float64) (float64, int) {
	var (
		sum    float64
		shared int
	)
	for i := range a {
		x, y := a[i], b[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		sum += math.Abs(x - y)
		shared++
	}
	if shared == 0 {
		return math.Inf(1), 0
	}
	return float64(len(a)) / float64(shared) * sum, shared
}

func sumSquares(a, b []float64) (float64, int) {
	var (
		sum    float64
		shared int
	)
	for i := range a {
		x, y := a[i], b[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		d := x - y
		sum += d * d
		shared++
	}
	return sum, shared
}

// Metric represents the partial distance metric used for row comparison.
type Metric int

const (
	MetricNaNEuclidean Metric = iota
	MetricMeanSquared
	MetricNaNManhattan
)

func (m Metric) String() string {
	switch m {
	case MetricNaNEuclidean:
		return "NaNEuclidean"
	case MetricMeanSquared:
		return "MeanSquared"
	case MetricNaNManhattan:
		return "NaNManhattan"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMetric resolves a metric by its String name (case-sensitive).
func ParseMetric(name string) (Metric, error) {
	for _, m := range []Metric{MetricNaNEuclidean, MetricMeanSquared, MetricNaNManhattan} {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q", name)
}

// Func is a partial distance function.
// It returns the distance and the number of coordinates it was computed over.
type Func func(a, b []float64) (float64, int)

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricNaNEuclidean:
		return NaNEuclidean, nil
	case MetricMeanSquared:
		return MeanSquared, nil
	case MetricNaNManhattan:
		return NaNManhattan, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
