package knn

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/knnimpute/distance"
	"github.com/hupe1980/knnimpute/testutil"
)

var nan = math.NaN()

func mustMatrix(t *testing.T, rows, cols int, values []float64) *Matrix {
	t.Helper()
	m, err := NewMatrix(rows, cols, values)
	require.NoError(t, err)
	return m
}

func randomMatrix(t *testing.T, seed int64, rows, cols int, missingRate float64) *Matrix {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, rows*cols)
	for i := range values {
		if rng.Float64() < missingRate {
			values[i] = nan
			continue
		}
		values[i] = rng.NormFloat64() * 10
	}
	return mustMatrix(t, rows, cols, values)
}

func TestNewEstimator(t *testing.T) {
	_, err := NewEstimator(0)
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = NewEstimator(3, WithMetric(distance.Metric(42)))
	assert.Error(t, err)

	est, err := NewEstimator(3)
	require.NoError(t, err)
	assert.Equal(t, 3, est.K())

	est, err = NewEstimator(2, nil, WithWorkers(2), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, est.K())
}

func TestImpute_WeightedAverageOfNearest(t *testing.T) {
	m := mustMatrix(t, 4, 2, []float64{
		1, 2,
		2, 4,
		3, 6,
		nan, 8,
	})

	est, err := NewEstimator(2)
	require.NoError(t, err)

	out, report, err := est.Impute(context.Background(), m)
	require.NoError(t, err)

	// Distances from row 3 over column 1, rescaled by n/shared = 2.
	d2 := math.Sqrt(2 * 4)  // row 2
	d1 := math.Sqrt(2 * 16) // row 1
	want := (3/d2 + 2/d1) / (1/d2 + 1/d1)

	assert.InDelta(t, want, out.At(3, 0), 1e-12)
	assert.InDelta(t, 8.0/3.0, out.At(3, 0), 1e-12)
	assert.Equal(t, 0, out.MissingCount())
	assert.Equal(t, &Report{Missing: 1, Imputed: 1, Rows: 1}, report)
}

func TestImpute_ZeroDistanceNeighbor(t *testing.T) {
	m := mustMatrix(t, 3, 3, []float64{
		1, 1, 5,
		1, 1, nan,
		2, 2, 9,
	})

	est, err := NewEstimator(1)
	require.NoError(t, err)

	out, _, err := est.Impute(context.Background(), m)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, out.At(1, 2), 1e-12)

	est, err = NewEstimator(2)
	require.NoError(t, err)

	out, _, err = est.Impute(context.Background(), m)
	require.NoError(t, err)
	// The exact match dominates through the distance floor.
	assert.InDelta(t, 5.0, out.At(1, 2), 1e-5)
}

func TestImpute_FewerThanKNeighbors(t *testing.T) {
	m := mustMatrix(t, 3, 2, []float64{
		1, 10,
		2, nan,
		nan, 30,
	})

	est, err := NewEstimator(5)
	require.NoError(t, err)

	out, report, err := est.Impute(context.Background(), m)
	require.NoError(t, err)

	// Row 1 column 1: only row 0 is observed there and shares column 0.
	assert.InDelta(t, 10.0, out.At(1, 1), 1e-12)
	// Row 2 column 0: rows 0 and 1 both observed; only row 0 shares column 1.
	assert.InDelta(t, 1.0, out.At(2, 0), 1e-12)
	assert.Equal(t, 0, report.Fallbacks)
}

func TestImpute_Fallback(t *testing.T) {
	t.Run("ColumnWithoutObservations", func(t *testing.T) {
		m := mustMatrix(t, 3, 2, []float64{
			1, nan,
			2, nan,
			3, nan,
		})

		est, err := NewEstimator(2)
		require.NoError(t, err)

		out, report, err := est.Impute(context.Background(), m)
		require.NoError(t, err)
		for r := 0; r < 3; r++ {
			assert.Equal(t, 0.0, out.At(r, 1))
		}
		assert.Equal(t, 3, report.Fallbacks)
		assert.Equal(t, 0, report.Imputed)
	})

	t.Run("NoSharedCoordinates", func(t *testing.T) {
		m := mustMatrix(t, 2, 2, []float64{
			nan, 5,
			1, nan,
		})

		est, err := NewEstimator(2)
		require.NoError(t, err)

		out, report, err := est.Impute(context.Background(), m)
		require.NoError(t, err)
		assert.Equal(t, 1.0, out.At(0, 0))
		assert.Equal(t, 5.0, out.At(1, 1))
		assert.Equal(t, 2, report.Fallbacks)
	})

	t.Run("Zero", func(t *testing.T) {
		m := mustMatrix(t, 2, 2, []float64{
			nan, 5,
			1, nan,
		})

		est, err := NewEstimator(2, WithFallback(FallbackZero))
		require.NoError(t, err)

		out, _, err := est.Impute(context.Background(), m)
		require.NoError(t, err)
		assert.Equal(t, 0.0, out.At(0, 0))
		assert.Equal(t, 0.0, out.At(1, 1))
	})

	t.Run("Error", func(t *testing.T) {
		m := mustMatrix(t, 2, 2, []float64{
			1, 2,
			3, nan,
		})
		m2 := mustMatrix(t, 2, 2, []float64{
			1, nan,
			3, nan,
		})

		est, err := NewEstimator(2, WithFallback(FallbackError))
		require.NoError(t, err)

		_, _, err = est.Impute(context.Background(), m)
		require.NoError(t, err)

		_, _, err = est.Impute(context.Background(), m2)
		var ide *InsufficientDataError
		require.ErrorAs(t, err, &ide)
		assert.Equal(t, 1, ide.Col)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})
}

func TestImpute_DoesNotPerturbObservedCells(t *testing.T) {
	m := randomMatrix(t, 7, 60, 5, 0.3)

	est, err := NewEstimator(5)
	require.NoError(t, err)

	out, report, err := est.Impute(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, m.MissingCount(), report.Imputed+report.Fallbacks)

	rows, cols := out.Dims()
	require.Equal(t, 60, rows)
	require.Equal(t, 5, cols)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if m.IsMissing(r, c) {
				assert.False(t, math.IsNaN(out.At(r, c)), "cell (%d,%d) left missing", r, c)
				continue
			}
			assert.Equal(t, math.Float64bits(m.At(r, c)), math.Float64bits(out.At(r, c)))
		}
	}

	// The input is untouched.
	assert.True(t, math.IsNaN(m.At(firstMissing(m))))
}

func firstMissing(m *Matrix) (int, int) {
	rows, cols := m.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if m.IsMissing(r, c) {
				return r, c
			}
		}
	}
	return -1, -1
}

func TestImpute_Deterministic(t *testing.T) {
	m := randomMatrix(t, 11, 120, 6, 0.25)

	serial, err := NewEstimator(4)
	require.NoError(t, err)
	parallel, err := NewEstimator(4, WithWorkers(8))
	require.NoError(t, err)

	a, _, err := serial.Impute(context.Background(), m)
	require.NoError(t, err)
	b, _, err := serial.Impute(context.Background(), m)
	require.NoError(t, err)
	c, _, err := parallel.Impute(context.Background(), m)
	require.NoError(t, err)

	assert.Equal(t, a.Values(), b.Values())
	assert.Equal(t, a.Values(), c.Values())
}

func TestImpute_Metrics(t *testing.T) {
	m := randomMatrix(t, 3, 40, 4, 0.2)

	for _, metric := range []distance.Metric{distance.MetricNaNEuclidean, distance.MetricMeanSquared, distance.MetricNaNManhattan} {
		t.Run(metric.String(), func(t *testing.T) {
			est, err := NewEstimator(3, WithMetric(metric))
			require.NoError(t, err)

			out, _, err := est.Impute(context.Background(), m)
			require.NoError(t, err)
			assert.Equal(t, 0, out.MissingCount())
		})
	}
}

func TestImpute_Canceled(t *testing.T) {
	m := randomMatrix(t, 5, 50, 4, 0.3)

	est, err := NewEstimator(3)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, report, err := est.Impute(ctx, m)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, out)
	assert.Nil(t, report)
}

func TestImpute_EdgeShapes(t *testing.T) {
	est, err := NewEstimator(2)
	require.NoError(t, err)

	t.Run("Empty", func(t *testing.T) {
		m := mustMatrix(t, 0, 3, nil)
		out, report, err := est.Impute(context.Background(), m)
		require.NoError(t, err)
		rows, cols := out.Dims()
		assert.Equal(t, 0, rows)
		assert.Equal(t, 3, cols)
		assert.Equal(t, 0, report.Missing)
	})

	t.Run("NoMissing", func(t *testing.T) {
		m := mustMatrix(t, 2, 2, []float64{1, 2, 3, 4})
		out, _, err := est.Impute(context.Background(), m)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3, 4}, out.Values())
	})

	t.Run("SingleRow", func(t *testing.T) {
		m := mustMatrix(t, 1, 3, []float64{1, nan, 3})
		out, report, err := est.Impute(context.Background(), m)
		require.NoError(t, err)
		assert.Equal(t, 0.0, out.At(0, 1))
		assert.Equal(t, 1, report.Fallbacks)
	})

	t.Run("Nil", func(t *testing.T) {
		_, _, err := est.Impute(context.Background(), nil)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})
}

func TestNewMatrix(t *testing.T) {
	_, err := NewMatrix(2, 2, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	// 2^33 cells cannot be indexed by the missing mask.
	_, err = NewMatrix(1<<20, 1<<13, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	m := mustMatrix(t, 1, 3, []float64{1, math.Inf(1), nan})
	assert.Equal(t, 2, m.MissingCount())
	assert.True(t, m.IsMissing(0, 1))
	assert.True(t, m.IsMissing(0, 2))
	assert.False(t, m.IsMissing(0, 0))
	assert.True(t, math.IsNaN(m.At(0, 1)))
}

func TestParseFallback(t *testing.T) {
	for _, f := range []Fallback{FallbackColumnMean, FallbackZero, FallbackError} {
		got, err := ParseFallback(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseFallback("median")
	assert.Error(t, err)
}

func TestImpute_MatchesExact(t *testing.T) {
	rng := testutil.NewRNG(42)
	masked := rng.MaskMissing(rng.ClusteredMatrix(200, 6, 4, 0.5), 0.15)

	flat := make([]float64, 0, 200*6)
	for _, row := range masked {
		flat = append(flat, row...)
	}
	m, err := NewMatrix(200, 6, flat)
	require.NoError(t, err)

	for _, metric := range []distance.Metric{distance.MetricNaNEuclidean, distance.MetricMeanSquared, distance.MetricNaNManhattan} {
		t.Run(metric.String(), func(t *testing.T) {
			fn, err := distance.Provider(metric)
			require.NoError(t, err)

			est, err := NewEstimator(3, WithMetric(metric), WithWorkers(4))
			require.NoError(t, err)

			out, _, err := est.Impute(context.Background(), m)
			require.NoError(t, err)

			want := testutil.ExactImpute(masked, 3, fn, DefaultMinDistance)
			for r := range want {
				for c := range want[r] {
					assert.InDelta(t, want[r][c], out.At(r, c), 1e-9, "cell (%d,%d)", r, c)
				}
			}
		})
	}
}
