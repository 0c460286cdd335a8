package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/knnimpute/distance"
)

func TestUniformMatrix(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UniformMatrix(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))
	assert.Less(t, v[0][0], 1.0)
	assert.GreaterOrEqual(t, v[1][0], 0.0)
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	a := rng.GaussianMatrix(4, 4)
	rng.Reset()
	b := rng.GaussianMatrix(4, 4)
	assert.Equal(t, a, b)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestMaskMissing(t *testing.T) {
	rng := NewRNG(4711)
	values := rng.UniformMatrix(100, 10)

	masked := rng.MaskMissing(values, 0.2)

	var missing int
	for r := range masked {
		for c := range masked[r] {
			if math.IsNaN(masked[r][c]) {
				missing++
				assert.False(t, math.IsNaN(values[r][c]), "input must not be modified")
			} else {
				assert.Equal(t, values[r][c], masked[r][c])
			}
		}
	}
	assert.InDelta(t, 200, missing, 60)

	assert.Len(t, rng.MaskMissing(values, 0), 100)
}

func TestNumericTable(t *testing.T) {
	nan := math.NaN()
	tbl := NumericTable([][]float64{{1, nan}, {2, 3}})

	require.NoError(t, tbl.Validate())
	assert.Equal(t, []string{"c0", "c1"}, tbl.Names())
	assert.Equal(t, 1, tbl.MissingCount())
	assert.Equal(t, 2, tbl.NumRows())

	wide := NumericTable([][]float64{make([]float64, 12)})
	assert.Equal(t, "c11", wide.Names()[11])
}

func TestExactImpute(t *testing.T) {
	nan := math.NaN()
	values := [][]float64{
		{1, 2},
		{2, nan},
		{3, 4},
		{4, 5},
	}

	got := ExactImpute(values, 2, distance.NaNEuclidean, 1e-6)

	// Rows 0 and 2 are both at distance sqrt(2) from row 1.
	assert.InDelta(t, 3.0, got[1][1], 1e-12)
	assert.Equal(t, 2.0, got[0][1])
	assert.True(t, math.IsNaN(values[1][1]), "input must not be modified")

	t.Run("ColumnMeanFallback", func(t *testing.T) {
		got := ExactImpute([][]float64{{nan, 1}, {nan, 2}, {3, nan}}, 2, distance.NaNEuclidean, 1e-6)
		assert.Equal(t, 3.0, got[0][0])
		assert.Equal(t, 1.5, got[2][1])
	})
}

func TestRMSE(t *testing.T) {
	nan := math.NaN()
	truth := [][]float64{{1, 2}, {3, 4}}
	masked := [][]float64{{1, nan}, {nan, 4}}
	imputed := [][]float64{{1, 3}, {1, 4}}

	// errors 1 and 2 -> sqrt((1+4)/2)
	assert.InDelta(t, math.Sqrt(2.5), RMSE(truth, imputed, masked), 1e-12)
	assert.Equal(t, 0.0, RMSE(truth, truth, truth))
}
