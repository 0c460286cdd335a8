package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/knnimpute/distance"
	"github.com/hupe1980/knnimpute/table"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformMatrix generates rows x cols values in [0, 1).
func (r *RNG) UniformMatrix(rows, cols int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		for j := range out[i] {
			out[i][j] = r.rand.Float64()
		}
	}
	return out
}

// GaussianMatrix generates rows x cols standard normal values.
func (r *RNG) GaussianMatrix(rows, cols int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		for j := range out[i] {
			out[i][j] = r.rand.NormFloat64()
		}
	}
	return out
}

// ClusteredMatrix generates rows drawn around `clusters` random centroids.
// Rows with close values share a centroid, which gives k-NN a signal to recover.
func (r *RNG) ClusteredMatrix(rows, cols, clusters int, spread float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	centroids := make([][]float64, clusters)
	for i := range centroids {
		centroids[i] = make([]float64, cols)
		for j := range centroids[i] {
			centroids[i][j] = r.rand.Float64() * 10
		}
	}

	out := make([][]float64, rows)
	for i := range out {
		c := centroids[r.rand.Intn(clusters)]
		out[i] = make([]float64, cols)
		for j := range out[i] {
			out[i][j] = c[j] + r.rand.NormFloat64()*spread
		}
	}
	return out
}

// MaskMissing returns a copy of values in which each cell is replaced by NaN
// with probability rate. The input is not modified.
func (r *RNG) MaskMissing(values [][]float64, rate float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([][]float64, len(values))
	for i, row := range values {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			if r.rand.Float64() < rate {
				v = math.NaN()
			}
			out[i][j] = v
		}
	}
	return out
}

// NumericTable builds a table with columns c0..cN from row-major values.
// NaN cells become missing.
func NumericTable(values [][]float64) *table.Table {
	if len(values) == 0 {
		return &table.Table{}
	}

	cols := make([]table.Column, len(values[0]))
	for c := range cols {
		cols[c].Name = columnName(c)
		cols[c].Cells = make([]table.Cell, len(values))
		for r, row := range values {
			if math.IsNaN(row[c]) {
				cols[c].Cells[r] = table.Missing()
			} else {
				cols[c].Cells[r] = table.Number(row[c])
			}
		}
	}
	return &table.Table{Columns: cols}
}

func columnName(c int) string {
	const digits = "0123456789"
	if c < 10 {
		return "c" + digits[c:c+1]
	}
	return columnName(c/10) + digits[c%10:c%10+1]
}

// ExactImpute is a brute force reference imputation: for every missing cell it
// sorts all other rows that observe the column and share a coordinate with the
// target, and averages the k nearest with inverse-distance weights. Cells with
// no such row take the column mean (0 if the column is never observed).
func ExactImpute(values [][]float64, k int, fn distance.Func, minDistance float64) [][]float64 {
	means := columnMeans(values)

	out := make([][]float64, len(values))
	for r, row := range values {
		out[r] = append([]float64(nil), row...)
	}

	type candidate struct {
		row  int
		dist float64
	}

	for r, row := range values {
		for c, v := range row {
			if !math.IsNaN(v) {
				continue
			}

			var cands []candidate
			for j, other := range values {
				if j == r || math.IsNaN(other[c]) {
					continue
				}
				d, shared := fn(row, other)
				if shared == 0 {
					continue
				}
				cands = append(cands, candidate{row: j, dist: d})
			}

			if len(cands) == 0 {
				out[r][c] = means[c]
				continue
			}

			sort.Slice(cands, func(i, j int) bool {
				if cands[i].dist != cands[j].dist {
					return cands[i].dist < cands[j].dist
				}
				return cands[i].row < cands[j].row
			})
			if len(cands) > k {
				cands = cands[:k]
			}

			var sum, weights float64
			for _, cand := range cands {
				w := 1 / math.Max(cand.dist, minDistance)
				sum += w * values[cand.row][c]
				weights += w
			}
			out[r][c] = sum / weights
		}
	}
	return out
}

func columnMeans(values [][]float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	means := make([]float64, len(values[0]))
	counts := make([]int, len(means))
	for _, row := range values {
		for c, v := range row {
			if !math.IsNaN(v) {
				means[c] += v
				counts[c]++
			}
		}
	}
	for c := range means {
		if counts[c] > 0 {
			means[c] /= float64(counts[c])
		}
	}
	return means
}

// RMSE computes the root mean squared error between truth and imputed over
// the cells that are NaN in masked. Returns 0 when nothing was masked.
func RMSE(truth, imputed, masked [][]float64) float64 {
	var (
		sum float64
		n   int
	)
	for r, row := range masked {
		for c, v := range row {
			if !math.IsNaN(v) {
				continue
			}
			d := truth[r][c] - imputed[r][c]
			sum += d * d
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}
