package knn

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense numeric matrix with a missing-cell mask.
//
// Missing cells hold NaN; their positions (row*cols+col) are also tracked in a
// roaring bitmap so callers can iterate them without scanning the data.
type Matrix struct {
	rows, cols int
	data       *mat.Dense
	missing    *roaring.Bitmap
}

// maxCells is the largest cell count the 32-bit missing mask can index.
const maxCells = math.MaxUint32 + 1

// NewMatrix builds a Matrix from row-major values. Non-finite values are
// treated as missing and stored as NaN. values is copied.
func NewMatrix(rows, cols int, values []float64) (*Matrix, error) {
	if rows > 0 && cols > 0 && uint64(rows) > maxCells/uint64(cols) {
		return nil, fmt.Errorf("%w: %dx%d exceeds mask capacity", ErrShapeMismatch, rows, cols)
	}
	if rows < 0 || cols < 0 || len(values) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for %dx%d", ErrShapeMismatch, len(values), rows, cols)
	}

	m := &Matrix{rows: rows, cols: cols, missing: roaring.New()}
	if rows == 0 || cols == 0 {
		return m, nil
	}

	buf := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf[i] = math.NaN()
			m.missing.Add(uint32(i))
			continue
		}
		buf[i] = v
	}
	m.data = mat.NewDense(rows, cols, buf)
	return m, nil
}

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (int, int) { return m.rows, m.cols }

// At returns the value at (r, c); missing cells return NaN.
func (m *Matrix) At(r, c int) float64 {
	return m.data.At(r, c)
}

// IsMissing reports whether (r, c) is missing.
func (m *Matrix) IsMissing(r, c int) bool {
	return m.missing.Contains(uint32(r*m.cols + c))
}

// MissingCount returns the number of missing cells.
func (m *Matrix) MissingCount() int {
	return int(m.missing.GetCardinality())
}

// Row returns row r. The slice aliases the matrix storage and must not be modified.
func (m *Matrix) Row(r int) []float64 {
	return m.data.RawRowView(r)
}

// Values returns a row-major copy of the data.
func (m *Matrix) Values() []float64 {
	if m.data == nil {
		return []float64{}
	}
	raw := m.data.RawMatrix()
	out := make([]float64, 0, m.rows*m.cols)
	for r := 0; r < m.rows; r++ {
		out = append(out, raw.Data[r*raw.Stride:r*raw.Stride+m.cols]...)
	}
	return out
}

// missingRows returns the missing columns of each row that has any, keyed by row.
func (m *Matrix) missingRows() map[int][]int {
	out := make(map[int][]int)
	it := m.missing.Iterator()
	for it.HasNext() {
		pos := int(it.Next())
		r, c := pos/m.cols, pos%m.cols
		out[r] = append(out[r], c)
	}
	return out
}

// columnMeans returns the mean of the observed values per column and whether
// the column had any observation.
func (m *Matrix) columnMeans() ([]float64, []bool) {
	means := make([]float64, m.cols)
	observed := make([]bool, m.cols)
	counts := make([]int, m.cols)
	for r := 0; r < m.rows; r++ {
		row := m.Row(r)
		for c, v := range row {
			if math.IsNaN(v) {
				continue
			}
			means[c] += v
			counts[c]++
		}
	}
	for c := range means {
		if counts[c] > 0 {
			means[c] /= float64(counts[c])
			observed[c] = true
		}
	}
	return means, observed
}

// clone returns a deep copy sharing no storage with m.
func (m *Matrix) clone() *Matrix {
	out := &Matrix{rows: m.rows, cols: m.cols, missing: m.missing.Clone()}
	if m.data != nil {
		out.data = mat.DenseCopyOf(m.data)
	}
	return out
}
