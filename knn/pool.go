package knn

import "github.com/hupe1980/knnimpute/queue"

// maxPooledRows bounds the distance buffer kept in the pool.
const maxPooledRows = 1 << 20

// rowScratch holds the per-row buffers reused across imputeRow calls.
type rowScratch struct {
	dists   []float64
	nearest *queue.Bounded
}

// getScratch retrieves a scratch sized for rows candidate rows.
func (e *Estimator) getScratch(rows int) *rowScratch {
	sc := e.scratch.Get().(*rowScratch)
	if cap(sc.dists) < rows {
		sc.dists = make([]float64, rows)
	}
	sc.dists = sc.dists[:rows]
	sc.nearest.Reset()
	return sc
}

// putScratch returns sc to the pool for reuse.
func (e *Estimator) putScratch(sc *rowScratch) {
	if cap(sc.dists) > maxPooledRows {
		sc.dists = nil
	}
	e.scratch.Put(sc)
}
