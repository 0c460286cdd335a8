package knn

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/knnimpute/distance"
	"github.com/hupe1980/knnimpute/queue"
)

// Report summarizes one Impute call.
type Report struct {
	// Missing is the number of missing cells in the input.
	Missing int
	// Imputed is the number of cells filled from neighbors.
	Imputed int
	// Fallbacks is the number of cells filled by the fallback strategy.
	Fallbacks int
	// Rows is the number of rows that had at least one missing cell.
	Rows int
}

// Estimator fills missing cells with the distance-weighted mean of the k
// nearest rows. It holds no state between calls and is safe for concurrent use.
type Estimator struct {
	k       int
	dist    distance.Func
	opts    options
	scratch sync.Pool
}

// NewEstimator creates an Estimator using k neighbors.
func NewEstimator(k int, optFns ...Option) (*Estimator, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}

	dist, err := distance.Provider(opts.metric)
	if err != nil {
		return nil, err
	}

	e := &Estimator{k: k, dist: dist, opts: opts}
	e.scratch.New = func() any {
		return &rowScratch{nearest: queue.NewBounded(k)}
	}
	return e, nil
}

// K returns the neighbor count.
func (e *Estimator) K() int { return e.k }

// Impute returns a copy of m with every missing cell estimated.
//
// Observed cells are copied unchanged. ctx is checked before each row; when it
// is done the partial result is discarded and ctx.Err() is returned.
func (e *Estimator) Impute(ctx context.Context, m *Matrix) (*Matrix, *Report, error) {
	if m == nil {
		return nil, nil, fmt.Errorf("%w: nil matrix", ErrShapeMismatch)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	out := m.clone()
	out.missing = roaring.New()

	report := &Report{Missing: m.MissingCount()}
	if report.Missing == 0 {
		return out, report, nil
	}

	means, observed := m.columnMeans()
	byRow := m.missingRows()
	targets := make([]int, 0, len(byRow))
	for r := range byRow {
		targets = append(targets, r)
	}
	slices.Sort(targets)
	report.Rows = len(targets)

	var (
		imputed   atomic.Int64
		fallbacks atomic.Int64
		done      atomic.Int64
	)
	progress := rate.Sometimes{Interval: e.opts.progressInterval}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.workers)

	for _, r := range targets {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, f, err := e.imputeRow(m, out, r, byRow[r], means, observed)
			if err != nil {
				return err
			}
			imputed.Add(int64(n))
			fallbacks.Add(int64(f))

			rows := done.Add(1)
			progress.Do(func() {
				e.opts.logger.DebugContext(gctx, "knn imputation progress",
					"rows_done", rows,
					"rows_total", len(targets),
				)
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	// errgroup cancels gctx only on error; a parent cancel can stop the loop early.
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	report.Imputed = int(imputed.Load())
	report.Fallbacks = int(fallbacks.Load())

	return out, report, nil
}

// imputeRow fills the missing columns cols of row r in out, reading only m.
func (e *Estimator) imputeRow(m, out *Matrix, r int, cols []int, means []float64, observed []bool) (int, int, error) {
	target := m.Row(r)

	sc := e.getScratch(m.rows)
	defer e.putScratch(sc)

	dists := sc.dists
	for j := range dists {
		if j == r {
			dists[j] = math.Inf(1)
			continue
		}
		d, shared := e.dist(target, m.Row(j))
		if shared == 0 {
			d = math.Inf(1)
		}
		dists[j] = d
	}

	var imputed, fallbacks int
	nearest := sc.nearest

	for _, c := range cols {
		nearest.Reset()
		for j, d := range dists {
			if math.IsInf(d, 1) || math.IsNaN(m.data.At(j, c)) {
				continue
			}
			nearest.Offer(queue.Neighbor{Row: j, Distance: d})
		}

		if nearest.Len() == 0 {
			v, err := e.fallback(r, c, means, observed)
			if err != nil {
				return 0, 0, err
			}
			out.data.Set(r, c, v)
			fallbacks++
			continue
		}

		var sum, weights float64
		for _, n := range nearest.Sorted() {
			w := 1 / math.Max(n.Distance, e.opts.minDistance)
			sum += w * m.data.At(n.Row, c)
			weights += w
		}
		out.data.Set(r, c, sum/weights)
		imputed++
	}

	return imputed, fallbacks, nil
}

func (e *Estimator) fallback(r, c int, means []float64, observed []bool) (float64, error) {
	switch e.opts.fallback {
	case FallbackZero:
		return 0, nil
	case FallbackError:
		return 0, &InsufficientDataError{Row: r, Col: c}
	default:
		if observed[c] {
			return means[c], nil
		}
		return 0, nil
	}
}
