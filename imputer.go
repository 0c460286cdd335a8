package knnimpute

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/knnimpute/knn"
	"github.com/hupe1980/knnimpute/table"
)

const tracerName = "github.com/hupe1980/knnimpute"

// Imputer fills missing table cells with k-nearest-neighbors estimates under
// an optional deadline.
//
// Configuration is immutable after New, so concurrent Produce calls are safe.
// State reflects whichever call finished last.
type Imputer struct {
	k         int
	verbose   int
	estimator *knn.Estimator
	logger    *Logger
	metrics   MetricsCollector
	tracer    trace.Tracer
	state     atomic.Int32
}

// New creates an Imputer. It is ready for Produce immediately.
func New(optFns ...Option) (*Imputer, error) {
	opts := applyOptions(optFns)

	if opts.k < 1 {
		return nil, ErrInvalidK
	}
	if opts.verbose < 0 {
		return nil, ErrInvalidVerbosity
	}

	est, err := knn.NewEstimator(opts.k,
		knn.WithMetric(opts.metric),
		knn.WithMinDistance(opts.minDistance),
		knn.WithFallback(opts.fallback),
		knn.WithWorkers(opts.workers),
		knn.WithLogger(opts.logger.Logger),
	)
	if err != nil {
		return nil, translateError(err)
	}

	im := &Imputer{
		k:         opts.k,
		verbose:   opts.verbose,
		estimator: est,
		logger:    opts.logger.WithK(opts.k),
		metrics:   opts.metricsCollector,
		tracer:    opts.tracerProvider.Tracer(tracerName),
	}
	im.state.Store(int32(StateFinished))

	return im, nil
}

// K returns the neighbor count.
func (im *Imputer) K() int { return im.k }

// Verbose returns the configured verbosity.
func (im *Imputer) Verbose() int { return im.verbose }

// State returns the outcome of the most recent Produce call.
func (im *Imputer) State() State {
	if im == nil || im.estimator == nil {
		return StateUnfitted
	}
	return State(im.state.Load())
}

// Status returns the polling view of the most recent Produce call.
func (im *Imputer) Status() CallMetadata {
	return im.State().metadata()
}

// IsNoResult reports whether a Produce return pair is the timeout sentinel.
func IsNoResult(t *table.Table, err error) bool {
	return t == nil && err == nil
}

type produceResult struct {
	table  *table.Table
	report *knn.Report
	err    error
}

// Produce returns a copy of t with every missing cell imputed.
//
// The returned table has t's column labels, column order and row order.
// When the deadline passes first (WithTimeout or a deadline on ctx), Produce
// returns (nil, nil), the no-result sentinel, and the state becomes
// StateTimedOut. Cancelling ctx returns its error and also leaves the call
// unfinished. Structural problems such as an *EncodingError are returned as
// errors without changing the state. t is never modified.
func (im *Imputer) Produce(ctx context.Context, t *table.Table, optFns ...ProduceOption) (*table.Table, error) {
	if im == nil || im.estimator == nil {
		return nil, ErrNotFitted
	}

	opts := applyProduceOptions(optFns)
	start := time.Now()

	ctx, span := im.tracer.Start(ctx, "knnimpute.Produce", trace.WithAttributes(
		attribute.Int("knn.k", im.k),
		attribute.Int64("knn.timeout_ms", opts.timeout.Milliseconds()),
	))
	defer span.End()

	if opts.iterations != 0 {
		im.logger.DebugContext(ctx, "iterations have no effect on knn imputation", "iterations", opts.iterations)
	}

	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if opts.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, opts.timeout)
	}
	defer cancel()

	// Buffered so an abandoned worker can always deliver and exit.
	results := make(chan produceResult, 1)
	go func() {
		out, report, err := im.run(runCtx, t)
		results <- produceResult{table: out, report: report, err: err}
	}()

	var (
		res      produceResult
		received bool
	)
	select {
	case res = <-results:
		received = true
	case <-runCtx.Done():
	}
	elapsed := time.Since(start)

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		im.state.Store(int32(StateTimedOut))
		im.metrics.RecordProduce(OutcomeTimedOut, elapsed)
		im.logger.LogTimeout(ctx, opts.timeout, elapsed)
		span.SetAttributes(attribute.Bool("knn.timed_out", true))
		return nil, nil

	case received && res.err == nil:
		im.state.Store(int32(StateFinished))
		im.metrics.RecordImpute(res.report.Missing, res.report.Imputed, res.report.Fallbacks)
		im.metrics.RecordProduce(OutcomeFinished, elapsed)
		im.logger.LogImpute(ctx, res.report)
		im.logger.LogProduce(ctx, res.table.NumRows(), res.table.NumCols(), elapsed, nil)
		return res.table, nil

	case !received || errors.Is(res.err, context.Canceled):
		err := fmt.Errorf("produce interrupted: %w", context.Cause(runCtx))
		im.state.Store(int32(StateTimedOut))
		im.metrics.RecordProduce(OutcomeCanceled, elapsed)
		im.logger.LogProduce(ctx, 0, 0, elapsed, err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err

	default:
		err := translateError(res.err)
		im.metrics.RecordProduce(OutcomeFailed, elapsed)
		im.logger.LogProduce(ctx, 0, 0, elapsed, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
}

// ProduceInputs runs Produce on the single table in inputs.
// Zero tables yield ErrNoInput and more than one yield ErrMultipleInputs.
func (im *Imputer) ProduceInputs(ctx context.Context, inputs []*table.Table, optFns ...ProduceOption) (*table.Table, error) {
	if im == nil || im.estimator == nil {
		return nil, ErrNotFitted
	}
	switch len(inputs) {
	case 0:
		return nil, ErrNoInput
	case 1:
		return im.Produce(ctx, inputs[0], optFns...)
	default:
		return nil, fmt.Errorf("%w: got %d", ErrMultipleInputs, len(inputs))
	}
}

// run executes encode, impute and decode. It only returns a table when every
// stage completed.
func (im *Imputer) run(ctx context.Context, t *table.Table) (*table.Table, *knn.Report, error) {
	enc, err := table.Encode(t)
	if err != nil {
		return nil, nil, err
	}

	m, err := knn.NewMatrix(enc.Rows, enc.Cols, enc.Values)
	if err != nil {
		return nil, nil, err
	}

	out, report, err := im.estimator.Impute(ctx, m)
	if err != nil {
		return nil, nil, err
	}

	decoded, err := table.Decode(enc, out.Values())
	if err != nil {
		return nil, nil, err
	}

	return decoded, report, nil
}
