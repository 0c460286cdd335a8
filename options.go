package knnimpute

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/knnimpute/distance"
	"github.com/hupe1980/knnimpute/knn"
)

// DefaultK is the neighbor count used when WithK is not given.
const DefaultK = 5

type options struct {
	k                int
	verbose          int
	metric           distance.Metric
	minDistance      float64
	fallback         knn.Fallback
	workers          int
	metricsCollector MetricsCollector
	logger           *Logger
	tracerProvider   trace.TracerProvider
}

// Option configures an Imputer.
type Option func(*options)

// WithK sets the number of neighbors averaged per missing cell. Default: 5.
func WithK(k int) Option {
	return func(o *options) {
		o.k = k
	}
}

// WithVerbose sets the diagnostic output volume.
//
//   - 0: silent (default)
//   - 1: one line per Produce call
//   - 2+: adds throttled per-row progress
//
// An explicit WithLogger takes precedence.
func WithVerbose(v int) Option {
	return func(o *options) {
		o.verbose = v
	}
}

// WithMetric sets the partial distance metric. Default: distance.MetricNaNEuclidean.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithMinDistance sets the floor applied to neighbor distances before they are
// inverted into weights. Default: knn.DefaultMinDistance.
func WithMinDistance(d float64) Option {
	return func(o *options) {
		o.minDistance = d
	}
}

// WithFallback sets how cells without any eligible neighbor are filled.
// Default: knn.FallbackColumnMean.
func WithFallback(f knn.Fallback) Option {
	return func(o *options) {
		o.fallback = f
	}
}

// WithWorkers sets how many rows are imputed concurrently. Default: 1.
// The output is identical for every worker count.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring Produce calls.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &knnimpute.BasicMetricsCollector{}
//	im, _ := knnimpute.New(knnimpute.WithMetricsCollector(metrics))
//	// ... use im ...
//	stats := metrics.GetStats()
//	fmt.Printf("Produced: %d, timed out: %d\n", stats.FinishedCount, stats.TimedOutCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to fall back to the verbosity-derived logger.
//
// Example with JSON logging:
//
//	logger := knnimpute.NewJSONLogger(slog.LevelDebug)
//	im, _ := knnimpute.New(knnimpute.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider.
// Default: the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		k:                DefaultK,
		metric:           distance.MetricNaNEuclidean,
		minDistance:      knn.DefaultMinDistance,
		fallback:         knn.FallbackColumnMean,
		workers:          1,
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NewVerbosityLogger(o.verbose)
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	return o
}

type produceOptions struct {
	timeout    time.Duration
	iterations int
}

// ProduceOption configures a single Produce call.
type ProduceOption func(*produceOptions)

// WithTimeout bounds the call by a wall-clock duration.
// Zero or negative durations mean unbounded.
func WithTimeout(d time.Duration) ProduceOption {
	return func(o *produceOptions) {
		o.timeout = d
	}
}

// WithIterations is accepted for symmetry with iterative imputers.
// k-NN imputation is single-pass, so the value has no effect.
func WithIterations(n int) ProduceOption {
	return func(o *produceOptions) {
		o.iterations = n
	}
}

func applyProduceOptions(optFns []ProduceOption) produceOptions {
	var o produceOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
