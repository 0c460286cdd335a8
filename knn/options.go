package knn

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hupe1980/knnimpute/distance"
)

// DefaultMinDistance floors neighbor distances before inversion.
const DefaultMinDistance = 1e-6

// Fallback selects how a missing cell without any eligible neighbor is filled.
type Fallback int

const (
	// FallbackColumnMean fills with the mean of the column's observed values,
	// or 0 when the column has none.
	FallbackColumnMean Fallback = iota
	// FallbackZero fills with 0.
	FallbackZero
	// FallbackError aborts with an *InsufficientDataError.
	FallbackError
)

func (f Fallback) String() string {
	switch f {
	case FallbackColumnMean:
		return "column-mean"
	case FallbackZero:
		return "zero"
	case FallbackError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseFallback resolves a fallback by its String name.
func ParseFallback(name string) (Fallback, error) {
	for _, f := range []Fallback{FallbackColumnMean, FallbackZero, FallbackError} {
		if f.String() == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown fallback %q", name)
}

type options struct {
	metric           distance.Metric
	minDistance      float64
	fallback         Fallback
	workers          int
	logger           *slog.Logger
	progressInterval time.Duration
}

func defaultOptions() options {
	return options{
		metric:           distance.MetricNaNEuclidean,
		minDistance:      DefaultMinDistance,
		fallback:         FallbackColumnMean,
		workers:          1,
		logger:           slog.New(slog.DiscardHandler),
		progressInterval: time.Second,
	}
}

// Option configures an Estimator.
type Option func(*options)

// WithMetric sets the partial distance metric. Default: distance.MetricNaNEuclidean.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithMinDistance sets the floor applied to distances before computing weights.
// Values <= 0 keep the default.
func WithMinDistance(d float64) Option {
	return func(o *options) {
		if d > 0 {
			o.minDistance = d
		}
	}
}

// WithFallback sets the strategy for cells with no eligible neighbor.
func WithFallback(f Fallback) Option {
	return func(o *options) {
		o.fallback = f
	}
}

// WithWorkers sets how many rows are imputed concurrently.
// Values < 1 keep the default of 1. Output does not depend on this value.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.workers = n
		}
	}
}

// WithLogger sets the logger used for progress reporting.
// If nil is passed, logging is discarded.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		o.logger = l
	}
}

// WithProgressInterval sets the minimum interval between progress log lines.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.progressInterval = d
		}
	}
}
