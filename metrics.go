package knnimpute

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Outcome classifies how a Produce call ended.
type Outcome int

const (
	OutcomeFinished Outcome = iota
	OutcomeTimedOut
	OutcomeCanceled
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFinished:
		return "finished"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeCanceled:
		return "canceled"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Unknown(%d)", o)
	}
}

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the metric
// package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordProduce is called once per Produce call with its outcome and wall time.
	RecordProduce(outcome Outcome, duration time.Duration)

	// RecordImpute is called after a successful estimation with the number of
	// missing cells, cells estimated from neighbors, and fallback cells.
	RecordImpute(missing, imputed, fallbacks int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordProduce(Outcome, time.Duration) {}
func (NoopMetricsCollector) RecordImpute(int, int, int)           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FinishedCount    atomic.Int64
	TimedOutCount    atomic.Int64
	CanceledCount    atomic.Int64
	FailedCount      atomic.Int64
	ProduceTotalNano atomic.Int64
	MissingCells     atomic.Int64
	ImputedCells     atomic.Int64
	FallbackCells    atomic.Int64
}

// RecordProduce implements MetricsCollector.
func (b *BasicMetricsCollector) RecordProduce(outcome Outcome, duration time.Duration) {
	b.ProduceTotalNano.Add(duration.Nanoseconds())
	switch outcome {
	case OutcomeFinished:
		b.FinishedCount.Add(1)
	case OutcomeTimedOut:
		b.TimedOutCount.Add(1)
	case OutcomeCanceled:
		b.CanceledCount.Add(1)
	default:
		b.FailedCount.Add(1)
	}
}

// RecordImpute implements MetricsCollector.
func (b *BasicMetricsCollector) RecordImpute(missing, imputed, fallbacks int) {
	b.MissingCells.Add(int64(missing))
	b.ImputedCells.Add(int64(imputed))
	b.FallbackCells.Add(int64(fallbacks))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FinishedCount:   b.FinishedCount.Load(),
		TimedOutCount:   b.TimedOutCount.Load(),
		CanceledCount:   b.CanceledCount.Load(),
		FailedCount:     b.FailedCount.Load(),
		ProduceAvgNanos: b.getAvgProduceNanos(),
		MissingCells:    b.MissingCells.Load(),
		ImputedCells:    b.ImputedCells.Load(),
		FallbackCells:   b.FallbackCells.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgProduceNanos() int64 {
	count := b.FinishedCount.Load() + b.TimedOutCount.Load() + b.CanceledCount.Load() + b.FailedCount.Load()
	if count == 0 {
		return 0
	}
	return b.ProduceTotalNano.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FinishedCount   int64
	TimedOutCount   int64
	CanceledCount   int64
	FailedCount     int64
	ProduceAvgNanos int64
	MissingCells    int64
	ImputedCells    int64
	FallbackCells   int64
}
