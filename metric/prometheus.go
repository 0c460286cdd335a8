package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/knnimpute"
)

// Compile time check to ensure PrometheusCollector satisfies knnimpute.MetricsCollector.
var _ knnimpute.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector records Produce outcomes and cell counts as Prometheus metrics.
type PrometheusCollector struct {
	produceTotal    *prometheus.CounterVec
	produceDuration *prometheus.HistogramVec
	cellsTotal      *prometheus.CounterVec
}

// NewPrometheusCollector creates the collector and registers its metrics with reg.
// namespace may be empty.
func NewPrometheusCollector(reg prometheus.Registerer, namespace string) (*PrometheusCollector, error) {
	c := &PrometheusCollector{
		produceTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "knnimpute",
			Name:      "produce_total",
			Help:      "Produce calls by outcome.",
		}, []string{"outcome"}),
		produceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "knnimpute",
			Name:      "produce_duration_seconds",
			Help:      "Wall time of Produce calls by outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"outcome"}),
		cellsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "knnimpute",
			Name:      "cells_total",
			Help:      "Cells seen by the estimator, by kind (missing, imputed, fallback).",
		}, []string{"kind"}),
	}

	for _, col := range []prometheus.Collector{c.produceTotal, c.produceDuration, c.cellsTotal} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// RecordProduce implements knnimpute.MetricsCollector.
func (c *PrometheusCollector) RecordProduce(outcome knnimpute.Outcome, duration time.Duration) {
	c.produceTotal.WithLabelValues(outcome.String()).Inc()
	c.produceDuration.WithLabelValues(outcome.String()).Observe(duration.Seconds())
}

// RecordImpute implements knnimpute.MetricsCollector.
func (c *PrometheusCollector) RecordImpute(missing, imputed, fallbacks int) {
	c.cellsTotal.WithLabelValues("missing").Add(float64(missing))
	c.cellsTotal.WithLabelValues("imputed").Add(float64(imputed))
	c.cellsTotal.WithLabelValues("fallback").Add(float64(fallbacks))
}
