// Package metric exports imputation metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	collector, err := metric.NewPrometheusCollector(reg, "etl")
//	im, _ := knnimpute.New(knnimpute.WithMetricsCollector(collector))
package metric
