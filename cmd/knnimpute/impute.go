package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hupe1980/knnimpute"
	"github.com/hupe1980/knnimpute/distance"
	"github.com/hupe1980/knnimpute/internal/config"
	"github.com/hupe1980/knnimpute/knn"
	"github.com/hupe1980/knnimpute/metric"
	"github.com/hupe1980/knnimpute/table"
)

var errTimedOut = errors.New("imputation timed out before producing a result")

type imputeFlags struct {
	input      string
	output     string
	configPath string
	metricsOut string
	k          int
	verbose    int
	timeout    time.Duration
	metric     string
	workers    int
}

func newImputeCmd() *cobra.Command {
	var f imputeFlags

	cmd := &cobra.Command{
		Use:   "impute",
		Short: "Impute missing cells of a CSV table",
		Example: `  knnimpute impute --input data.csv --output filled.csv
  knnimpute impute --input s3://lake/raw/survey.csv.zst --output minio://clean/survey.csv --k 3 --timeout 1m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			if err := f.apply(cmd, &cfg); err != nil {
				return err
			}
			return runImpute(cmd.Context(), cfg, f)
		},
	}

	cmd.Flags().StringVarP(&f.input, "input", "i", "", "input table location (path, s3:// or minio://)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output table location (path, s3:// or minio://)")
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&f.metricsOut, "metrics-out", "", "write Prometheus metrics to this file after the run")
	cmd.Flags().IntVar(&f.k, "k", 0, "number of neighbors")
	cmd.Flags().IntVarP(&f.verbose, "verbose", "v", 0, "verbosity (0 silent, 1 info, 2 debug)")
	cmd.Flags().DurationVarP(&f.timeout, "timeout", "t", 0, "wall-clock limit, 0 for unbounded")
	cmd.Flags().StringVar(&f.metric, "metric", "", "distance metric (NaNEuclidean, MeanSquared, NaNManhattan)")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "rows imputed concurrently")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// apply overrides config values with explicitly set flags.
func (f imputeFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("k") {
		cfg.K = f.k
	}
	if flags.Changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if flags.Changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if flags.Changed("metric") {
		cfg.Metric = f.metric
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	return cfg.Validate()
}

func runImpute(ctx context.Context, cfg config.Config, f imputeFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := knnimpute.NewVerbosityLogger(cfg.Verbose)

	opts, err := imputerOptions(cfg)
	if err != nil {
		return err
	}

	var reg *prometheus.Registry
	if f.metricsOut != "" {
		reg = prometheus.NewRegistry()
		collector, err := metric.NewPrometheusCollector(reg, "")
		if err != nil {
			return err
		}
		opts = append(opts, knnimpute.WithMetricsCollector(collector))
	}
	opts = append(opts, knnimpute.WithLogger(logger))

	im, err := knnimpute.New(opts...)
	if err != nil {
		return err
	}

	csvOpts, err := csvOptions(cfg.CSV)
	if err != nil {
		return err
	}

	src, name, err := openStore(ctx, f.input, cfg)
	if err != nil {
		return err
	}
	data, err := src.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.input, err)
	}
	t, err := table.DecodeCSV(data, name, csvOpts...)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", f.input, err)
	}
	logger.Info("table loaded", slog.String("input", f.input), slog.Int("rows", t.NumRows()), slog.Int("cols", t.NumCols()), slog.Int("missing", t.MissingCount()))

	out, err := im.Produce(ctx, t, knnimpute.WithTimeout(cfg.Timeout))
	if reg != nil {
		if werr := prometheus.WriteToTextfile(f.metricsOut, reg); werr != nil {
			logger.Warn("failed to write metrics", slog.String("path", f.metricsOut), slog.Any("error", werr))
		}
	}
	if knnimpute.IsNoResult(out, err) {
		return fmt.Errorf("%w (limit %s)", errTimedOut, cfg.Timeout)
	}
	if err != nil {
		return err
	}

	dst, name, err := openStore(ctx, f.output, cfg)
	if err != nil {
		return err
	}
	encoded, err := table.EncodeCSV(out, name, csvOpts...)
	if err != nil {
		return err
	}
	if err := dst.Put(ctx, name, encoded); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.output, err)
	}

	logger.Info("table written", slog.String("output", f.output))
	return nil
}

func imputerOptions(cfg config.Config) ([]knnimpute.Option, error) {
	m, err := distance.ParseMetric(cfg.Metric)
	if err != nil {
		return nil, err
	}
	fb, err := knn.ParseFallback(cfg.Fallback)
	if err != nil {
		return nil, err
	}
	return []knnimpute.Option{
		knnimpute.WithK(cfg.K),
		knnimpute.WithVerbose(cfg.Verbose),
		knnimpute.WithMetric(m),
		knnimpute.WithFallback(fb),
		knnimpute.WithMinDistance(cfg.MinDistance),
		knnimpute.WithWorkers(cfg.Workers),
	}, nil
}

func csvOptions(c config.CSVConfig) ([]table.CSVOption, error) {
	comma, err := c.Comma()
	if err != nil {
		return nil, err
	}
	return []table.CSVOption{
		table.WithDelimiter(comma),
		table.WithMissingMarkers(c.MissingMarkers...),
		table.WithMissingOutput(c.MissingOutput),
	}, nil
}
