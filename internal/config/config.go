// Package config loads knnimpute command line configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/knnimpute/distance"
	"github.com/hupe1980/knnimpute/knn"
	"github.com/hupe1980/knnimpute/table"
)

// Config is the file format read by the knnimpute command.
type Config struct {
	K           int           `yaml:"k"`
	Verbose     int           `yaml:"verbose"`
	Timeout     time.Duration `yaml:"timeout"`
	Metric      string        `yaml:"metric"`
	Fallback    string        `yaml:"fallback"`
	Workers     int           `yaml:"workers"`
	MinDistance float64       `yaml:"min_distance"`
	CSV         CSVConfig     `yaml:"csv"`
	S3          S3Config      `yaml:"s3"`
	MinIO       MinIOConfig   `yaml:"minio"`
}

// CSVConfig controls table parsing and rendering.
type CSVConfig struct {
	Delimiter      string   `yaml:"delimiter"`
	MissingMarkers []string `yaml:"missing_markers"`
	MissingOutput  string   `yaml:"missing_output"`
}

// S3Config configures s3:// locations.
type S3Config struct {
	Region string `yaml:"region"`
}

// MinIOConfig configures minio:// locations.
// Empty credentials fall back to MINIO_ACCESS_KEY and MINIO_SECRET_KEY.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		K:           5,
		Metric:      distance.MetricNaNEuclidean.String(),
		Fallback:    knn.FallbackColumnMean.String(),
		Workers:     1,
		MinDistance: knn.DefaultMinDistance,
		CSV: CSVConfig{
			Delimiter:      ",",
			MissingMarkers: append([]string(nil), table.DefaultMissingMarkers...),
		},
		MinIO: MinIOConfig{
			Endpoint: "localhost:9000",
		},
	}
}

// Load reads a YAML file on top of Default. An empty path returns Default.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := Parse(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping fields the document does not set,
// and validates the result.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg.Validate()
}

// Validate checks value ranges and resolves enum names.
func (c Config) Validate() error {
	var errs []error
	if c.K < 1 {
		errs = append(errs, fmt.Errorf("k must be >= 1, got %d", c.K))
	}
	if c.Verbose < 0 {
		errs = append(errs, fmt.Errorf("verbose must be >= 0, got %d", c.Verbose))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must be >= 0, got %s", c.Timeout))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if c.MinDistance <= 0 {
		errs = append(errs, fmt.Errorf("min_distance must be > 0, got %g", c.MinDistance))
	}
	if _, err := distance.ParseMetric(c.Metric); err != nil {
		errs = append(errs, err)
	}
	if _, err := knn.ParseFallback(c.Fallback); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.CSV.Comma(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Comma returns the delimiter as a rune.
func (c CSVConfig) Comma() (rune, error) {
	r := []rune(c.Delimiter)
	if len(r) != 1 {
		return 0, fmt.Errorf("csv delimiter must be a single character, got %q", c.Delimiter)
	}
	return r[0], nil
}
