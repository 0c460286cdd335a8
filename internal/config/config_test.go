package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.K)
	assert.Equal(t, "NaNEuclidean", cfg.Metric)
	assert.Equal(t, "column-mean", cfg.Fallback)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
}

func TestLoad(t *testing.T) {
	t.Run("EmptyPath", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "knnimpute.yaml")
		doc := `
k: 3
verbose: 1
timeout: 30s
metric: NaNManhattan
workers: 4
csv:
  delimiter: ";"
  missing_markers: ["NA"]
minio:
  endpoint: minio.internal:9000
  secure: true
`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.K)
		assert.Equal(t, 1, cfg.Verbose)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
		assert.Equal(t, "NaNManhattan", cfg.Metric)
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, []string{"NA"}, cfg.CSV.MissingMarkers)
		assert.Equal(t, "minio.internal:9000", cfg.MinIO.Endpoint)
		assert.True(t, cfg.MinIO.Secure)

		// Unset keys keep their defaults.
		assert.Equal(t, "column-mean", cfg.Fallback)

		comma, err := cfg.CSV.Comma()
		require.NoError(t, err)
		assert.Equal(t, ';', comma)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestParse(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		cfg := Default()
		require.NoError(t, Parse(nil, &cfg))
		assert.Equal(t, Default(), cfg)
	})

	t.Run("UnknownField", func(t *testing.T) {
		cfg := Default()
		err := Parse([]byte("neighbours: 3\n"), &cfg)
		assert.Error(t, err)
	})

	t.Run("Invalid", func(t *testing.T) {
		tests := []struct {
			name string
			doc  string
		}{
			{"ZeroK", "k: 0\n"},
			{"NegativeVerbose", "verbose: -1\n"},
			{"NegativeTimeout", "timeout: -1s\n"},
			{"ZeroWorkers", "workers: 0\n"},
			{"UnknownMetric", "metric: cosine\n"},
			{"UnknownFallback", "fallback: median\n"},
			{"LongDelimiter", "csv:\n  delimiter: \"::\"\n"},
			{"ZeroMinDistance", "min_distance: 0\n"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cfg := Default()
				assert.Error(t, Parse([]byte(tt.doc), &cfg))
			})
		}
	})
}
