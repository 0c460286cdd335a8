package benchmark_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/knnimpute"
	"github.com/hupe1980/knnimpute/table"
	"github.com/hupe1980/knnimpute/testutil"
)

// ============================================================================
// Benchmark Configuration
// ============================================================================

// Standard dataset sizes.
const (
	rowsSmall  = 500   // Fast CI benchmarks
	rowsMedium = 2_000 // Default CI
	rowsLarge  = 5_000 // Production-scale
)

const (
	benchCols        = 8
	benchClusters    = 6
	benchMissingRate = 0.1
)

// Seed for deterministic benchmarks - enables reproducible comparisons.
const benchSeed = 42

// ============================================================================
// Benchmark Helpers
// ============================================================================

type fixture struct {
	truth  [][]float64
	masked [][]float64
	table  *table.Table
}

func newFixture(rows int) fixture {
	rng := testutil.NewRNG(benchSeed)
	truth := rng.ClusteredMatrix(rows, benchCols, benchClusters, 0.5)
	masked := rng.MaskMissing(truth, benchMissingRate)
	return fixture{truth: truth, masked: masked, table: testutil.NumericTable(masked)}
}

func newImputer(b *testing.B, optFns ...knnimpute.Option) *knnimpute.Imputer {
	b.Helper()
	im, err := knnimpute.New(optFns...)
	if err != nil {
		b.Fatal(err)
	}
	return im
}

func runProduce(b *testing.B, im *knnimpute.Imputer, t *table.Table) {
	b.Helper()
	b.ReportAllocs()
	b.ReportMetric(float64(t.MissingCount()), "missing/op")

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out, err := im.Produce(ctx, t)
		if err != nil {
			b.Fatal(err)
		}
		if out == nil {
			b.Fatal("unexpected no-result")
		}
	}
}

func sizeName(rows int) string {
	return fmt.Sprintf("rows=%d", rows)
}
