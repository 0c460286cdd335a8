// Package testutil provides testing utilities for knnimpute.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random tables, masking cells,
// computing exact (brute force) imputations and scoring results.
//
// # Random Data Generation
//
//	rng := testutil.NewRNG(seed)
//	values := rng.GaussianMatrix(1000, 8)
//	masked := rng.MaskMissing(values, 0.1) // 10% of cells become NaN
//
// # Exact Imputation (Ground Truth)
//
//	want := testutil.ExactImpute(masked, k, distance.NaNEuclidean, knn.DefaultMinDistance)
//
// # Scoring
//
//	rmse := testutil.RMSE(values, imputed, masked)
package testutil
