// Package knn implements k-nearest-neighbors imputation of missing matrix cells.
//
// For every missing cell (r, c) the estimator ranks the other rows observed at
// column c by their partial distance to row r, keeps the k nearest (ties broken
// by row index), and fills the cell with their inverse-distance weighted mean.
// Observed cells are never modified.
//
// # Usage
//
//	m, err := knn.NewMatrix(rows, cols, values) // NaN marks a missing cell
//	est, err := knn.NewEstimator(5)
//	out, report, err := est.Impute(ctx, m)
//
// Cells without any eligible neighbor fall back to the column mean (see Fallback).
package knn
