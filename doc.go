// Package knnimpute fills missing values in tabular data with a bounded
// k-nearest-neighbors imputer.
//
// An Imputer converts a table.Table into a numeric matrix, estimates every
// missing cell as the distance-weighted mean of its k nearest rows, and
// rebuilds a Table with the original column labels and row order. Each call
// can be bounded by a wall-clock timeout; when the deadline elapses the call
// returns the no-result sentinel instead of a partial table.
//
// # Quick Start
//
//	im, err := knnimpute.New(knnimpute.WithK(5), knnimpute.WithVerbose(1))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := im.Produce(ctx, tbl, knnimpute.WithTimeout(30*time.Second))
//	switch {
//	case err != nil:
//	    log.Fatal(err)
//	case knnimpute.IsNoResult(out, err):
//	    // deadline elapsed; retry with a larger budget or escalate
//	}
//
// # Lifecycle
//
// There is no training phase: k and the distance settings are fixed by New and
// the Imputer is ready immediately. State and Status report the outcome of the
// most recent Produce call for orchestrators that poll instead of inspecting
// return values:
//
//	StateFinished  the last call returned a complete table (also the initial state)
//	StateTimedOut  the last call was interrupted and returned no table
//	StateUnfitted  the Imputer was not built by New
//
// # Cancellation
//
// The pipeline runs on its own goroutine. Produce returns as soon as the
// deadline passes; the worker observes the cancellation at its next row
// checkpoint and its partial result is discarded.
package knnimpute
