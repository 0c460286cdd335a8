// Package distance provides partial distance functions for rows with missing values.
//
// A missing coordinate is encoded as NaN. Every function compares only the
// coordinates observed in both rows and reports how many were shared, so callers
// can treat rows without any overlap as ineligible.
//
// # Supported Metrics
//
//   - MetricNaNEuclidean: Euclidean distance rescaled by n/shared (default)
//   - MetricMeanSquared: mean squared difference over shared coordinates
//   - MetricNaNManhattan: Manhattan distance rescaled by n/shared
//
// # Usage
//
//	d, shared := distance.NaNEuclidean(a, b)
//	if shared == 0 {
//	    // no comparable coordinates
//	}
package distance
