package knnimpute

import (
	"errors"
	"fmt"

	"github.com/hupe1980/knnimpute/knn"
	"github.com/hupe1980/knnimpute/table"
)

var (
	// ErrNotFitted is returned when Produce is called on an Imputer not built by New.
	ErrNotFitted = errors.New("imputer is not fitted")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrInvalidVerbosity is returned when verbosity is negative.
	ErrInvalidVerbosity = errors.New("verbosity must not be negative")

	// ErrNoInput is returned when ProduceInputs receives no table.
	ErrNoInput = errors.New("no input table")

	// ErrMultipleInputs is returned when ProduceInputs receives more than one table.
	ErrMultipleInputs = errors.New("only a single input table is supported")
)

// EncodingError indicates the input table could not be converted to numeric form.
type EncodingError = table.EncodingError

// InsufficientDataError indicates a missing cell had no eligible neighbor.
// It is only returned when the knn.FallbackError strategy is configured.
type InsufficientDataError = knn.InsufficientDataError

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, knn.ErrInvalidK) {
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	}

	return err
}
