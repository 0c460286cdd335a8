package knn

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrShapeMismatch is returned when the value buffer does not match rows*cols.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInsufficientData is the sentinel matched by InsufficientDataError.
	ErrInsufficientData = errors.New("insufficient data")
)

// InsufficientDataError indicates a missing cell had no eligible neighbor.
//
// It is only returned with FallbackError; other fallbacks fill the cell instead.
type InsufficientDataError struct {
	Row int
	Col int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: no neighbor observed at row %d, column %d", e.Row, e.Col)
}

func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }
