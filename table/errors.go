package table

import (
	"errors"
	"fmt"
)

var (
	// ErrNilTable is returned when a nil table is encoded.
	ErrNilTable = errors.New("nil table")

	// ErrEmptyColumnName is returned when a column has no name.
	ErrEmptyColumnName = errors.New("empty column name")

	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrRaggedColumns is returned when columns differ in length.
	ErrRaggedColumns = errors.New("columns differ in length")

	// ErrShapeMismatch is returned when decoded values do not match the schema.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// EncodingError indicates a table could not be converted to or from its
// numeric form.
//
// The original underlying error can be accessed via errors.Unwrap.
type EncodingError struct {
	Column string
	cause  error
}

func (e *EncodingError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("encoding error: %v", e.cause)
	}
	return fmt.Sprintf("encoding error: column %q: %v", e.Column, e.cause)
}

func (e *EncodingError) Unwrap() error { return e.cause }

func encodingError(column string, cause error) error {
	return &EncodingError{Column: column, cause: cause}
}
