package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the conditions the dashboard distinguishes
var (
	// ErrSourceNotFound indicates an optional input file is absent
	ErrSourceNotFound = errors.New("source not found")

	// ErrEmptySelection indicates a filter or selection left nothing to compute on
	ErrEmptySelection = errors.New("empty selection")

	// ErrSchemaMismatch indicates the clean and winsorized tables disagree on columns
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrInvalidInput indicates a caller supplied an unusable parameter
	ErrInvalidInput = errors.New("invalid input")
)

// ParseError reports a value that could not be parsed while loading a table.
// It is fatal for the whole load.
type ParseError struct {
	Source string
	Column string
	Row    int
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("parse %s: %s row %d: %q: %v", e.Source, e.Column, e.Row, e.Value, e.Err)
	}
	return fmt.Sprintf("parse %s: %s: %v", e.Source, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(source, column string, row int, value string, err error) *ParseError {
	return &ParseError{
		Source: source,
		Column: column,
		Row:    row,
		Value:  value,
		Err:    err,
	}
}

// ColumnNotFoundError reports a requested column missing from one dataset.
// Callers skip the dependent feature and keep going.
type ColumnNotFoundError struct {
	Dataset string
	Column  string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in %s dataset", e.Column, e.Dataset)
}

// NewColumnNotFoundError creates a new ColumnNotFoundError
func NewColumnNotFoundError(dataset, column string) *ColumnNotFoundError {
	return &ColumnNotFoundError{Dataset: dataset, Column: column}
}

// IsColumnNotFound reports whether err wraps a ColumnNotFoundError
func IsColumnNotFound(err error) bool {
	var cnf *ColumnNotFoundError
	return errors.As(err, &cnf)
}

// IsRecoverable reports whether err belongs to the class of conditions that
// degrade a single view instead of aborting the session.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrSourceNotFound) ||
		errors.Is(err, ErrEmptySelection) ||
		IsColumnNotFound(err)
}

// Invalid wraps ErrInvalidInput with a field-specific message
func Invalid(field, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, field, fmt.Sprintf(format, args...))
}
