// Package errors provides standardized error types for DataFrame operations.
// This package defines DataFrameError for consistent error handling across
// all public APIs, with an error kind, operation context and error wrapping support.
package errors

import (
	"fmt"
)

// Kind classifies a DataFrameError.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindLengthMismatch
	KindCast
	KindValue
	KindEmptyInput
	KindColumnNotFound
	KindIndexOutOfRange
	KindTypeMismatch
	KindIO
	KindHeaderParse
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindLengthMismatch:
		return "LengthMismatch"
	case KindCast:
		return "CastError"
	case KindValue:
		return "ValueError"
	case KindEmptyInput:
		return "EmptyInputError"
	case KindColumnNotFound:
		return "ColumnNotFound"
	case KindIndexOutOfRange:
		return "IndexOutOfRange"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindIO:
		return "IOError"
	case KindHeaderParse:
		return "HeaderParseError"
	default:
		return "Unknown"
	}
}

// DataFrameError represents standardized errors across all DataFrame operations
type DataFrameError struct {
	Kind    Kind   // Error classification
	Op      string // Operation name (e.g., "AddColumn", "Sum", "ReadCSV")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *DataFrameError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		if msg == "" {
			msg = e.Cause.Error()
		} else {
			msg = fmt.Sprintf("%s: %v", msg, e.Cause)
		}
	}
	if e.Column != "" {
		return fmt.Sprintf("%s: %s operation failed on column '%s': %s", e.Kind, e.Op, e.Column, msg)
	}
	return fmt.Sprintf("%s: %s operation failed: %s", e.Kind, e.Op, msg)
}

// Unwrap returns the underlying cause for error wrapping support
func (e *DataFrameError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is().
// A target with only a Kind set matches every error of that kind; Op and
// Column narrow the match when the target sets them.
func (e *DataFrameError) Is(target error) bool {
	t, ok := target.(*DataFrameError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Op != "" && t.Op != e.Op {
		return false
	}
	if t.Column != "" && t.Column != e.Column {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// Sentinels matching any error of their kind through errors.Is.
var (
	ErrLengthMismatch  = &DataFrameError{Kind: KindLengthMismatch}
	ErrCast            = &DataFrameError{Kind: KindCast}
	ErrValue           = &DataFrameError{Kind: KindValue}
	ErrEmptyInput      = &DataFrameError{Kind: KindEmptyInput}
	ErrColumnNotFound  = &DataFrameError{Kind: KindColumnNotFound}
	ErrIndexOutOfRange = &DataFrameError{Kind: KindIndexOutOfRange}
	ErrTypeMismatch    = &DataFrameError{Kind: KindTypeMismatch}
	ErrIO              = &DataFrameError{Kind: KindIO}
	ErrHeaderParse     = &DataFrameError{Kind: KindHeaderParse}
)

// Common error constructors for consistent error creation

// NewColumnNotFoundError creates an error for operations on non-existent columns
func NewColumnNotFoundError(op, column string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindColumnNotFound,
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewLengthMismatchError creates an error for columns or keys of unequal length
func NewLengthMismatchError(op, column string, expected, actual int) *DataFrameError {
	return &DataFrameError{
		Kind:    KindLengthMismatch,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("expected length %d, got %d", expected, actual),
	}
}

// NewIndexOutOfRangeError creates an error for positional access beyond the length
func NewIndexOutOfRangeError(op string, index, length int) *DataFrameError {
	return &DataFrameError{
		Kind:    KindIndexOutOfRange,
		Op:      op,
		Message: fmt.Sprintf("index %d out of range for length %d", index, length),
	}
}

// NewCastError creates an error for a value that cannot be converted
func NewCastError(op, column string, position int, value string, cause error) *DataFrameError {
	return &DataFrameError{
		Kind:    KindCast,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("cannot convert %q at position %d", value, position),
		Cause:   cause,
	}
}

// NewValueError creates an error for invalid operation inputs
func NewValueError(op, column, message string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindValue,
		Op:      op,
		Column:  column,
		Message: message,
	}
}

// NewEmptyInputError creates an error for aggregations over zero elements
func NewEmptyInputError(op string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindEmptyInput,
		Op:      op,
		Message: "input is empty",
	}
}

// NewTypeMismatchError creates an error for typed access under the wrong element type
func NewTypeMismatchError(op, column, stored, requested string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindTypeMismatch,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("column holds %s, requested %s", stored, requested),
	}
}

// NewIOError wraps a file or stream failure without reinterpreting it
func NewIOError(op, path string, cause error) *DataFrameError {
	return &DataFrameError{
		Kind:    KindIO,
		Op:      op,
		Message: path,
		Cause:   cause,
	}
}

// NewHeaderParseError creates an error for an unreadable or invalid header row
func NewHeaderParseError(op, message string, cause error) *DataFrameError {
	return &DataFrameError{
		Kind:    KindHeaderParse,
		Op:      op,
		Message: message,
		Cause:   cause,
	}
}
