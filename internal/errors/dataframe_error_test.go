package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/paveg/tabula/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestDataFrameError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *errors.DataFrameError
		expected string
	}{
		{
			name: "Error with column",
			err: &errors.DataFrameError{
				Kind:    errors.KindColumnNotFound,
				Op:      "GetColumn",
				Column:  "age",
				Message: "column does not exist",
			},
			expected: "ColumnNotFound: GetColumn operation failed on column 'age': column does not exist",
		},
		{
			name: "Error without column",
			err: &errors.DataFrameError{
				Kind:    errors.KindLengthMismatch,
				Op:      "AddColumn",
				Message: "mismatched lengths",
			},
			expected: "LengthMismatch: AddColumn operation failed: mismatched lengths",
		},
		{
			name: "Error with cause only",
			err: &errors.DataFrameError{
				Kind:  errors.KindIO,
				Op:    "ReadCSV",
				Cause: stderrors.New("permission denied"),
			},
			expected: "IOError: ReadCSV operation failed: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDataFrameError_Unwrap(t *testing.T) {
	cause := stderrors.New("underlying error")
	err := errors.NewIOError("WriteCSV", "/tmp/out.csv", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.ErrorIs(t, err, cause)
}

func TestDataFrameError_Is(t *testing.T) {
	err := errors.NewColumnNotFoundError("GetColumn", "age")

	t.Run("matches kind sentinel", func(t *testing.T) {
		assert.ErrorIs(t, err, errors.ErrColumnNotFound)
		assert.NotErrorIs(t, err, errors.ErrLengthMismatch)
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("loading frame: %w", err)
		assert.ErrorIs(t, wrapped, errors.ErrColumnNotFound)
	})

	t.Run("op and column narrow the match", func(t *testing.T) {
		assert.True(t, err.Is(&errors.DataFrameError{Kind: errors.KindColumnNotFound, Op: "GetColumn"}))
		assert.False(t, err.Is(&errors.DataFrameError{Kind: errors.KindColumnNotFound, Op: "Select"}))
		assert.False(t, err.Is(&errors.DataFrameError{Kind: errors.KindColumnNotFound, Column: "name"}))
	})

	t.Run("non DataFrameError never matches", func(t *testing.T) {
		assert.False(t, err.Is(stderrors.New("different error")))
	})
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *errors.DataFrameError
		sentinel error
		contains string
	}{
		{"length mismatch", errors.NewLengthMismatchError("AddColumn", "b", 3, 4), errors.ErrLengthMismatch, "expected length 3, got 4"},
		{"index out of range", errors.NewIndexOutOfRangeError("Get", 7, 3), errors.ErrIndexOutOfRange, "index 7 out of range for length 3"},
		{"cast", errors.NewCastError("Cast", "x", 2, "abc", stderrors.New("invalid syntax")), errors.ErrCast, `cannot convert "abc" at position 2`},
		{"value", errors.NewValueError("Var", "x", "zero denominator"), errors.ErrValue, "zero denominator"},
		{"empty", errors.NewEmptyInputError("Mean"), errors.ErrEmptyInput, "input is empty"},
		{"type mismatch", errors.NewTypeMismatchError("GetColumn", "x", "int64", "float64"), errors.ErrTypeMismatch, "column holds int64, requested float64"},
		{"header", errors.NewHeaderParseError("ReadCSV", "no header row", nil), errors.ErrHeaderParse, "no header row"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Contains(t, tt.err.Error(), tt.contains)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "EmptyInputError", errors.KindEmptyInput.String())
	assert.Equal(t, "Unknown", errors.KindUnknown.String())
}
