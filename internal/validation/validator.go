// Package validation provides input validation utilities for DataFrame operations.
// This package implements reusable validators for column existence, column
// name uniqueness, length consistency and positional bounds. Every validator
// reports a typed DataFrameError so callers can match failures by kind.
package validation

import (
	"github.com/paveg/tabula/internal/errors"
)

// Validator interface for input validation
type Validator interface {
	Validate() error
}

// ColumnProvider interface for types that provide column information
type ColumnProvider interface {
	HasColumn(name string) bool
	Columns() []string
	Len() int
	NColumns() int
}

// ColumnValidator validates column existence
type ColumnValidator struct {
	df      ColumnProvider
	columns []string
	op      string
}

// NewColumnValidator creates a validator for column operations
func NewColumnValidator(df ColumnProvider, op string, columns ...string) *ColumnValidator {
	return &ColumnValidator{
		df:      df,
		columns: columns,
		op:      op,
	}
}

// Validate checks if all columns exist in the DataFrame
func (v *ColumnValidator) Validate() error {
	for _, column := range v.columns {
		if !v.df.HasColumn(column) {
			return errors.NewColumnNotFoundError(v.op, column)
		}
	}
	return nil
}

// UniqueNameValidator rejects a column name that is already registered
type UniqueNameValidator struct {
	df   ColumnProvider
	name string
	op   string
}

// NewUniqueNameValidator creates a validator for column name uniqueness
func NewUniqueNameValidator(df ColumnProvider, op, name string) *UniqueNameValidator {
	return &UniqueNameValidator{df: df, name: name, op: op}
}

// Validate checks that the name is not taken
func (v *UniqueNameValidator) Validate() error {
	if v.df.HasColumn(v.name) {
		return errors.NewValueError(v.op, v.name, "column already exists")
	}
	return nil
}

// LengthValidator validates length consistency
type LengthValidator struct {
	expected int
	actual   int
	op       string
	column   string
}

// NewLengthValidator creates a validator for length consistency
func NewLengthValidator(expected, actual int, op, column string) *LengthValidator {
	return &LengthValidator{
		expected: expected,
		actual:   actual,
		op:       op,
		column:   column,
	}
}

// Validate checks if lengths match
func (v *LengthValidator) Validate() error {
	if v.expected != v.actual {
		return errors.NewLengthMismatchError(v.op, v.column, v.expected, v.actual)
	}
	return nil
}

// IndexValidator validates index bounds
type IndexValidator struct {
	index int
	max   int
	op    string
}

// NewIndexValidator creates a validator for index operations
func NewIndexValidator(index, maxIndex int, op string) *IndexValidator {
	return &IndexValidator{
		index: index,
		max:   maxIndex,
		op:    op,
	}
}

// Validate checks if index is within bounds
func (v *IndexValidator) Validate() error {
	if v.index < 0 || v.index >= v.max {
		return errors.NewIndexOutOfRangeError(v.op, v.index, v.max)
	}
	return nil
}

// PositionsValidator validates a set of positions against a length
type PositionsValidator struct {
	positions []int
	max       int
	op        string
}

// NewPositionsValidator creates a validator for positional selections
func NewPositionsValidator(positions []int, maxIndex int, op string) *PositionsValidator {
	return &PositionsValidator{positions: positions, max: maxIndex, op: op}
}

// Validate checks every position and reports the first out of range
func (v *PositionsValidator) Validate() error {
	for _, p := range v.positions {
		if err := NewIndexValidator(p, v.max, v.op).Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CompoundValidator combines multiple validators
type CompoundValidator struct {
	validators []Validator
}

// NewCompoundValidator creates a validator that checks multiple conditions
func NewCompoundValidator(validators ...Validator) *CompoundValidator {
	return &CompoundValidator{
		validators: validators,
	}
}

// Validate runs all validators and returns the first error encountered
func (v *CompoundValidator) Validate() error {
	for _, validator := range v.validators {
		if err := validator.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Convenience validation functions

// ValidateColumns is a convenience function for column validation
func ValidateColumns(df ColumnProvider, op string, columns ...string) error {
	return NewColumnValidator(df, op, columns...).Validate()
}

// ValidateLength is a convenience function for length validation
func ValidateLength(expected, actual int, op, column string) error {
	return NewLengthValidator(expected, actual, op, column).Validate()
}

// ValidateIndex is a convenience function for index validation
func ValidateIndex(index, maxIndex int, op string) error {
	return NewIndexValidator(index, maxIndex, op).Validate()
}

// ValidatePositions is a convenience function for positional selections
func ValidatePositions(positions []int, maxIndex int, op string) error {
	return NewPositionsValidator(positions, maxIndex, op).Validate()
}
