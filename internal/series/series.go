// Package series provides the typed column abstraction of the table engine
package series

import (
	"fmt"
	"slices"
	"strings"

	"github.com/paveg/tabula/internal/dtype"
	"github.com/paveg/tabula/internal/errors"
)

// Series represents a typed data column: an ordered sequence of values of a
// single element type with an optional name.
type Series[T dtype.Element] struct {
	name   string
	values []T
	dtype  dtype.DType
}

// New creates a named Series that owns values. The slice is not copied.
func New[T dtype.Element](name string, values []T) *Series[T] {
	if values == nil {
		values = []T{}
	}
	return &Series[T]{
		name:   name,
		values: values,
		dtype:  dtype.Of[T](),
	}
}

// FromSlice creates an unnamed Series from a copy of values
func FromSlice[T dtype.Element](values []T) *Series[T] {
	return New("", slices.Clone(values))
}

// Arange returns start, start+1, ..., stop-1. The result is empty when stop <= start.
func Arange[T dtype.Numeric](start, stop T) *Series[T] {
	var values []T
	if stop > start {
		values = make([]T, 0, int(stop-start))
	}
	for v := start; v < stop; v++ {
		values = append(values, v)
	}
	return New("", values)
}

// Name returns the column name
func (s *Series[T]) Name() string {
	return s.name
}

// SetName renames the series
func (s *Series[T]) SetName(name string) {
	s.name = name
}

// Len returns the length of the series
func (s *Series[T]) Len() int {
	return len(s.values)
}

// DType returns the element type tag
func (s *Series[T]) DType() dtype.DType {
	return s.dtype
}

// Values returns a copy of the data as a Go slice
func (s *Series[T]) Values() []T {
	return slices.Clone(s.values)
}

// Get returns the value at position i
func (s *Series[T]) Get(i int) (T, error) {
	if i < 0 || i >= len(s.values) {
		var zero T
		return zero, errors.NewIndexOutOfRangeError("Get", i, len(s.values))
	}
	return s.values[i], nil
}

// At returns the value at position i and panics when i is out of range.
func (s *Series[T]) At(i int) T {
	v, err := s.Get(i)
	if err != nil {
		panic(err)
	}
	return v
}

// Set replaces the value at position i
func (s *Series[T]) Set(i int, v T) error {
	if i < 0 || i >= len(s.values) {
		return errors.NewIndexOutOfRangeError("Set", i, len(s.values))
	}
	s.values[i] = v
	return nil
}

// Append adds v at the end
func (s *Series[T]) Append(v T) {
	s.values = append(s.values, v)
}

// Clone returns a deep copy
func (s *Series[T]) Clone() *Series[T] {
	return New(s.name, slices.Clone(s.values))
}

// Take returns a new series holding the values at positions, in that order.
func (s *Series[T]) Take(positions []int) (*Series[T], error) {
	if err := s.ValidatePositions(positions); err != nil {
		return nil, err
	}
	out := make([]T, len(positions))
	for i, p := range positions {
		out[i] = s.values[p]
	}
	return New(s.name, out), nil
}

// ValidatePositions checks that every position addresses an element
func (s *Series[T]) ValidatePositions(positions []int) error {
	for _, p := range positions {
		if p < 0 || p >= len(s.values) {
			return errors.NewIndexOutOfRangeError("DropPositions", p, len(s.values))
		}
	}
	return nil
}

// DropPositions removes the elements at positions. Duplicates are tolerated,
// survivors keep their relative order and nothing changes on error.
func (s *Series[T]) DropPositions(positions []int) error {
	if err := s.ValidatePositions(positions); err != nil {
		return err
	}
	if len(positions) == 0 {
		return nil
	}

	drop := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		drop[p] = struct{}{}
	}

	kept := s.values[:0]
	for i, v := range s.values {
		if _, ok := drop[i]; !ok {
			kept = append(kept, v)
		}
	}
	clear(s.values[len(kept):])
	s.values = kept
	return nil
}

// Unique returns the distinct values in ascending order. First-seen order is
// not preserved; use Mode or GroupBy keys when appearance order matters.
func (s *Series[T]) Unique() *Series[T] {
	out := slices.Clone(s.values)
	slices.Sort(out)
	return New(s.name, slices.Compact(out))
}

// IsNA flags NaN elements. Only float series can hold NaN.
func (s *Series[T]) IsNA() []bool {
	out := make([]bool, len(s.values))
	if !s.dtype.IsFloat() {
		return out
	}
	for i, v := range s.values {
		out[i] = dtype.IsNaN(v)
	}
	return out
}

// StringAt returns the text form of the value at position i
func (s *Series[T]) StringAt(i int) string {
	return dtype.Format(s.values[i])
}

// Strings returns the text form of every value
func (s *Series[T]) Strings() []string {
	out := make([]string, len(s.values))
	for i, v := range s.values {
		out[i] = dtype.Format(v)
	}
	return out
}

// Equal reports whether other has the same name and values. NaN never equals NaN.
func (s *Series[T]) Equal(other *Series[T]) bool {
	if other == nil {
		return false
	}
	return s.name == other.name && slices.Equal(s.values, other.values)
}

// String returns a string representation of the series
func (s *Series[T]) String() string {
	const preview = 10

	var b strings.Builder
	fmt.Fprintf(&b, "Series[%s]: %s (len=%d) [", s.dtype, s.name, len(s.values))
	for i, v := range s.values {
		if i == preview {
			b.WriteString(", ...")
			break
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(dtype.Format(v))
	}
	b.WriteString("]")
	return b.String()
}
