package series

import (
	"github.com/paveg/tabula/internal/aggregate"
	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/dtype"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/parallel"
)

// Map returns a new series with fn applied to every element. Large series are
// split into chunks evaluated on the worker pool; fn must be safe for
// concurrent use.
func (s *Series[T]) Map(fn func(T) T) *Series[T] {
	out := make([]T, len(s.values))
	parallel.ForEachRange(config.GetGlobalConfig(), len(s.values), func(r parallel.Range) {
		for i := r.Start; i < r.End; i++ {
			out[i] = fn(s.values[i])
		}
	})
	return New(s.name, out)
}

// Add returns s + v element-wise
func Add[T dtype.Numeric](s *Series[T], v T) *Series[T] {
	return s.Map(func(x T) T { return x + v })
}

// Sub returns s - v element-wise
func Sub[T dtype.Numeric](s *Series[T], v T) *Series[T] {
	return s.Map(func(x T) T { return x - v })
}

// Mul returns s * v element-wise
func Mul[T dtype.Numeric](s *Series[T], v T) *Series[T] {
	return s.Map(func(x T) T { return x * v })
}

// Div returns s / v element-wise. Integer division by zero is a ValueError;
// float division follows IEEE 754.
func Div[T dtype.Numeric](s *Series[T], v T) (*Series[T], error) {
	if v == 0 && !s.dtype.IsFloat() {
		return nil, errors.NewValueError("Div", s.name, "integer division by zero")
	}
	return s.Map(func(x T) T { return x / v }), nil
}

// CumSum returns the running total of s, keeping its element type
func CumSum[T dtype.Numeric](s *Series[T]) *Series[T] {
	return New(s.name, aggregate.CumSum(s.values))
}
