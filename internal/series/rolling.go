package series

import (
	"math"

	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/dtype"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/parallel"
)

// Rolling evaluates aggregations over a fixed-size trailing window.
// Output position i covers input positions i-window+1 through i; the first
// window-1 positions have no full window and hold NaN.
type Rolling[T dtype.Element] struct {
	values *Series[T]
	window int
}

// Rolling prepares a trailing window of the given size over s
func (s *Series[T]) Rolling(window int) (*Rolling[T], error) {
	if window <= 0 {
		return nil, errors.NewValueError("Rolling", s.name, "window size must be positive")
	}
	return &Rolling[T]{values: s, window: window}, nil
}

// Window returns the window size
func (r *Rolling[T]) Window() int {
	return r.window
}

// Mean is the rolling arithmetic mean
func (r *Rolling[T]) Mean() (*Series[float64], error) {
	return r.Aggregate(Aggregation{Op: OpMean})
}

// Sum is the rolling sum
func (r *Rolling[T]) Sum() (*Series[float64], error) {
	return r.Aggregate(Aggregation{Op: OpSum})
}

// Var is the rolling variance
func (r *Rolling[T]) Var(ddof int) (*Series[float64], error) {
	return r.Aggregate(Aggregation{Op: OpVar, DDoF: ddof})
}

// Std is the rolling standard deviation
func (r *Rolling[T]) Std(ddof int) (*Series[float64], error) {
	return r.Aggregate(Aggregation{Op: OpStd, DDoF: ddof})
}

// Median is the rolling median
func (r *Rolling[T]) Median() (*Series[float64], error) {
	return r.Aggregate(Aggregation{Op: OpMedian})
}

// Min is the rolling minimum
func (r *Rolling[T]) Min() (*Series[float64], error) {
	return r.Aggregate(Aggregation{Op: OpMin})
}

// Max is the rolling maximum
func (r *Rolling[T]) Max() (*Series[float64], error) {
	return r.Aggregate(Aggregation{Op: OpMax})
}

// Quantile is the rolling q-th quantile
func (r *Rolling[T]) Quantile(q float64) (*Series[float64], error) {
	if math.IsNaN(q) || q < 0 || q > 1 {
		return nil, errors.NewValueError("Quantile", r.values.name, "quantile must be within [0, 1]")
	}
	return r.Aggregate(Aggregation{Op: OpQuantile, Q: q})
}

// Aggregate evaluates agg over every full window
func (r *Rolling[T]) Aggregate(agg Aggregation) (*Series[float64], error) {
	if _, ok := numericFloats(r.values.values[:0]); !ok {
		return nil, errors.NewValueError("Rolling", r.values.name, "rolling windows require a numeric series, got text")
	}
	if agg.Op == OpVar || agg.Op == OpStd {
		if agg.DDoF < 0 || r.window-agg.DDoF <= 0 {
			return nil, errors.NewValueError("Rolling", r.values.name, "zero denominator: ddof must be less than the window size")
		}
	}

	return r.Apply(func(window []float64) (float64, error) {
		d, err := reduceValues(window, agg)
		if err != nil {
			return 0, err
		}
		v, _ := d.Float64()
		return v, nil
	})
}

// Apply evaluates fn over every full window. fn receives the window widened
// to float64 and must neither retain nor modify it. Large inputs run on the worker
// pool, so fn must be safe for concurrent use.
func (r *Rolling[T]) Apply(fn func(window []float64) (float64, error)) (*Series[float64], error) {
	values, ok := numericFloats(r.values.values)
	if !ok {
		return nil, errors.NewValueError("Rolling", r.values.name, "rolling windows require a numeric series, got text")
	}

	n := len(values)
	out := make([]float64, n)
	for i := 0; i < n && i < r.window-1; i++ {
		out[i] = math.NaN()
	}
	if r.window > n {
		return New(r.values.name, out), nil
	}

	full := n - r.window + 1
	errs := make([]error, full)
	parallel.ForEachRange(config.GetGlobalConfig(), full, func(rg parallel.Range) {
		for k := rg.Start; k < rg.End; k++ {
			end := k + r.window
			v, err := fn(values[k:end])
			if err != nil {
				errs[k] = err
				return
			}
			out[end-1] = v
		}
	})
	for _, err := range errs {
		if err != nil {
			return nil, withColumn(err, r.values.name)
		}
	}

	return New(r.values.name, out), nil
}

// RollingAggregate evaluates agg over trailing windows of the given size
func (s *Series[T]) RollingAggregate(window int, agg Aggregation) (*Series[float64], error) {
	r, err := s.Rolling(window)
	if err != nil {
		return nil, err
	}
	return r.Aggregate(agg)
}
