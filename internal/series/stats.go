package series

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/paveg/tabula/internal/aggregate"
	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/dtype"
	"github.com/paveg/tabula/internal/errors"
)

// AggOp names a reduction supported by whole-series, grouped and rolling evaluation.
type AggOp uint8

const (
	OpSum AggOp = iota + 1
	OpMean
	OpMin
	OpMax
	OpVar
	OpStd
	OpMedian
	OpQuantile
	OpCount
)

var aggOpNames = map[AggOp]string{
	OpSum:      "sum",
	OpMean:     "mean",
	OpMin:      "min",
	OpMax:      "max",
	OpVar:      "var",
	OpStd:      "std",
	OpMedian:   "median",
	OpQuantile: "quantile",
	OpCount:    "count",
}

// String returns the lowercase name of the operation
func (op AggOp) String() string {
	if name, ok := aggOpNames[op]; ok {
		return name
	}
	return fmt.Sprintf("AggOp(%d)", uint8(op))
}

// ParseAggOp maps a name produced by String back to an AggOp
func ParseAggOp(name string) (AggOp, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for op, n := range aggOpNames {
		if n == name {
			return op, nil
		}
	}
	return 0, errors.NewValueError("ParseAggOp", "", fmt.Sprintf("unknown aggregation %q", name))
}

// Aggregation selects a reduction and its parameters.
// DDoF applies to OpVar and OpStd, Q to OpQuantile.
type Aggregation struct {
	Op   AggOp
	DDoF int
	Q    float64
}

// ResultDType returns the element type an aggregation of an input column of
// type in produces.
func (a Aggregation) ResultDType(in dtype.DType) dtype.DType {
	switch a.Op {
	case OpSum, OpMin, OpMax:
		return in
	case OpCount:
		return dtype.Int64
	default:
		return dtype.Float64
	}
}

// Sum adds every element. Text series fail with a ValueError.
func (s *Series[T]) Sum() (T, error) {
	v, err := sumOf(s.values)
	return v, withColumn(err, s.name)
}

// Mean returns the arithmetic mean
func (s *Series[T]) Mean() (float64, error) {
	f, err := s.floats("Mean")
	if err != nil {
		return 0, err
	}
	v, err := aggregate.Mean(f)
	return v, withColumn(err, s.name)
}

// Var returns the variance with ddof delta degrees of freedom
func (s *Series[T]) Var(ddof int) (float64, error) {
	f, err := s.floats("Var")
	if err != nil {
		return 0, err
	}
	v, err := aggregate.Variance(f, ddof)
	return v, withColumn(err, s.name)
}

// Std returns the standard deviation with ddof delta degrees of freedom
func (s *Series[T]) Std(ddof int) (float64, error) {
	f, err := s.floats("Std")
	if err != nil {
		return 0, err
	}
	v, err := aggregate.Std(f, ddof)
	return v, withColumn(err, s.name)
}

// Median returns the 0.5 quantile
func (s *Series[T]) Median() (float64, error) {
	f, err := s.floats("Median")
	if err != nil {
		return 0, err
	}
	v, err := aggregate.Median(f)
	return v, withColumn(err, s.name)
}

// Quantile returns the q-th quantile with linear interpolation
func (s *Series[T]) Quantile(q float64) (float64, error) {
	f, err := s.floats("Quantile")
	if err != nil {
		return 0, err
	}
	v, err := aggregate.Quantile(f, q)
	return v, withColumn(err, s.name)
}

// ApproxQuantile estimates the q-th quantile with a DDSketch of the given
// relative accuracy. A non-positive accuracy uses the configured
// SketchAccuracy.
func (s *Series[T]) ApproxQuantile(q, accuracy float64) (float64, error) {
	f, err := s.floats("ApproxQuantile")
	if err != nil {
		return 0, err
	}
	if accuracy <= 0 {
		accuracy = config.GetGlobalConfig().SketchAccuracy
	}
	v, err := aggregate.ApproxQuantile(f, q, accuracy)
	return v, withColumn(err, s.name)
}

// Min returns the smallest element. Text compares lexically.
func (s *Series[T]) Min() (T, error) {
	v, err := aggregate.Min(s.values)
	return v, withColumn(err, s.name)
}

// Max returns the largest element. Text compares lexically.
func (s *Series[T]) Max() (T, error) {
	v, err := aggregate.Max(s.values)
	return v, withColumn(err, s.name)
}

// ArgMin returns the first position holding the smallest element
func (s *Series[T]) ArgMin() (int, error) {
	i, err := aggregate.ArgMin(s.values)
	return i, withColumn(err, s.name)
}

// ArgMax returns the first position holding the largest element
func (s *Series[T]) ArgMax() (int, error) {
	i, err := aggregate.ArgMax(s.values)
	return i, withColumn(err, s.name)
}

// Mode returns every most frequent value in order of first appearance
func (s *Series[T]) Mode() (*Series[T], error) {
	modes, err := aggregate.Mode(s.values)
	if err != nil {
		return nil, withColumn(err, s.name)
	}
	return New(s.name, modes), nil
}

// Aggregate reduces the whole series to a single value
func (s *Series[T]) Aggregate(agg Aggregation) (Datum, error) {
	d, err := reduceValues(s.values, agg)
	return d, withColumn(err, s.name)
}

func (s *Series[T]) floats(op string) ([]float64, error) {
	f, ok := numericFloats(s.values)
	if !ok {
		return nil, errors.NewValueError(op, s.name, "operation requires a numeric series, got text")
	}
	return f, nil
}

// numericFloats widens a numeric slice to float64; float64 input is returned
// as is. ok is false for text.
func numericFloats[T dtype.Element](values []T) (out []float64, ok bool) {
	switch v := any(values).(type) {
	case []float64:
		return v, true
	case []int64:
		return dtype.ToFloat64s(v), true
	case []float32:
		return dtype.ToFloat64s(v), true
	case []int32:
		return dtype.ToFloat64s(v), true
	}
	return nil, false
}

func sumOf[T dtype.Element](values []T) (T, error) {
	var zero T
	var out any
	var err error

	switch v := any(values).(type) {
	case []float64:
		out, err = aggregate.Sum(v)
	case []int64:
		out, err = aggregate.Sum(v)
	case []float32:
		out, err = aggregate.Sum(v)
	case []int32:
		out, err = aggregate.Sum(v)
	default:
		return zero, errors.NewValueError("Sum", "", "operation requires a numeric series, got text")
	}
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

// reduceValues applies agg to values and wraps the result in a Datum whose
// type follows Aggregation.ResultDType.
func reduceValues[T dtype.Element](values []T, agg Aggregation) (Datum, error) {
	switch agg.Op {
	case OpCount:
		return DatumOf(int64(len(values))), nil
	case OpSum:
		v, err := sumOf(values)
		if err != nil {
			return Datum{}, err
		}
		return DatumOf(v), nil
	case OpMin:
		v, err := aggregate.Min(values)
		if err != nil {
			return Datum{}, err
		}
		return DatumOf(v), nil
	case OpMax:
		v, err := aggregate.Max(values)
		if err != nil {
			return Datum{}, err
		}
		return DatumOf(v), nil
	}

	f, ok := numericFloats(values)
	if !ok {
		return Datum{}, errors.NewValueError(opName(agg.Op), "", "operation requires a numeric series, got text")
	}

	var v float64
	var err error
	switch agg.Op {
	case OpMean:
		v, err = aggregate.Mean(f)
	case OpVar:
		v, err = aggregate.Variance(f, agg.DDoF)
	case OpStd:
		v, err = aggregate.Std(f, agg.DDoF)
	case OpMedian:
		v, err = aggregate.Median(f)
	case OpQuantile:
		v, err = aggregate.Quantile(f, agg.Q)
	default:
		return Datum{}, errors.NewValueError("Aggregate", "", fmt.Sprintf("unsupported aggregation %s", agg.Op))
	}
	if err != nil {
		return Datum{}, err
	}
	return DatumOf(v), nil
}

func opName(op AggOp) string {
	name := op.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// withColumn fills in the column of a DataFrameError raised without one.
func withColumn(err error, column string) error {
	if err == nil {
		return nil
	}
	var dfErr *errors.DataFrameError
	if stderrors.As(err, &dfErr) && dfErr.Column == "" && column != "" {
		annotated := *dfErr
		annotated.Column = column
		return &annotated
	}
	return err
}
