// Package aggregate implements the numeric reductions shared by series,
// group-by and rolling window evaluation.
//
// Every function is pure: it reads the input slice and never retains or
// mutates it. Zero-length input fails with an EmptyInput error rather than
// returning a zero value.
package aggregate

import (
	"math"
	"slices"

	"github.com/DataDog/sketches-go/ddsketch"
	"golang.org/x/exp/constraints"

	"github.com/paveg/tabula/internal/dtype"
	"github.com/paveg/tabula/internal/errors"
)

// DefaultSketchAccuracy is the relative accuracy used by ApproxQuantile when
// the caller passes a non-positive accuracy.
const DefaultSketchAccuracy = 0.01

// Sum adds every element. Integer sums wrap on overflow like the element type does.
func Sum[T dtype.Numeric](values []T) (T, error) {
	var total T
	if len(values) == 0 {
		return total, errors.NewEmptyInputError("Sum")
	}
	for _, v := range values {
		total += v
	}
	return total, nil
}

// CumSum returns the running totals of values. It is defined for any length;
// a NaN poisons every later float total.
func CumSum[T dtype.Numeric](values []T) []T {
	out := make([]T, len(values))
	var total T
	for i, v := range values {
		total += v
		out[i] = total
	}
	return out
}

// Mean returns the arithmetic mean, accumulated in float64.
func Mean[T dtype.Numeric](values []T) (float64, error) {
	if len(values) == 0 {
		return 0, errors.NewEmptyInputError("Mean")
	}
	return mean(values), nil
}

func mean[T dtype.Numeric](values []T) float64 {
	var total float64
	for _, v := range values {
		total += float64(v)
	}
	return total / float64(len(values))
}

// Variance returns sum((x-mean)^2) / (n-ddof).
// ddof 0 is the population variance, ddof 1 the sample variance.
func Variance[T dtype.Numeric](values []T, ddof int) (float64, error) {
	if len(values) == 0 {
		return 0, errors.NewEmptyInputError("Variance")
	}
	if ddof < 0 {
		return 0, errors.NewValueError("Variance", "", "ddof must not be negative")
	}
	denom := len(values) - ddof
	if denom <= 0 {
		return 0, errors.NewValueError("Variance", "", "zero denominator: ddof must be less than the number of values")
	}

	m := mean(values)
	var sq float64
	for _, v := range values {
		d := float64(v) - m
		sq += d * d
	}
	return sq / float64(denom), nil
}

// Std is the square root of Variance.
func Std[T dtype.Numeric](values []T, ddof int) (float64, error) {
	v, err := Variance(values, ddof)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

// Median is Quantile(values, 0.5).
func Median[T dtype.Numeric](values []T) (float64, error) {
	if len(values) == 0 {
		return 0, errors.NewEmptyInputError("Median")
	}
	return quantileSorted(sortedFloats(values), 0.5), nil
}

// Quantile returns the q-th quantile using linear interpolation between the
// two closest ranks of the sorted data (rank = q*(n-1)).
func Quantile[T dtype.Numeric](values []T, q float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.NewEmptyInputError("Quantile")
	}
	if math.IsNaN(q) || q < 0 || q > 1 {
		return 0, errors.NewValueError("Quantile", "", "quantile must be within [0, 1]")
	}
	return quantileSorted(sortedFloats(values), q), nil
}

func sortedFloats[T dtype.Numeric](values []T) []float64 {
	sorted := dtype.ToFloat64s(values)
	slices.Sort(sorted)
	return sorted
}

func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := q * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Min returns the smallest element.
func Min[T constraints.Ordered](values []T) (T, error) {
	i, err := ArgMin(values)
	if err != nil {
		var zero T
		return zero, err
	}
	return values[i], nil
}

// Max returns the largest element.
func Max[T constraints.Ordered](values []T) (T, error) {
	i, err := ArgMax(values)
	if err != nil {
		var zero T
		return zero, err
	}
	return values[i], nil
}

// ArgMin returns the position of the smallest element. Ties resolve to the
// first occurrence.
func ArgMin[T constraints.Ordered](values []T) (int, error) {
	if len(values) == 0 {
		return 0, errors.NewEmptyInputError("ArgMin")
	}
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] < values[best] {
			best = i
		}
	}
	return best, nil
}

// ArgMax returns the position of the largest element. Ties resolve to the
// first occurrence.
func ArgMax[T constraints.Ordered](values []T) (int, error) {
	if len(values) == 0 {
		return 0, errors.NewEmptyInputError("ArgMax")
	}
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best, nil
}

// Mode returns every value sharing the maximal frequency, in order of first
// appearance.
func Mode[T comparable](values []T) ([]T, error) {
	if len(values) == 0 {
		return nil, errors.NewEmptyInputError("Mode")
	}

	counts := make(map[T]int, len(values))
	order := make([]T, 0)
	best := 0
	for _, v := range values {
		c, seen := counts[v]
		if !seen {
			order = append(order, v)
		}
		c++
		counts[v] = c
		if c > best {
			best = c
		}
	}

	modes := make([]T, 0, 1)
	for _, v := range order {
		if counts[v] == best {
			modes = append(modes, v)
		}
	}
	return modes, nil
}

// ApproxQuantile estimates the q-th quantile with a DDSketch of the given
// relative accuracy. Values that are NaN or infinite are skipped.
func ApproxQuantile[T dtype.Numeric](values []T, q, accuracy float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.NewEmptyInputError("ApproxQuantile")
	}
	if math.IsNaN(q) || q < 0 || q > 1 {
		return 0, errors.NewValueError("ApproxQuantile", "", "quantile must be within [0, 1]")
	}
	if accuracy <= 0 || accuracy >= 1 {
		accuracy = DefaultSketchAccuracy
	}

	sketch, err := ddsketch.NewDefaultDDSketch(accuracy)
	if err != nil {
		return 0, errors.NewValueError("ApproxQuantile", "", err.Error())
	}
	for _, v := range values {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		if err := sketch.Add(f); err != nil {
			return 0, errors.NewValueError("ApproxQuantile", "", err.Error())
		}
	}
	if sketch.IsEmpty() {
		return 0, errors.NewEmptyInputError("ApproxQuantile")
	}
	return sketch.GetValueAtQuantile(q)
}

// IsNaN reports per element whether the value is a floating point NaN.
func IsNaN[T dtype.Element](values []T) []bool {
	out := make([]bool, len(values))
	for i, v := range values {
		out[i] = dtype.IsNaN(v)
	}
	return out
}

// AnyNaN reports whether at least one element is NaN.
func AnyNaN[T dtype.Element](values []T) bool {
	return slices.ContainsFunc(values, dtype.IsNaN[T])
}
