package dtype

import (
	"math"
	"strconv"
)

// Numeric is the set of element types that support arithmetic aggregations.
type Numeric interface {
	int32 | int64 | float32 | float64
}

// Element is the set of element types a Series may hold.
// Every member is totally ordered, comparable and copied by value.
type Element interface {
	Numeric | string
}

// Of returns the DType of the element type T.
func Of[T Element]() DType {
	var zero T
	switch any(zero).(type) {
	case float64:
		return Float64
	case int64:
		return Int64
	case float32:
		return Float32
	case int32:
		return Int32
	case string:
		return Text
	}
	return Invalid
}

// Format converts a value to its canonical text form.
// Floats use the shortest decimal representation without an exponent so that
// integral floats re-parse as integers ("3", not "3e+00").
func Format[T Element](v T) string {
	switch x := any(v).(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case string:
		return x
	}
	return ""
}

// Parse converts text into a value of type T.
func Parse[T Element](s string) (T, error) {
	var zero T
	var out any
	var err error

	switch any(zero).(type) {
	case float64:
		out, err = strconv.ParseFloat(s, 64)
	case float32:
		var f float64
		f, err = strconv.ParseFloat(s, 32)
		out = float32(f)
	case int64:
		out, err = strconv.ParseInt(s, 10, 64)
	case int32:
		var i int64
		i, err = strconv.ParseInt(s, 10, 32)
		out = int32(i)
	case string:
		out = s
	}

	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

// IsNaN reports whether v is a floating point NaN. Non-float values never are.
func IsNaN[T Element](v T) bool {
	switch x := any(v).(type) {
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

// ToFloat64s widens a numeric slice to float64.
func ToFloat64s[T Numeric](values []T) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
