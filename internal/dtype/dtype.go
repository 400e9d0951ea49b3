// Package dtype defines the closed set of column element types and the
// capability contract every element type satisfies.
//
// The contract is implemented once per primitive: Of reports the DType of a
// type parameter, Format converts a value to text and Parse converts text
// back. Series, CSV inference and the aggregation engine all go through these
// functions instead of carrying their own per-type conversions.
package dtype

import (
	"fmt"
	"strings"
)

// DType identifies the concrete element type of a column at runtime.
type DType uint8

const (
	// Invalid is the zero value; it never describes a live column.
	Invalid DType = iota
	Float64
	Int64
	Float32
	Int32
	Text
)

// All lists every valid DType in tag order.
var All = []DType{Float64, Int64, Float32, Int32, Text}

// String returns the string representation of the DType
func (d DType) String() string {
	switch d {
	case Float64:
		return "float64"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	case Text:
		return "text"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(d))
	}
}

// Valid reports whether d is one of the five element types.
func (d DType) Valid() bool {
	return d >= Float64 && d <= Text
}

// IsNumeric returns true if the dtype supports arithmetic aggregations
func (d DType) IsNumeric() bool {
	switch d {
	case Float64, Int64, Float32, Int32:
		return true
	default:
		return false
	}
}

// IsFloat returns true if the dtype is a floating point type
func (d DType) IsFloat() bool {
	return d == Float64 || d == Float32
}

// ParseDType maps a name produced by String (case-insensitive) back to a DType.
// "string" and "utf8" are accepted as aliases of Text.
func ParseDType(name string) (DType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "float64", "f64":
		return Float64, nil
	case "int64", "i64":
		return Int64, nil
	case "float32", "f32":
		return Float32, nil
	case "int32", "i32":
		return Int32, nil
	case "text", "string", "utf8":
		return Text, nil
	default:
		return Invalid, fmt.Errorf("unknown dtype %q", name)
	}
}
