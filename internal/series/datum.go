package series

import (
	"github.com/paveg/tabula/internal/dtype"
)

// Datum is a single value of any element type. Exactly the field selected by
// DType is meaningful.
type Datum struct {
	DType dtype.DType
	F64   float64
	I64   int64
	F32   float32
	I32   int32
	Text  string
}

// DatumOf wraps v in a Datum
func DatumOf[T dtype.Element](v T) Datum {
	switch x := any(v).(type) {
	case float64:
		return Datum{DType: dtype.Float64, F64: x}
	case int64:
		return Datum{DType: dtype.Int64, I64: x}
	case float32:
		return Datum{DType: dtype.Float32, F32: x}
	case int32:
		return Datum{DType: dtype.Int32, I32: x}
	case string:
		return Datum{DType: dtype.Text, Text: x}
	}
	return Datum{}
}

// String returns the text form of the held value
func (d Datum) String() string {
	switch d.DType {
	case dtype.Float64:
		return dtype.Format(d.F64)
	case dtype.Int64:
		return dtype.Format(d.I64)
	case dtype.Float32:
		return dtype.Format(d.F32)
	case dtype.Int32:
		return dtype.Format(d.I32)
	case dtype.Text:
		return d.Text
	}
	return ""
}

// Float64 widens a numeric datum. ok is false for Text.
func (d Datum) Float64() (v float64, ok bool) {
	switch d.DType {
	case dtype.Float64:
		return d.F64, true
	case dtype.Int64:
		return float64(d.I64), true
	case dtype.Float32:
		return float64(d.F32), true
	case dtype.Int32:
		return float64(d.I32), true
	}
	return 0, false
}

// Value returns the held value as an interface
func (d Datum) Value() any {
	switch d.DType {
	case dtype.Float64:
		return d.F64
	case dtype.Int64:
		return d.I64
	case dtype.Float32:
		return d.F32
	case dtype.Int32:
		return d.I32
	case dtype.Text:
		return d.Text
	}
	return nil
}

// DatumAt returns the value at position i as a Datum
func (s *Series[T]) DatumAt(i int) Datum {
	return DatumOf(s.values[i])
}
