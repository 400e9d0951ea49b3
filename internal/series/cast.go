package series

import (
	"github.com/paveg/tabula/internal/dtype"
	"github.com/paveg/tabula/internal/errors"
)

// Cast converts every element of s to U through its text form. The first
// element that does not parse as U fails the whole conversion.
func Cast[U, T dtype.Element](s *Series[T]) (*Series[U], error) {
	out := make([]U, len(s.values))
	for i, v := range s.values {
		text := dtype.Format(v)
		parsed, err := dtype.Parse[U](text)
		if err != nil {
			return nil, errors.NewCastError("Cast", s.name, i, text, err)
		}
		out[i] = parsed
	}
	return New(s.name, out), nil
}

// CastTo converts s to the element type dt and returns it type-erased.
func CastTo[T dtype.Element](s *Series[T], dt dtype.DType) (ISeries, error) {
	switch dt {
	case dtype.Float64:
		return erase(Cast[float64](s))
	case dtype.Int64:
		return erase(Cast[int64](s))
	case dtype.Float32:
		return erase(Cast[float32](s))
	case dtype.Int32:
		return erase(Cast[int32](s))
	case dtype.Text:
		return erase(Cast[string](s))
	}
	return nil, errors.NewValueError("Cast", s.name, "unknown target dtype "+dt.String())
}

// ParseStrings builds a series of type dt from raw text values.
func ParseStrings(name string, dt dtype.DType, raw []string) (ISeries, error) {
	return CastTo(New(name, raw), dt)
}

func erase[U dtype.Element](s *Series[U], err error) (ISeries, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
