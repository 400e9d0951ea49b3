package series

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/paveg/tabula/internal/dtype"
)

// ISeries provides a type-erased interface for Series of any element type.
// The set of implementations is closed: only *Series[T] for the five element
// types satisfies it.
type ISeries interface {
	Name() string
	SetName(name string)
	Len() int
	DType() dtype.DType
	String() string

	StringAt(i int) string
	Strings() []string
	DatumAt(i int) Datum
	IsNA() []bool

	// CloneSeries returns a deep copy
	CloneSeries() ISeries
	// TakeSeries gathers the values at positions into a new series
	TakeSeries(positions []int) (ISeries, error)
	ValidatePositions(positions []int) error
	DropPositions(positions []int) error

	Aggregate(agg Aggregation) (Datum, error)
	AggregateGroups(groups [][]int, agg Aggregation) (ISeries, error)
	RollingAggregate(window int, agg Aggregation) (*Series[float64], error)

	ToArrow(mem memory.Allocator) arrow.Array
	MarshalBinary() ([]byte, error)

	sealed()
}

func (s *Series[T]) sealed() {}

// CloneSeries returns a deep copy as an ISeries
func (s *Series[T]) CloneSeries() ISeries {
	return s.Clone()
}

// TakeSeries gathers the values at positions into a new series
func (s *Series[T]) TakeSeries(positions []int) (ISeries, error) {
	return erase(s.Take(positions))
}

// Empty returns a zero-length series of element type dt
func Empty(name string, dt dtype.DType) ISeries {
	switch dt {
	case dtype.Float64:
		return New[float64](name, nil)
	case dtype.Int64:
		return New[int64](name, nil)
	case dtype.Float32:
		return New[float32](name, nil)
	case dtype.Int32:
		return New[int32](name, nil)
	case dtype.Text:
		return New[string](name, nil)
	}
	return nil
}

// FromDatums builds a series of element type dt from datums of that type
func FromDatums(name string, dt dtype.DType, datums []Datum) ISeries {
	switch dt {
	case dtype.Float64:
		return collect(name, datums, func(d Datum) float64 { return d.F64 })
	case dtype.Int64:
		return collect(name, datums, func(d Datum) int64 { return d.I64 })
	case dtype.Float32:
		return collect(name, datums, func(d Datum) float32 { return d.F32 })
	case dtype.Int32:
		return collect(name, datums, func(d Datum) int32 { return d.I32 })
	case dtype.Text:
		return collect(name, datums, func(d Datum) string { return d.Text })
	}
	return nil
}

func collect[T dtype.Element](name string, datums []Datum, get func(Datum) T) *Series[T] {
	values := make([]T, len(datums))
	for i, d := range datums {
		values[i] = get(d)
	}
	return New(name, values)
}
