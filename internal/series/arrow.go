package series

import (
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/paveg/tabula/internal/dtype"
)

// ArrowType returns the Arrow data type storing elements of dt
func ArrowType(dt dtype.DType) (arrow.DataType, error) {
	switch dt {
	case dtype.Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case dtype.Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case dtype.Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case dtype.Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case dtype.Text:
		return arrow.BinaryTypes.String, nil
	}
	return nil, fmt.Errorf("no arrow type for dtype %s", dt)
}

// ToArrow copies the series into a new Arrow array. The caller releases it.
func (s *Series[T]) ToArrow(mem memory.Allocator) arrow.Array {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	switch v := any(s.values).(type) {
	case []string:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		builder.AppendValues(v, nil)
		return builder.NewArray()
	case []int64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, nil)
		return builder.NewArray()
	case []int32:
		builder := array.NewInt32Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, nil)
		return builder.NewArray()
	case []float64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, nil)
		return builder.NewArray()
	case []float32:
		builder := array.NewFloat32Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, nil)
		return builder.NewArray()
	}
	panic(fmt.Sprintf("unsupported type: %T", s.values))
}

// FromArrow copies an Arrow array into a series. Null slots become NaN in
// float columns, zero in integer columns and "" in text columns.
func FromArrow(name string, arr arrow.Array) (ISeries, error) {
	switch a := arr.(type) {
	case *array.Float64:
		values := make([]float64, a.Len())
		for i := range values {
			if a.IsNull(i) {
				values[i] = math.NaN()
				continue
			}
			values[i] = a.Value(i)
		}
		return New(name, values), nil
	case *array.Float32:
		values := make([]float32, a.Len())
		for i := range values {
			if a.IsNull(i) {
				values[i] = float32(math.NaN())
				continue
			}
			values[i] = a.Value(i)
		}
		return New(name, values), nil
	case *array.Int64:
		values := make([]int64, a.Len())
		for i := range values {
			if a.IsValid(i) {
				values[i] = a.Value(i)
			}
		}
		return New(name, values), nil
	case *array.Int32:
		values := make([]int32, a.Len())
		for i := range values {
			if a.IsValid(i) {
				values[i] = a.Value(i)
			}
		}
		return New(name, values), nil
	case *array.String:
		values := make([]string, a.Len())
		for i := range values {
			if a.IsValid(i) {
				values[i] = a.Value(i)
			}
		}
		return New(name, values), nil
	case *array.LargeString:
		values := make([]string, a.Len())
		for i := range values {
			if a.IsValid(i) {
				values[i] = a.Value(i)
			}
		}
		return New(name, values), nil
	}
	return nil, fmt.Errorf("unsupported Arrow type: %s", arr.DataType())
}

// FromChunked concatenates the chunks of an Arrow column into one series
func FromChunked(name string, dt arrow.DataType, chunked *arrow.Chunked, mem memory.Allocator) (ISeries, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	chunks := chunked.Chunks()
	switch len(chunks) {
	case 0:
		empty := array.MakeArrayOfNull(mem, dt, 0)
		defer empty.Release()
		return FromArrow(name, empty)
	case 1:
		return FromArrow(name, chunks[0])
	}

	merged, err := array.Concatenate(chunks, mem)
	if err != nil {
		return nil, fmt.Errorf("concatenating chunks of %s: %w", name, err)
	}
	defer merged.Release()
	return FromArrow(name, merged)
}
