package series

import (
	"bytes"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/linkedin/goavro/v2"

	"github.com/paveg/tabula/internal/dtype"
	"github.com/paveg/tabula/internal/errors"
)

// columnSchema is the Avro envelope of one encoded column. The payload is an
// Arrow IPC stream carrying a single record batch with a single column.
const columnSchema = `{
	"type": "record",
	"name": "ColumnSnapshot",
	"namespace": "tabula",
	"fields": [
		{"name": "name", "type": "string"},
		{"name": "length", "type": "long"},
		{"name": "dtype", "type": "int"},
		{"name": "payload", "type": "bytes"}
	]
}`

var columnCodec = mustCodec(columnSchema)

func mustCodec(schema string) *goavro.Codec {
	codec, err := goavro.NewCodec(schema)
	if err != nil {
		panic(fmt.Sprintf("invalid avro schema: %v", err))
	}
	return codec
}

// MarshalBinary encodes the series as a self-describing column snapshot
func (s *Series[T]) MarshalBinary() ([]byte, error) {
	payload, err := s.arrowPayload()
	if err != nil {
		return nil, errors.NewIOError("MarshalBinary", s.name, err)
	}

	buf, err := columnCodec.BinaryFromNative(nil, map[string]any{
		"name":    s.name,
		"length":  int64(len(s.values)),
		"dtype":   int32(s.dtype),
		"payload": payload,
	})
	if err != nil {
		return nil, errors.NewIOError("MarshalBinary", s.name, err)
	}
	return buf, nil
}

// UnmarshalBinary replaces the contents of s with a decoded snapshot. The
// snapshot must hold elements of type T.
func (s *Series[T]) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	typed, ok := decoded.(*Series[T])
	if !ok {
		return errors.NewTypeMismatchError("UnmarshalBinary", decoded.Name(), decoded.DType().String(), dtype.Of[T]().String())
	}
	*s = *typed
	return nil
}

// Decode restores a series of whichever element type the snapshot records.
func Decode(data []byte) (ISeries, error) {
	native, _, err := columnCodec.NativeFromBinary(data)
	if err != nil {
		return nil, errors.NewIOError("Decode", "column snapshot", err)
	}

	record, ok := native.(map[string]any)
	if !ok {
		return nil, errors.NewValueError("Decode", "", "column snapshot is not a record")
	}
	name, _ := record["name"].(string)
	length, _ := record["length"].(int64)
	tag, _ := record["dtype"].(int32)
	payload, _ := record["payload"].([]byte)

	dt := dtype.DType(tag)
	if !dt.Valid() {
		return nil, errors.NewValueError("Decode", name, fmt.Sprintf("unknown dtype tag %d", tag))
	}

	s, err := decodePayload(name, dt, payload)
	if err != nil {
		return nil, err
	}
	if int64(s.Len()) != length {
		return nil, errors.NewLengthMismatchError("Decode", name, int(length), s.Len())
	}
	return s, nil
}

func (s *Series[T]) arrowPayload() ([]byte, error) {
	mem := memory.NewGoAllocator()

	arr := s.ToArrow(mem)
	defer arr.Release()

	schema := arrow.NewSchema([]arrow.Field{{Name: "values", Type: arr.DataType()}}, nil)
	record := array.NewRecord(schema, []arrow.Array{arr}, int64(arr.Len()))
	defer record.Release()

	var buf bytes.Buffer
	writer := ipc.NewWriter(&buf, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err := writer.Write(record); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("writing arrow record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing arrow stream: %w", err)
	}
	return buf.Bytes(), nil
}

func decodePayload(name string, dt dtype.DType, payload []byte) (ISeries, error) {
	mem := memory.NewGoAllocator()

	reader, err := ipc.NewReader(bytes.NewReader(payload), ipc.WithAllocator(mem))
	if err != nil {
		return nil, errors.NewIOError("Decode", name, err)
	}
	defer reader.Release()

	want, err := ArrowType(dt)
	if err != nil {
		return nil, errors.NewValueError("Decode", name, err.Error())
	}
	if fields := reader.Schema().Fields(); len(fields) != 1 || !arrow.TypeEqual(fields[0].Type, want) {
		return nil, errors.NewTypeMismatchError("Decode", name, reader.Schema().String(), dt.String())
	}

	chunks := make([]arrow.Array, 0, 1)
	for reader.Next() {
		col := reader.Record().Column(0)
		col.Retain()
		chunks = append(chunks, col)
	}
	if err := reader.Err(); err != nil {
		return nil, errors.NewIOError("Decode", name, err)
	}
	defer func() {
		for _, c := range chunks {
			c.Release()
		}
	}()

	chunked := arrow.NewChunked(want, chunks)
	defer chunked.Release()
	return FromChunked(name, want, chunked, mem)
}
