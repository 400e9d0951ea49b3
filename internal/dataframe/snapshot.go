package dataframe

import (
	"fmt"

	"github.com/linkedin/goavro/v2"

	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
)

// frameSchema wraps the row index and one encoded column snapshot per column
const frameSchema = `{
	"type": "record",
	"name": "FrameSnapshot",
	"namespace": "tabula",
	"fields": [
		{"name": "index", "type": {"type": "array", "items": "long"}},
		{"name": "columns", "type": {"type": "array", "items": "bytes"}}
	]
}`

var frameCodec *goavro.Codec

func init() {
	codec, err := goavro.NewCodec(frameSchema)
	if err != nil {
		panic(fmt.Sprintf("invalid avro schema: %v", err))
	}
	frameCodec = codec
}

// EncodeSnapshot serializes the frame. Each column is encoded independently.
func (df *DataFrame) EncodeSnapshot() ([]byte, error) {
	if err := df.checkLengths("EncodeSnapshot"); err != nil {
		return nil, err
	}

	index := make([]any, len(df.index))
	for i, v := range df.index {
		index[i] = v
	}

	columns := make([]any, 0, len(df.meta))
	for _, m := range df.meta {
		data, err := df.columns[m.Name].MarshalBinary()
		if err != nil {
			return nil, err
		}
		columns = append(columns, data)
	}

	buf, err := frameCodec.BinaryFromNative(nil, map[string]any{
		"index":   index,
		"columns": columns,
	})
	if err != nil {
		return nil, errors.NewIOError("EncodeSnapshot", "frame snapshot", err)
	}
	return buf, nil
}

// DecodeSnapshot restores a frame written by EncodeSnapshot
func DecodeSnapshot(data []byte) (*DataFrame, error) {
	native, _, err := frameCodec.NativeFromBinary(data)
	if err != nil {
		return nil, errors.NewIOError("DecodeSnapshot", "frame snapshot", err)
	}
	record, ok := native.(map[string]any)
	if !ok {
		return nil, errors.NewValueError("DecodeSnapshot", "", "frame snapshot is not a record")
	}

	rawIndex, _ := record["index"].([]any)
	rawColumns, _ := record["columns"].([]any)

	df := New()
	for _, raw := range rawColumns {
		payload, ok := raw.([]byte)
		if !ok {
			return nil, errors.NewValueError("DecodeSnapshot", "", "column entry is not bytes")
		}
		s, err := series.Decode(payload)
		if err != nil {
			return nil, err
		}
		if err := df.AddColumn(s); err != nil {
			return nil, err
		}
	}

	if len(rawColumns) > 0 && len(rawIndex) != df.Len() {
		return nil, errors.NewLengthMismatchError("DecodeSnapshot", "index", df.Len(), len(rawIndex))
	}
	if len(rawColumns) > 0 {
		for i, v := range rawIndex {
			label, ok := v.(int64)
			if !ok {
				return nil, errors.NewValueError("DecodeSnapshot", "index", "index entry is not a long")
			}
			df.index[i] = label
		}
	}
	return df, nil
}
