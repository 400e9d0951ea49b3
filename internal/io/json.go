package io

import (
	"bufio"
	"bytes"
	"fmt"
	stdio "io"
	"math"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/dtype"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/logging"
	"github.com/paveg/tabula/internal/monitoring"
)

const maxJSONLine = 16 * 1024 * 1024

// jsonColumns collects row objects column-major. Columns are ordered by first
// appearance; a key missing from a row reads as an empty value.
type jsonColumns struct {
	names []string
	index map[string]int
	raw   [][]string
	rows  int
}

func newJSONColumns() *jsonColumns {
	return &jsonColumns{index: make(map[string]int)}
}

func (c *jsonColumns) add(keys []string, values []string) {
	for i, key := range keys {
		col, ok := c.index[key]
		if !ok {
			col = len(c.names)
			c.index[key] = col
			c.names = append(c.names, key)
			c.raw = append(c.raw, make([]string, c.rows))
		}
		// a repeated key keeps its last value
		if len(c.raw[col]) > c.rows {
			c.raw[col][c.rows] = values[i]
			continue
		}
		c.raw[col] = append(c.raw[col], values[i])
	}
	c.rows++
	for col := range c.raw {
		if len(c.raw[col]) < c.rows {
			c.raw[col] = append(c.raw[col], "")
		}
	}
}

// Read decodes row objects and infers column types as the CSV reader does.
func (r *JSONReader) Read() (*dataframe.DataFrame, error) {
	var df *dataframe.DataFrame
	err := monitoring.RecordGlobalRows("read_json", func() (int, error) {
		var err error
		df, err = r.read()
		if err != nil {
			return 0, err
		}
		return df.Len(), nil
	})
	return df, err
}

func (r *JSONReader) read() (*dataframe.DataFrame, error) {
	cols := newJSONColumns()

	var err error
	switch r.options.Format {
	case JSONArray:
		err = r.readArray(cols)
	case JSONLines:
		err = r.readLines(cols)
	default:
		return nil, errors.NewValueError("ReadJSON", "", "unsupported JSON format")
	}
	if err != nil {
		return nil, err
	}

	logging.Component("json").Debug("JSON read",
		zap.Int("rows", cols.rows),
		zap.Int("columns", len(cols.names)))
	return dataframe.FromColumns(inferColumns(cols.names, cols.raw)...)
}

func (r *JSONReader) limitReached(cols *jsonColumns) bool {
	return r.options.MaxRecords > 0 && cols.rows >= r.options.MaxRecords
}

func (r *JSONReader) readArray(cols *jsonColumns) error {
	dec := json.NewDecoder(r.reader)
	dec.UseNumber()

	tok, err := dec.Token()
	if err == stdio.EOF {
		return nil
	}
	if err != nil {
		return errors.NewIOError("ReadJSON", "json", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return errors.NewValueError("ReadJSON", "", "expected a JSON array of objects")
	}

	for dec.More() && !r.limitReached(cols) {
		keys, values, err := decodeObject(dec)
		if err != nil {
			return errors.NewIOError("ReadJSON", "json", err)
		}
		cols.add(keys, values)
	}
	return nil
}

func (r *JSONReader) readLines(cols *jsonColumns) error {
	scanner := bufio.NewScanner(r.reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLine)

	line := 0
	for scanner.Scan() && !r.limitReached(cols) {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}

		dec := json.NewDecoder(bytes.NewReader(text))
		dec.UseNumber()
		keys, values, err := decodeObject(dec)
		if err != nil {
			return errors.NewIOError("ReadJSON", fmt.Sprintf("json line %d", line), err)
		}
		cols.add(keys, values)
	}
	if err := scanner.Err(); err != nil {
		return errors.NewIOError("ReadJSON", "json", err)
	}
	return nil
}

// decodeObject reads one object, keeping key order, and renders every value
// as text. Nested values are kept as their JSON encoding.
func decodeObject(dec *json.Decoder) ([]string, []string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, errors.NewValueError("ReadJSON", "", "expected a JSON object")
	}

	var keys, values []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, errors.NewValueError("ReadJSON", "", "expected an object key")
		}

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		text, err := jsonText(v)
		if err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		values = append(values, text)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}

func jsonText(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		if x {
			return "true", nil
		}
		return "false", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write encodes every row as an object keyed by column name, in column order.
// NaN and infinite floats are written as null, which reads back as text.
func (w *JSONWriter) Write(df *dataframe.DataFrame) error {
	return monitoring.RecordGlobalRows("write_json", func() (int, error) {
		return df.Len(), w.write(df)
	})
}

func (w *JSONWriter) write(df *dataframe.DataFrame) error {
	keys := make([][]byte, df.NColumns())
	for i, name := range df.Columns() {
		key, err := json.Marshal(name)
		if err != nil {
			return errors.NewIOError("WriteJSON", "json", err)
		}
		keys[i] = key
	}

	var buf bytes.Buffer
	if w.options.Format == JSONArray {
		buf.WriteByte('[')
	}
	for pos, row := range df.Rows() {
		if pos > 0 && w.options.Format == JSONArray {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for i, d := range row.Values() {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.Write(keys[i])
			buf.WriteByte(':')
			if err := writeJSONValue(&buf, d.Value()); err != nil {
				return errors.NewIOError("WriteJSON", "json", err)
			}
		}
		buf.WriteByte('}')
		if w.options.Format == JSONLines {
			buf.WriteByte('\n')
		}
	}

	if w.options.Format == JSONArray {
		buf.WriteByte(']')
	}
	out := buf.Bytes()
	if w.options.Format == JSONArray && w.options.Indent {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, out, "", "  "); err != nil {
			return errors.NewIOError("WriteJSON", "json", err)
		}
		pretty.WriteByte('\n')
		out = pretty.Bytes()
	}

	if _, err := w.writer.Write(out); err != nil {
		return errors.NewIOError("WriteJSON", "json", err)
	}
	return nil
}

func writeJSONValue(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(dtype.Format(x))
		return nil
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(dtype.Format(x))
		return nil
	case int64:
		buf.WriteString(dtype.Format(x))
		return nil
	case int32:
		buf.WriteString(dtype.Format(x))
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}
