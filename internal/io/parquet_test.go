package io_test

import (
	"bytes"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/dtype"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/io"
	"github.com/paveg/tabula/internal/series"
)

func mixedFrame(t *testing.T) *dataframe.DataFrame {
	t.Helper()
	df, err := dataframe.FromColumns(
		series.New("i64", []int64{1, 2, 3}),
		series.New("i32", []int32{10, 20, 30}),
		series.New("f64", []float64{1.1, 2.2, 3.3}),
		series.New("f32", []float32{1.5, 2.5, 3.5}),
		series.New("text", []string{"a", "b", "c"}),
	)
	require.NoError(t, err)
	return df
}

func TestParquetRoundTrip(t *testing.T) {
	mem := memory.NewGoAllocator()

	for _, codec := range []string{"snappy", "gzip", "zstd", "lz4", "uncompressed"} {
		t.Run(codec, func(t *testing.T) {
			options := io.ParquetOptions{Compression: codec, BatchSize: 2}
			df := mixedFrame(t)

			var buf bytes.Buffer
			require.NoError(t, io.NewParquetWriter(&buf, options).Write(df))

			back, err := io.NewParquetReader(bytes.NewReader(buf.Bytes()), options, mem).Read()
			require.NoError(t, err)

			assert.Equal(t, df.Meta(), back.Meta())
			assert.Equal(t, []int32{10, 20, 30}, dataframe.MustGetColumn[int32](back, "i32").Values())
			assert.Equal(t, []float32{1.5, 2.5, 3.5}, dataframe.MustGetColumn[float32](back, "f32").Values())
			assert.Equal(t, []string{"a", "b", "c"}, dataframe.MustGetColumn[string](back, "text").Values())
		})
	}
}

func TestParquetEmptyRows(t *testing.T) {
	df, err := dataframe.FromColumns(
		series.New("id", []int64{}),
		series.New("name", []string{}),
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, io.NewParquetWriter(&buf, io.DefaultParquetOptions()).Write(df))

	back, err := io.NewParquetReader(&buf, io.DefaultParquetOptions(), nil).Read()
	require.NoError(t, err)
	assert.Equal(t, 0, back.Len())
	assert.Equal(t, []string{"id", "name"}, back.Columns())

	dt, err := back.DType("id")
	require.NoError(t, err)
	assert.Equal(t, dtype.Int64, dt)
}

func TestParquetErrors(t *testing.T) {
	_, err := io.NewParquetReader(bytes.NewReader(nil), io.DefaultParquetOptions(), nil).Read()
	assert.ErrorIs(t, err, errors.ErrIO)

	var buf bytes.Buffer
	err = io.NewParquetWriter(&buf, io.ParquetOptions{Compression: "brotli-ish"}).Write(mixedFrame(t))
	assert.ErrorIs(t, err, errors.ErrValue)
}
