package io

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"go.uber.org/zap"

	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/logging"
	"github.com/paveg/tabula/internal/monitoring"
	"github.com/paveg/tabula/internal/series"
)

// Read reads Parquet data and returns a DataFrame. Columns must hold one of
// the supported element types.
func (r *ParquetReader) Read() (*dataframe.DataFrame, error) {
	var df *dataframe.DataFrame
	err := monitoring.RecordGlobalRows("read_parquet", func() (int, error) {
		var err error
		df, err = r.read()
		if err != nil {
			return 0, err
		}
		return df.Len(), nil
	})
	return df, err
}

func (r *ParquetReader) read() (*dataframe.DataFrame, error) {
	// Parquet needs random access
	data, err := io.ReadAll(r.reader)
	if err != nil {
		return nil, errors.NewIOError("ReadParquet", "parquet", err)
	}

	pqReader, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewIOError("ReadParquet", "parquet", fmt.Errorf("creating parquet file reader: %w", err))
	}
	defer pqReader.Close()

	props := pqarrow.ArrowReadProperties{BatchSize: int64(r.options.BatchSize)}
	arrowReader, err := pqarrow.NewFileReader(pqReader, props, r.mem)
	if err != nil {
		return nil, errors.NewIOError("ReadParquet", "parquet", fmt.Errorf("creating arrow file reader: %w", err))
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, errors.NewIOError("ReadParquet", "parquet", fmt.Errorf("reading table: %w", err))
	}
	defer table.Release()

	return r.tableToDataFrame(table)
}

func (r *ParquetReader) tableToDataFrame(table arrow.Table) (*dataframe.DataFrame, error) {
	schema := table.Schema()
	columns := make([]dataframe.ISeries, 0, table.NumCols())

	for i := range int(table.NumCols()) {
		field := schema.Field(i)
		s, err := series.FromChunked(field.Name, field.Type, table.Column(i).Data(), r.mem)
		if err != nil {
			return nil, errors.NewValueError("ReadParquet", field.Name, err.Error())
		}
		columns = append(columns, s)
	}

	logging.Component("parquet").Debug("parquet read",
		zap.Int64("rows", table.NumRows()),
		zap.Int("columns", len(columns)))
	return dataframe.FromColumns(columns...)
}

// Write writes the DataFrame as a single Parquet file.
func (w *ParquetWriter) Write(df *dataframe.DataFrame) error {
	return monitoring.RecordGlobalRows("write_parquet", func() (int, error) {
		return df.Len(), w.write(df)
	})
}

func (w *ParquetWriter) write(df *dataframe.DataFrame) error {
	codec, err := compressionCodec(w.options.Compression)
	if err != nil {
		return err
	}

	mem := memory.NewGoAllocator()
	table := dataFrameToTable(df, mem)
	defer table.Release()

	batch := w.options.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	props := parquet.NewWriterProperties(
		parquet.WithCompression(codec),
		parquet.WithBatchSize(int64(batch)),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(mem))

	writer, err := pqarrow.NewFileWriter(table.Schema(), w.writer, props, arrowProps)
	if err != nil {
		return errors.NewIOError("WriteParquet", "parquet", fmt.Errorf("creating file writer: %w", err))
	}

	chunk := int64(df.Len())
	if chunk == 0 {
		chunk = 1
	}
	if err := writer.WriteTable(table, chunk); err != nil {
		_ = writer.Close()
		return errors.NewIOError("WriteParquet", "parquet", fmt.Errorf("writing table: %w", err))
	}
	if err := writer.Close(); err != nil {
		return errors.NewIOError("WriteParquet", "parquet", fmt.Errorf("closing file writer: %w", err))
	}
	return nil
}

func compressionCodec(name string) (compress.Compression, error) {
	switch name {
	case "", "snappy":
		return compress.Codecs.Snappy, nil
	case "gzip":
		return compress.Codecs.Gzip, nil
	case "lz4":
		return compress.Codecs.Lz4Raw, nil
	case "zstd":
		return compress.Codecs.Zstd, nil
	case "uncompressed", "none":
		return compress.Codecs.Uncompressed, nil
	}
	return compress.Codecs.Uncompressed, errors.NewValueError("WriteParquet", "", fmt.Sprintf("unknown compression %q", name))
}

func dataFrameToTable(df *dataframe.DataFrame, mem memory.Allocator) arrow.Table {
	fields := make([]arrow.Field, 0, df.NColumns())
	columns := make([]arrow.Column, 0, df.NColumns())

	for _, name := range df.Columns() {
		s, _ := df.Column(name)
		arr := s.ToArrow(mem)

		field := arrow.Field{Name: name, Type: arr.DataType()}
		chunked := arrow.NewChunked(arr.DataType(), []arrow.Array{arr})
		arr.Release()
		col := arrow.NewColumn(field, chunked)
		chunked.Release()

		fields = append(fields, field)
		columns = append(columns, *col)
	}

	return array.NewTable(arrow.NewSchema(fields, nil), columns, int64(df.Len()))
}
