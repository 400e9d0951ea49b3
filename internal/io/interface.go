// Package io reads and writes DataFrames as CSV, Parquet and JSON.
//
// CSV is the primary format. Column types are inferred from the text of each
// column: a column becomes int64 when every value parses as an integer,
// otherwise float64 when every value parses as a float, otherwise text.
// Rows whose field count does not match the header are skipped and counted,
// never fatal.
//
// Files whose name ends in ".gz" are transparently gzip framed.
package io

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
)

// DefaultBatchSize is the row group batch size used by the Parquet writer
const DefaultBatchSize = 1000

// DataReader reads a whole DataFrame from a source
type DataReader interface {
	Read() (*dataframe.DataFrame, error)
}

// DataWriter writes a whole DataFrame to a destination
type DataWriter interface {
	Write(df *dataframe.DataFrame) error
}

// CSVOptions configures CSV parsing and formatting.
type CSVOptions struct {
	// Delimiter separates fields (default ',')
	Delimiter byte
	// Quote encloses fields holding special bytes (default '"')
	Quote byte
	// Terminator ends a record. Zero accepts any of CR, LF or CRLF on read
	// and writes LF.
	Terminator byte
	// HasHeaders reports whether the first record names the columns. When
	// writing, it controls whether a header record is emitted.
	HasHeaders bool
	// Headers names the columns of a headerless source. Ignored when
	// HasHeaders is set. Without it columns are named col_N.
	Headers []string
}

// DefaultCSVOptions returns comma separated, double quoted options with a
// header row.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:  ',',
		Quote:      '"',
		HasHeaders: true,
	}
}

func (o CSVOptions) validate(op string) error {
	switch {
	case o.Delimiter == 0:
		return errors.NewValueError(op, "", "delimiter must be set")
	case o.Quote == 0:
		return errors.NewValueError(op, "", "quote must be set")
	case o.Delimiter == o.Quote:
		return errors.NewValueError(op, "", "delimiter and quote must differ")
	case o.Terminator != 0 && (o.Terminator == o.Delimiter || o.Terminator == o.Quote):
		return errors.NewValueError(op, "", "terminator must differ from delimiter and quote")
	case o.Terminator == 0 && (o.Delimiter == '\r' || o.Delimiter == '\n'):
		return errors.NewValueError(op, "", "delimiter must not be a line break")
	}
	return nil
}

// CSVReader reads CSV data into a DataFrame
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
	skipped int
}

// NewCSVReader creates a reader over r
func NewCSVReader(r io.Reader, options CSVOptions) *CSVReader {
	return &CSVReader{
		reader:  r,
		options: options,
	}
}

// Skipped returns the number of malformed rows dropped by the last Read
func (r *CSVReader) Skipped() int {
	return r.skipped
}

// CSVWriter writes DataFrames as CSV
type CSVWriter struct {
	writer  io.Writer
	options CSVOptions
}

// NewCSVWriter creates a writer over w
func NewCSVWriter(w io.Writer, options CSVOptions) *CSVWriter {
	return &CSVWriter{
		writer:  w,
		options: options,
	}
}

// ParquetOptions configures Parquet output
type ParquetOptions struct {
	// Compression is one of snappy, gzip, lz4, zstd or uncompressed
	Compression string
	// BatchSize bounds the rows written per batch
	BatchSize int
}

// DefaultParquetOptions returns snappy compressed options
func DefaultParquetOptions() ParquetOptions {
	return ParquetOptions{
		Compression: "snappy",
		BatchSize:   DefaultBatchSize,
	}
}

// ParquetReader reads Parquet data into a DataFrame
type ParquetReader struct {
	reader  io.Reader
	options ParquetOptions
	mem     memory.Allocator
}

// NewParquetReader creates a reader over r. A nil allocator uses the Go heap.
func NewParquetReader(r io.Reader, options ParquetOptions, mem memory.Allocator) *ParquetReader {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &ParquetReader{
		reader:  r,
		options: options,
		mem:     mem,
	}
}

// ParquetWriter writes DataFrames as Parquet
type ParquetWriter struct {
	writer  io.Writer
	options ParquetOptions
}

// NewParquetWriter creates a writer over w
func NewParquetWriter(w io.Writer, options ParquetOptions) *ParquetWriter {
	return &ParquetWriter{
		writer:  w,
		options: options,
	}
}

// JSONFormat selects the JSON layout
type JSONFormat int

const (
	// JSONArray is a single array of row objects
	JSONArray JSONFormat = iota
	// JSONLines is one row object per line
	JSONLines
)

// JSONOptions configures JSON input and output
type JSONOptions struct {
	Format JSONFormat
	// MaxRecords stops reading after this many rows. Zero reads everything.
	MaxRecords int
	// Indent pretty prints array output
	Indent bool
}

// DefaultJSONOptions returns compact array options
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{Format: JSONArray}
}

// JSONReader reads JSON row objects into a DataFrame
type JSONReader struct {
	reader  io.Reader
	options JSONOptions
}

// NewJSONReader creates a reader over r
func NewJSONReader(r io.Reader, options JSONOptions) *JSONReader {
	return &JSONReader{reader: r, options: options}
}

// JSONWriter writes DataFrames as JSON row objects
type JSONWriter struct {
	writer  io.Writer
	options JSONOptions
}

// NewJSONWriter creates a writer over w
func NewJSONWriter(w io.Writer, options JSONOptions) *JSONWriter {
	return &JSONWriter{writer: w, options: options}
}
