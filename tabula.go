// Package tabula is an in-memory columnar table engine.
// This package is the public API; the implementation lives under internal/.
//
// A DataFrame is an ordered registry of equally long, homogeneously typed
// columns (Series) plus an int64 row index. Columns hold one of five element
// types: float64, int64, float32, int32 and text.
//
//	df, err := tabula.ReadCSVFile("sales.csv.gz", tabula.DefaultCSVOptions())
//	if err != nil {
//		return err
//	}
//	byRegion, err := df.GroupByColumn("region")
//	if err != nil {
//		return err
//	}
//	totals, err := byRegion.Sum()
package tabula

import (
	"io"

	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/dtype"
	"github.com/paveg/tabula/internal/errors"
	tio "github.com/paveg/tabula/internal/io"
	"github.com/paveg/tabula/internal/logging"
	"github.com/paveg/tabula/internal/monitoring"
	"github.com/paveg/tabula/internal/series"
)

type (
	// DType tags the element type of a column
	DType = dtype.DType
	// Element is the set of storable element types
	Element = dtype.Element
	// Numeric is the numeric subset of Element
	Numeric = dtype.Numeric

	// Series is a named, homogeneously typed column
	Series[T dtype.Element] = series.Series[T]
	// ISeries is a Series with its element type erased
	ISeries = series.ISeries
	// Datum is a single dynamically typed value
	Datum = series.Datum
	// Aggregation selects a reduction
	Aggregation = series.Aggregation
	// AggOp names a reduction
	AggOp = series.AggOp

	DataFrame = dataframe.DataFrame
	GroupBy   = dataframe.GroupBy
	Row       = dataframe.Row

	CSVOptions     = tio.CSVOptions
	ParquetOptions = tio.ParquetOptions
	JSONOptions    = tio.JSONOptions

	// Config holds the engine-wide tuning and logging settings
	Config = config.Config
	// DataFrameError is the error type returned by every operation
	DataFrameError = errors.DataFrameError
)

const (
	Float64 = dtype.Float64
	Int64   = dtype.Int64
	Float32 = dtype.Float32
	Int32   = dtype.Int32
	Text    = dtype.Text
)

const (
	OpSum      = series.OpSum
	OpMean     = series.OpMean
	OpMin      = series.OpMin
	OpMax      = series.OpMax
	OpVar      = series.OpVar
	OpStd      = series.OpStd
	OpMedian   = series.OpMedian
	OpQuantile = series.OpQuantile
	OpCount    = series.OpCount
)

// Error sentinels, matched with errors.Is
var (
	ErrLengthMismatch  = errors.ErrLengthMismatch
	ErrCast            = errors.ErrCast
	ErrValue           = errors.ErrValue
	ErrEmptyInput      = errors.ErrEmptyInput
	ErrColumnNotFound  = errors.ErrColumnNotFound
	ErrIndexOutOfRange = errors.ErrIndexOutOfRange
	ErrTypeMismatch    = errors.ErrTypeMismatch
	ErrIO              = errors.ErrIO
	ErrHeaderParse     = errors.ErrHeaderParse
)

// NewSeries creates a named series from a copy of values
func NewSeries[T dtype.Element](name string, values []T) *Series[T] {
	return series.New(name, values)
}

// Arange creates the series start, start+1, ..., stop-1
func Arange[T dtype.Numeric](start, stop T) *Series[T] {
	return series.Arange(start, stop)
}

// CumSum returns the running total of s
func CumSum[T dtype.Numeric](s *Series[T]) *Series[T] {
	return series.CumSum(s)
}

// SplitNHotEncode one-hot encodes the sep-separated tokens of a text series,
// dropping tokens seen fewer than cutoff times.
func SplitNHotEncode(s *Series[string], sep string, cutoff int) (*DataFrame, error) {
	return dataframe.SplitNHotEncode(s, sep, cutoff)
}

// NewDataFrame creates a DataFrame from columns. All columns must share a
// length; unnamed columns are called col_<position>.
func NewDataFrame(columns ...ISeries) (*DataFrame, error) {
	return dataframe.FromColumns(columns...)
}

// GetColumn returns the named column with its concrete element type
func GetColumn[T dtype.Element](df *DataFrame, name string) (*Series[T], error) {
	return dataframe.GetColumn[T](df, name)
}

// ParseAggOp maps "sum", "mean", ... to an AggOp
func ParseAggOp(name string) (AggOp, error) {
	return series.ParseAggOp(name)
}

// DefaultCSVOptions returns comma separated, double-quoted input with a header row
func DefaultCSVOptions() CSVOptions {
	return tio.DefaultCSVOptions()
}

// ReadCSV reads a CSV stream, inferring the type of every column
func ReadCSV(r io.Reader, options CSVOptions) (*DataFrame, error) {
	return tio.NewCSVReader(r, options).Read()
}

// WriteCSV writes df as CSV
func WriteCSV(w io.Writer, df *DataFrame, options CSVOptions) error {
	return tio.NewCSVWriter(w, options).Write(df)
}

// ReadCSVFile reads a CSV file. Paths ending in .gz are decompressed.
func ReadCSVFile(path string, options CSVOptions) (*DataFrame, error) {
	return tio.ReadCSVFile(path, options)
}

// WriteCSVFile writes a CSV file. Paths ending in .gz are compressed.
func WriteCSVFile(path string, df *DataFrame, options CSVOptions) error {
	return tio.WriteCSVFile(path, df, options)
}

// ReadFile reads csv, parquet, json, jsonl or snapshot files chosen by extension
func ReadFile(path string) (*DataFrame, error) {
	return tio.ReadFile(path)
}

// WriteFile writes df in the format chosen by the extension of path
func WriteFile(path string, df *DataFrame) error {
	return tio.WriteFile(path, df)
}

// DecodeSnapshot restores a DataFrame written by DataFrame.EncodeSnapshot
func DecodeSnapshot(data []byte) (*DataFrame, error) {
	return dataframe.DecodeSnapshot(data)
}

// DecodeSeries restores a column written by Series.MarshalBinary
func DecodeSeries(data []byte) (ISeries, error) {
	return series.Decode(data)
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() Config {
	return config.NewConfig()
}

// Configure fills zero fields of cfg with defaults, validates it and installs
// it as the global configuration together with its logger and metrics
// collector.
func Configure(cfg Config) error {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logging.Init(logging.FromConfig(cfg)); err != nil {
		return err
	}
	config.SetGlobalConfig(cfg)
	monitoring.ConfigureFromConfig(cfg)
	return nil
}
