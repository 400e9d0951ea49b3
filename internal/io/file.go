package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/monitoring"
)

const gzipExt = ".gz"

// Format is a file format recognized by extension
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatParquet
	FormatJSON
	FormatJSONLines
	FormatSnapshot
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatParquet:
		return "parquet"
	case FormatJSON:
		return "json"
	case FormatJSONLines:
		return "jsonl"
	case FormatSnapshot:
		return "snapshot"
	default:
		return "unknown"
	}
}

// FormatOf maps a path to its format, ignoring a trailing ".gz"
func FormatOf(path string) Format {
	ext := strings.ToLower(filepath.Ext(strings.TrimSuffix(strings.ToLower(path), gzipExt)))
	switch ext {
	case ".csv":
		return FormatCSV
	case ".parquet", ".pq":
		return FormatParquet
	case ".json":
		return FormatJSON
	case ".jsonl", ".ndjson":
		return FormatJSONLines
	case ".snap", ".tabula":
		return FormatSnapshot
	default:
		return FormatUnknown
	}
}

func isGzip(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), gzipExt)
}

// ReadCSVFile reads the CSV file at path. A ".gz" suffix selects gzip
// decompression; the content is never sniffed.
func ReadCSVFile(path string, options CSVOptions) (*dataframe.DataFrame, error) {
	var df *dataframe.DataFrame
	err := withReader(path, "ReadCSVFile", func(r io.Reader) error {
		var err error
		df, err = NewCSVReader(r, options).Read()
		return err
	})
	return df, err
}

// WriteCSVFile writes df as CSV to path, gzip compressed when path ends in ".gz"
func WriteCSVFile(path string, df *dataframe.DataFrame, options CSVOptions) error {
	return withWriter(path, "WriteCSVFile", func(w io.Writer) error {
		return NewCSVWriter(w, options).Write(df)
	})
}

// ReadFile reads path in the format given by its extension, with default
// options.
func ReadFile(path string) (*dataframe.DataFrame, error) {
	switch FormatOf(path) {
	case FormatCSV:
		return ReadCSVFile(path, DefaultCSVOptions())
	case FormatParquet:
		var df *dataframe.DataFrame
		err := withReader(path, "ReadFile", func(r io.Reader) error {
			var err error
			df, err = NewParquetReader(r, DefaultParquetOptions(), nil).Read()
			return err
		})
		return df, err
	case FormatJSON, FormatJSONLines:
		options := DefaultJSONOptions()
		if FormatOf(path) == FormatJSONLines {
			options.Format = JSONLines
		}
		var df *dataframe.DataFrame
		err := withReader(path, "ReadFile", func(r io.Reader) error {
			var err error
			df, err = NewJSONReader(r, options).Read()
			return err
		})
		return df, err
	case FormatSnapshot:
		var df *dataframe.DataFrame
		err := withReader(path, "ReadFile", func(r io.Reader) error {
			return monitoring.RecordGlobalRows("read_snapshot", func() (int, error) {
				data, err := io.ReadAll(r)
				if err != nil {
					return 0, err
				}
				df, err = dataframe.DecodeSnapshot(data)
				if err != nil {
					return 0, err
				}
				return df.Len(), nil
			})
		})
		return df, err
	}
	return nil, errors.NewValueError("ReadFile", "", fmt.Sprintf("unrecognized file extension: %s", path))
}

// WriteFile writes df to path in the format given by its extension, with
// default options.
func WriteFile(path string, df *dataframe.DataFrame) error {
	var write func(io.Writer) error
	switch FormatOf(path) {
	case FormatCSV:
		write = func(w io.Writer) error { return NewCSVWriter(w, DefaultCSVOptions()).Write(df) }
	case FormatParquet:
		write = func(w io.Writer) error { return NewParquetWriter(w, DefaultParquetOptions()).Write(df) }
	case FormatJSON:
		write = func(w io.Writer) error { return NewJSONWriter(w, DefaultJSONOptions()).Write(df) }
	case FormatJSONLines:
		write = func(w io.Writer) error { return NewJSONWriter(w, JSONOptions{Format: JSONLines}).Write(df) }
	case FormatSnapshot:
		write = func(w io.Writer) error {
			return monitoring.RecordGlobalRows("write_snapshot", func() (int, error) {
				data, err := df.EncodeSnapshot()
				if err != nil {
					return 0, err
				}
				_, err = w.Write(data)
				return df.Len(), err
			})
		}
	default:
		return errors.NewValueError("WriteFile", "", fmt.Sprintf("unrecognized file extension: %s", path))
	}
	return withWriter(path, "WriteFile", write)
}

// withReader opens path, adding gzip decompression for ".gz" names.
func withReader(path, op string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.NewIOError(op, path, err)
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	if isGzip(path) {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return errors.NewIOError(op, path, fmt.Errorf("opening gzip stream: %w", err))
		}
		defer gz.Close()
		r = gz
	}
	return fn(r)
}

// withWriter creates path, adding gzip compression for ".gz" names. The
// file is closed, and the gzip trailer flushed, before returning.
func withWriter(path, op string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIOError(op, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.NewIOError(op, path, cerr)
		}
	}()

	if !isGzip(path) {
		return fn(f)
	}

	gz := gzip.NewWriter(f)
	if err := fn(gz); err != nil {
		_ = gz.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		return errors.NewIOError(op, path, fmt.Errorf("closing gzip stream: %w", err))
	}
	return nil
}
