package io

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/dtype"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/logging"
	"github.com/paveg/tabula/internal/monitoring"
	"github.com/paveg/tabula/internal/parallel"
	"github.com/paveg/tabula/internal/series"
)

// Read parses the whole source into a DataFrame. Rows with the wrong number
// of fields, or broken quoting, are logged at warn level and skipped.
func (r *CSVReader) Read() (*dataframe.DataFrame, error) {
	var df *dataframe.DataFrame
	err := monitoring.RecordGlobalRows("read_csv", func() (int, error) {
		var err error
		df, err = r.read()
		if err != nil {
			return 0, err
		}
		return df.Len(), nil
	})
	return df, err
}

func (r *CSVReader) read() (*dataframe.DataFrame, error) {
	if err := r.options.validate("ReadCSV"); err != nil {
		return nil, err
	}
	r.skipped = 0
	logger := logging.Component("csv")
	scanner := newRecordScanner(r.reader, r.options)

	headers, pending, pendingLine, err := r.headers(scanner)
	if err != nil {
		return nil, err
	}
	if headers == nil {
		return dataframe.New(), nil
	}

	raw := make([][]string, len(headers))
	accept := func(fields []string, line int) {
		if len(fields) != len(headers) {
			r.skipped++
			logger.Warn("skipping malformed CSV row",
				zap.Int("line", line),
				zap.Int("fields", len(fields)),
				zap.Int("expected", len(headers)))
			return
		}
		for i, f := range fields {
			raw[i] = append(raw[i], f)
		}
	}
	if pending != nil {
		accept(pending, pendingLine)
	}

	for {
		fields, line, err := scanner.next()
		if err == io.EOF {
			break
		}
		var malformed *errMalformed
		if stderrors.As(err, &malformed) {
			r.skipped++
			logger.Warn("skipping malformed CSV row", zap.Int("line", line), zap.Error(err))
			continue
		}
		if err != nil {
			return nil, errors.NewIOError("ReadCSV", "csv", err)
		}
		accept(fields, line)
	}

	columns := inferColumns(headers, raw)
	df, err := dataframe.FromColumns(columns...)
	if err != nil {
		return nil, err
	}

	logger.Debug("CSV read",
		zap.Int("rows", df.Len()),
		zap.Int("columns", df.NColumns()),
		zap.Int("skipped", r.skipped))
	return df, nil
}

// headers resolves the column names. For a headerless source without explicit
// names the first record is returned as pending data. A nil result means the
// source holds no columns at all.
func (r *CSVReader) headers(scanner *recordScanner) (headers, pending []string, pendingLine int, err error) {
	switch {
	case r.options.HasHeaders:
		fields, _, err := scanner.next()
		if err == io.EOF {
			return nil, nil, 0, errors.NewHeaderParseError("ReadCSV", "source has no header row", nil)
		}
		if err != nil {
			return nil, nil, 0, errors.NewHeaderParseError("ReadCSV", "cannot parse header row", err)
		}
		headers = fields
	case len(r.options.Headers) > 0:
		headers = r.options.Headers
	default:
		fields, line, err := scanner.next()
		if err == io.EOF {
			return nil, nil, 0, nil
		}
		if err != nil {
			return nil, nil, 0, errors.NewHeaderParseError("ReadCSV", "cannot parse first row", err)
		}
		headers = make([]string, len(fields))
		for i := range fields {
			headers[i] = fmt.Sprintf("col_%d", i)
		}
		pending, pendingLine = fields, line
	}

	seen := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		if _, dup := seen[h]; dup {
			return nil, nil, 0, errors.NewHeaderParseError("ReadCSV", fmt.Sprintf("duplicate column name %q", h), nil)
		}
		seen[h] = struct{}{}
	}
	return headers, pending, pendingLine, nil
}

// inferColumns builds one series per column, in parallel for large inputs.
func inferColumns(headers []string, raw [][]string) []dataframe.ISeries {
	cfg := config.GetGlobalConfig()
	rows := 0
	if len(raw) > 0 {
		rows = len(raw[0])
	}

	if !cfg.ShouldParallelize(rows * len(headers)) {
		out := make([]dataframe.ISeries, len(headers))
		for i, name := range headers {
			out[i] = InferSeries(name, raw[i])
		}
		return out
	}

	pool := parallel.NewWorkerPoolFromConfig(cfg)
	defer pool.Close()
	return parallel.ProcessIndexed(pool, headers, func(i int, name string) dataframe.ISeries {
		return InferSeries(name, raw[i])
	})
}

// InferSeries types a column of raw text. It commits to the first of int64
// and float64 that every value parses as, and falls back to text. An empty
// column is text.
func InferSeries(name string, values []string) dataframe.ISeries {
	if values == nil {
		values = []string{}
	}
	if len(values) > 0 {
		for _, dt := range []dtype.DType{dtype.Int64, dtype.Float64} {
			if s, err := series.ParseStrings(name, dt, values); err == nil {
				return s
			}
		}
	}
	return series.New(name, values)
}

// Write formats every column as text and writes the rows. Fields holding the
// delimiter, the quote or a line break are quoted.
func (w *CSVWriter) Write(df *dataframe.DataFrame) error {
	return monitoring.RecordGlobalRows("write_csv", func() (int, error) {
		return df.Len(), w.write(df)
	})
}

func (w *CSVWriter) write(df *dataframe.DataFrame) error {
	if err := w.options.validate("WriteCSV"); err != nil {
		return err
	}
	if df.NColumns() == 0 {
		return nil
	}

	columns := formatColumns(df)
	bw := bufio.NewWriter(w.writer)

	if w.options.HasHeaders {
		if err := w.writeRecord(bw, df.Columns()); err != nil {
			return errors.NewIOError("WriteCSV", "csv", err)
		}
	}

	record := make([]string, len(columns))
	for row := 0; row < df.Len(); row++ {
		for c, col := range columns {
			record[c] = col[row]
		}
		if err := w.writeRecord(bw, record); err != nil {
			return errors.NewIOError("WriteCSV", "csv", fmt.Errorf("writing row %d: %w", row, err))
		}
	}

	if err := bw.Flush(); err != nil {
		return errors.NewIOError("WriteCSV", "csv", err)
	}
	return nil
}

func formatColumns(df *dataframe.DataFrame) [][]string {
	cfg := config.GetGlobalConfig()
	names := df.Columns()
	format := func(_ int, name string) []string {
		s, _ := df.Column(name)
		return s.Strings()
	}

	if !cfg.ShouldParallelize(df.Len() * len(names)) {
		out := make([][]string, len(names))
		for i, name := range names {
			out[i] = format(i, name)
		}
		return out
	}

	pool := parallel.NewWorkerPoolFromConfig(cfg)
	defer pool.Close()
	return parallel.ProcessIndexed(pool, names, format)
}

func (w *CSVWriter) writeRecord(bw *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := bw.WriteByte(w.options.Delimiter); err != nil {
				return err
			}
		}
		// a lone empty field would read back as a blank line
		if w.needsQuotes(f) || (len(fields) == 1 && f == "") {
			f = w.quoted(f)
		}
		if _, err := bw.WriteString(f); err != nil {
			return err
		}
	}

	term := w.options.Terminator
	if term == 0 {
		term = '\n'
	}
	return bw.WriteByte(term)
}

func (w *CSVWriter) needsQuotes(field string) bool {
	for i := 0; i < len(field); i++ {
		switch b := field[i]; b {
		case w.options.Delimiter, w.options.Quote, '\r', '\n':
			return true
		default:
			if w.options.Terminator != 0 && b == w.options.Terminator {
				return true
			}
		}
	}
	return false
}

func (w *CSVWriter) quoted(field string) string {
	quote := string([]byte{w.options.Quote})
	return quote + strings.ReplaceAll(field, quote, quote+quote) + quote
}
