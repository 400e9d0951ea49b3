// Package dataframe provides the heterogeneous column store of the table engine
package dataframe

import (
	"fmt"
	"slices"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/paveg/tabula/internal/dtype"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
	"github.com/paveg/tabula/internal/validation"
)

// SeriesMeta describes one registered column
type SeriesMeta struct {
	Name  string
	Len   int
	DType dtype.DType
}

// DataFrame represents a table of equally long columns of possibly different
// element types, plus a row index.
type DataFrame struct {
	meta    []SeriesMeta // Maintains column order
	columns map[string]ISeries
	index   []int64
}

// New creates an empty DataFrame
func New() *DataFrame {
	return &DataFrame{
		columns: make(map[string]ISeries),
		index:   []int64{},
	}
}

// FromColumns creates a DataFrame holding the given columns in order
func FromColumns(columns ...ISeries) (*DataFrame, error) {
	df := New()
	for _, s := range columns {
		if err := df.AddColumn(s); err != nil {
			return nil, err
		}
	}
	return df, nil
}

// AddColumn registers s. The first column fixes the frame length and the
// index 0..len; later columns must match it. An unnamed series is named
// col_N after the current column count. The frame takes ownership of s.
func (df *DataFrame) AddColumn(s ISeries) error {
	if s == nil {
		return errors.NewValueError("AddColumn", "", "series must not be nil")
	}

	name := s.Name()
	if name == "" {
		name = fmt.Sprintf("col_%d", len(df.meta))
	}

	validators := []validation.Validator{validation.NewUniqueNameValidator(df, "AddColumn", name)}
	if len(df.meta) > 0 {
		validators = append(validators, validation.NewLengthValidator(df.Len(), s.Len(), "AddColumn", name))
	}
	if err := validation.NewCompoundValidator(validators...).Validate(); err != nil {
		return err
	}

	if name != s.Name() {
		s.SetName(name)
	}
	if len(df.meta) == 0 {
		df.index = defaultIndex(s.Len())
	}

	df.meta = append(df.meta, SeriesMeta{Name: name, Len: s.Len(), DType: s.DType()})
	df.columns[name] = s
	return nil
}

func defaultIndex(n int) []int64 {
	index := make([]int64, n)
	for i := range index {
		index[i] = int64(i)
	}
	return index
}

// Column returns the type-erased series for the given column name. The
// series is owned by the frame and must be treated as read-only; resizing it
// makes later frame operations fail with LengthMismatch.
func (df *DataFrame) Column(name string) (ISeries, error) {
	s, ok := df.columns[name]
	if !ok {
		return nil, errors.NewColumnNotFoundError("Column", name)
	}
	return s, nil
}

// GetColumn returns the column as a typed series. Consult DType first when
// the element type is not known statically. The same ownership rule as
// Column applies.
func GetColumn[T dtype.Element](df *DataFrame, name string) (*series.Series[T], error) {
	s, ok := df.columns[name]
	if !ok {
		return nil, errors.NewColumnNotFoundError("GetColumn", name)
	}
	typed, ok := s.(*series.Series[T])
	if !ok {
		return nil, errors.NewTypeMismatchError("GetColumn", name, s.DType().String(), dtype.Of[T]().String())
	}
	return typed, nil
}

// MustGetColumn is GetColumn that panics on error
func MustGetColumn[T dtype.Element](df *DataFrame, name string) *series.Series[T] {
	s, err := GetColumn[T](df, name)
	if err != nil {
		panic(err)
	}
	return s
}

// HasColumn checks if a column exists
func (df *DataFrame) HasColumn(name string) bool {
	_, exists := df.columns[name]
	return exists
}

// DType returns the element type of a column
func (df *DataFrame) DType(name string) (dtype.DType, error) {
	s, ok := df.columns[name]
	if !ok {
		return dtype.Invalid, errors.NewColumnNotFoundError("DType", name)
	}
	return s.DType(), nil
}

// Columns returns the names of all columns in insertion order
func (df *DataFrame) Columns() []string {
	names := make([]string, len(df.meta))
	for i, m := range df.meta {
		names[i] = m.Name
	}
	return names
}

// NColumns returns the number of columns
func (df *DataFrame) NColumns() int {
	return len(df.meta)
}

// Len returns the number of rows
func (df *DataFrame) Len() int {
	return len(df.index)
}

// Index returns a copy of the row index
func (df *DataFrame) Index() []int64 {
	return slices.Clone(df.index)
}

// Meta returns a copy of the column registry
func (df *DataFrame) Meta() []SeriesMeta {
	return slices.Clone(df.meta)
}

// Select returns a new DataFrame with copies of the named columns, in the
// given order
func (df *DataFrame) Select(names ...string) (*DataFrame, error) {
	if err := validation.ValidateColumns(df, "Select", names...); err != nil {
		return nil, err
	}
	if err := df.checkLengths("Select"); err != nil {
		return nil, err
	}

	out := New()
	out.index = slices.Clone(df.index)
	for _, name := range names {
		if out.HasColumn(name) {
			continue
		}
		s := df.columns[name].CloneSeries()
		out.meta = append(out.meta, SeriesMeta{Name: name, Len: s.Len(), DType: s.DType()})
		out.columns[name] = s
	}
	return out, nil
}

// DropColumn removes a column. Dropping the last column empties the frame.
func (df *DataFrame) DropColumn(name string) error {
	if err := validation.ValidateColumns(df, "DropColumn", name); err != nil {
		return err
	}
	delete(df.columns, name)
	df.meta = slices.DeleteFunc(df.meta, func(m SeriesMeta) bool { return m.Name == name })
	if len(df.meta) == 0 {
		df.index = []int64{}
	}
	return nil
}

// DropPositions removes rows by position from every column and the index.
// All positions are validated before anything is mutated.
func (df *DataFrame) DropPositions(positions []int) error {
	if err := df.checkLengths("DropPositions"); err != nil {
		return err
	}
	if err := validation.ValidatePositions(positions, df.Len(), "DropPositions"); err != nil {
		return err
	}
	for _, m := range df.meta {
		if err := df.columns[m.Name].ValidatePositions(positions); err != nil {
			return err
		}
	}
	if len(positions) == 0 {
		return nil
	}

	for i, m := range df.meta {
		s := df.columns[m.Name]
		if err := s.DropPositions(positions); err != nil {
			// unreachable after validation above
			panic(err)
		}
		df.meta[i].Len = s.Len()
	}

	drop := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		drop[p] = struct{}{}
	}
	kept := make([]int64, 0, len(df.index)-len(drop))
	for i, v := range df.index {
		if _, ok := drop[i]; !ok {
			kept = append(kept, v)
		}
	}
	df.index = kept
	return nil
}

// DropIndexes removes the rows whose index value is in values
func (df *DataFrame) DropIndexes(values []int64) error {
	positions, err := df.positionsOf("DropIndexes", values)
	if err != nil {
		return err
	}
	return df.DropPositions(positions)
}

func (df *DataFrame) positionsOf(op string, values []int64) ([]int, error) {
	lookup := make(map[int64][]int, len(df.index))
	for pos, v := range df.index {
		lookup[v] = append(lookup[v], pos)
	}

	positions := make([]int, 0, len(values))
	for _, v := range values {
		found, ok := lookup[v]
		if !ok {
			return nil, errors.NewValueError(op, "", fmt.Sprintf("index value %d not found", v))
		}
		positions = append(positions, found...)
	}
	return positions, nil
}

// Take returns a new DataFrame with the rows at positions, in that order
func (df *DataFrame) Take(positions []int) (*DataFrame, error) {
	if err := df.checkLengths("Take"); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositions(positions, df.Len(), "Take"); err != nil {
		return nil, err
	}

	out := New()
	for _, m := range df.meta {
		taken, err := df.columns[m.Name].TakeSeries(positions)
		if err != nil {
			return nil, err
		}
		out.meta = append(out.meta, SeriesMeta{Name: m.Name, Len: taken.Len(), DType: m.DType})
		out.columns[m.Name] = taken
	}
	out.index = make([]int64, len(positions))
	for i, p := range positions {
		out.index[i] = df.index[p]
	}
	return out, nil
}

// checkLengths verifies that every column still has the registry length. A
// column resized through a handle from Column or GetColumn fails here.
func (df *DataFrame) checkLengths(op string) error {
	for _, m := range df.meta {
		if n := df.columns[m.Name].Len(); n != len(df.index) || m.Len != len(df.index) {
			return errors.NewLengthMismatchError(op, m.Name, len(df.index), n)
		}
	}
	return nil
}

// Clone returns a deep copy
func (df *DataFrame) Clone() *DataFrame {
	out := New()
	out.meta = slices.Clone(df.meta)
	out.index = slices.Clone(df.index)
	for name, s := range df.columns {
		out.columns[name] = s.CloneSeries()
	}
	return out
}

// String renders the frame as a text table, truncated to the first rows
func (df *DataFrame) String() string {
	const preview = 20

	var b strings.Builder
	fmt.Fprintf(&b, "DataFrame[%dx%d]\n", df.Len(), df.NColumns())
	if df.NColumns() == 0 {
		return b.String()
	}
	if err := df.checkLengths("String"); err != nil {
		b.WriteString(err.Error())
		b.WriteString("\n")
		return b.String()
	}

	table := tablewriter.NewWriter(&b)
	header := []string{""}
	for _, m := range df.meta {
		header = append(header, fmt.Sprintf("%s (%s)", m.Name, m.DType))
	}
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)

	for pos := 0; pos < df.Len() && pos < preview; pos++ {
		row := []string{dtype.Format(df.index[pos])}
		for _, m := range df.meta {
			row = append(row, df.columns[m.Name].StringAt(pos))
		}
		table.Append(row)
	}
	table.Render()

	if df.Len() > preview {
		fmt.Fprintf(&b, "... %d more rows\n", df.Len()-preview)
	}
	return b.String()
}
