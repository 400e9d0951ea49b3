package dataframe

import (
	"iter"
	"strings"

	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
	"github.com/paveg/tabula/internal/validation"
)

// Row is a read-only view of one row. Values are read from the columns on
// access, so a Row must not outlive a mutation of its frame.
type Row struct {
	df  *DataFrame
	pos int
}

// Row returns the row at position pos
func (df *DataFrame) Row(pos int) (Row, error) {
	if err := validation.ValidateIndex(pos, df.Len(), "Row"); err != nil {
		return Row{}, err
	}
	if err := df.checkLengths("Row"); err != nil {
		return Row{}, err
	}
	return Row{df: df, pos: pos}, nil
}

// Rows iterates over every row in position order
func (df *DataFrame) Rows() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		for pos := 0; pos < df.Len(); pos++ {
			if !yield(pos, Row{df: df, pos: pos}) {
				return
			}
		}
	}
}

// Loc returns the first row whose index value is label
func (df *DataFrame) Loc(label int64) (Row, error) {
	positions, err := df.positionsOf("Loc", []int64{label})
	if err != nil {
		return Row{}, err
	}
	if err := df.checkLengths("Loc"); err != nil {
		return Row{}, err
	}
	return Row{df: df, pos: positions[0]}, nil
}

// Position returns the row position within its frame
func (r Row) Position() int {
	return r.pos
}

// Index returns the row index value
func (r Row) Index() int64 {
	return r.df.index[r.pos]
}

// Len returns the number of values in the row
func (r Row) Len() int {
	return len(r.df.meta)
}

// Get returns the value of the named column
func (r Row) Get(column string) (series.Datum, error) {
	s, ok := r.df.columns[column]
	if !ok {
		return series.Datum{}, errors.NewColumnNotFoundError("Row.Get", column)
	}
	return s.DatumAt(r.pos), nil
}

// At returns the value of the i-th column
func (r Row) At(i int) (series.Datum, error) {
	if err := validation.ValidateIndex(i, len(r.df.meta), "Row.At"); err != nil {
		return series.Datum{}, err
	}
	return r.df.columns[r.df.meta[i].Name].DatumAt(r.pos), nil
}

// Values returns every value of the row in column order
func (r Row) Values() []series.Datum {
	out := make([]series.Datum, len(r.df.meta))
	for i, m := range r.df.meta {
		out[i] = r.df.columns[m.Name].DatumAt(r.pos)
	}
	return out
}

// Strings returns the text form of every value in column order
func (r Row) Strings() []string {
	out := make([]string, len(r.df.meta))
	for i, m := range r.df.meta {
		out[i] = r.df.columns[m.Name].StringAt(r.pos)
	}
	return out
}

// String joins the text form of the row with commas
func (r Row) String() string {
	return strings.Join(r.Strings(), ",")
}
