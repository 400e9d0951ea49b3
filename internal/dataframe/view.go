package dataframe

import (
	"github.com/paveg/tabula/internal/dtype"
	"github.com/paveg/tabula/internal/series"
)

// View is a closed wrapper over one column. Exactly the field matching DType
// is set; callers switch on DType instead of asserting on ISeries.
type View struct {
	DType   dtype.DType
	Float64 *series.Series[float64]
	Int64   *series.Series[int64]
	Float32 *series.Series[float32]
	Int32   *series.Series[int32]
	Text    *series.Series[string]
}

// ColumnView returns the typed view of a column
func (df *DataFrame) ColumnView(name string) (View, error) {
	s, err := df.Column(name)
	if err != nil {
		return View{}, err
	}
	return ViewOf(s), nil
}

// ViewOf wraps a type-erased series in a View
func ViewOf(s ISeries) View {
	v := View{DType: s.DType()}
	switch typed := s.(type) {
	case *series.Series[float64]:
		v.Float64 = typed
	case *series.Series[int64]:
		v.Int64 = typed
	case *series.Series[float32]:
		v.Float32 = typed
	case *series.Series[int32]:
		v.Int32 = typed
	case *series.Series[string]:
		v.Text = typed
	}
	return v
}

// Series returns the wrapped column type-erased
func (v View) Series() ISeries {
	switch v.DType {
	case dtype.Float64:
		return v.Float64
	case dtype.Int64:
		return v.Int64
	case dtype.Float32:
		return v.Float32
	case dtype.Int32:
		return v.Int32
	case dtype.Text:
		return v.Text
	}
	return nil
}
