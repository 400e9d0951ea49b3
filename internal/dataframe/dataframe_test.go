package dataframe

import (
	"testing"

	"github.com/paveg/tabula/internal/dtype"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDataFrame(t *testing.T) *DataFrame {
	t.Helper()

	df, err := FromColumns(
		series.New("name", []string{"Alice", "Bob", "Charlie"}),
		series.New("age", []int64{25, 30, 35}),
		series.New("salary", []float64{50000, 60000, 70000}),
	)
	require.NoError(t, err)
	return df
}

func TestNewDataFrame(t *testing.T) {
	df := New()
	assert.Equal(t, 0, df.Len())
	assert.Equal(t, 0, df.NColumns())
	assert.Empty(t, df.Columns())

	df = createTestDataFrame(t)
	assert.Equal(t, 3, df.Len())
	assert.Equal(t, 3, df.NColumns())
	assert.Equal(t, []string{"name", "age", "salary"}, df.Columns())
	assert.Equal(t, []int64{0, 1, 2}, df.Index())
}

func TestAddColumn(t *testing.T) {
	t.Run("length mismatch", func(t *testing.T) {
		df := New()
		require.NoError(t, df.AddColumn(series.New("a", []int64{1, 2, 3})))

		err := df.AddColumn(series.New("b", []int64{1, 2, 3, 4}))
		assert.ErrorIs(t, err, errors.ErrLengthMismatch)
		assert.Equal(t, 1, df.NColumns())
	})

	t.Run("unnamed columns are numbered", func(t *testing.T) {
		df := New()
		require.NoError(t, df.AddColumn(series.FromSlice([]int64{1})))
		require.NoError(t, df.AddColumn(series.FromSlice([]string{"x"})))
		assert.Equal(t, []string{"col_0", "col_1"}, df.Columns())
	})

	t.Run("duplicate name", func(t *testing.T) {
		df := createTestDataFrame(t)
		err := df.AddColumn(series.New("age", []int32{1, 2, 3}))
		assert.ErrorIs(t, err, errors.ErrValue)
	})

	t.Run("nil series", func(t *testing.T) {
		assert.ErrorIs(t, New().AddColumn(nil), errors.ErrValue)
	})

	t.Run("meta tracks columns", func(t *testing.T) {
		df := createTestDataFrame(t)
		meta := df.Meta()
		require.Len(t, meta, 3)
		assert.Equal(t, SeriesMeta{Name: "age", Len: 3, DType: dtype.Int64}, meta[1])
	})
}

func TestGetColumn(t *testing.T) {
	df := createTestDataFrame(t)

	ages, err := GetColumn[int64](df, "age")
	require.NoError(t, err)
	assert.Equal(t, []int64{25, 30, 35}, ages.Values())

	_, err = GetColumn[float64](df, "age")
	assert.ErrorIs(t, err, errors.ErrTypeMismatch)

	_, err = GetColumn[int64](df, "height")
	assert.ErrorIs(t, err, errors.ErrColumnNotFound)

	dt, err := df.DType("salary")
	require.NoError(t, err)
	assert.Equal(t, dtype.Float64, dt)

	_, err = df.DType("height")
	assert.ErrorIs(t, err, errors.ErrColumnNotFound)

	assert.Panics(t, func() { MustGetColumn[string](df, "age") })
}

func TestColumnView(t *testing.T) {
	df := createTestDataFrame(t)

	view, err := df.ColumnView("name")
	require.NoError(t, err)
	assert.Equal(t, dtype.Text, view.DType)
	require.NotNil(t, view.Text)
	assert.Nil(t, view.Int64)
	assert.Equal(t, "Bob", view.Text.At(1))
	assert.Equal(t, "name", view.Series().Name())

	_, err = df.ColumnView("missing")
	assert.ErrorIs(t, err, errors.ErrColumnNotFound)
}

func TestDropPositions(t *testing.T) {
	t.Run("drops from every column and the index", func(t *testing.T) {
		df := createTestDataFrame(t)
		require.NoError(t, df.DropPositions([]int{1, 1}))

		assert.Equal(t, 2, df.Len())
		assert.Equal(t, []int64{0, 2}, df.Index())
		assert.Equal(t, []string{"Alice", "Charlie"}, MustGetColumn[string](df, "name").Values())
		assert.Equal(t, []float64{50000, 70000}, MustGetColumn[float64](df, "salary").Values())
		for _, m := range df.Meta() {
			assert.Equal(t, 2, m.Len)
		}
	})

	t.Run("invalid positions leave the frame untouched", func(t *testing.T) {
		df := createTestDataFrame(t)
		err := df.DropPositions([]int{0, 7})
		assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)

		assert.Equal(t, 3, df.Len())
		assert.Equal(t, []int64{25, 30, 35}, MustGetColumn[int64](df, "age").Values())
		assert.Equal(t, []int64{0, 1, 2}, df.Index())
	})
}

func TestDropIndexes(t *testing.T) {
	df := createTestDataFrame(t)
	require.NoError(t, df.DropPositions([]int{0}))

	require.NoError(t, df.DropIndexes([]int64{2}))
	assert.Equal(t, []int64{1}, df.Index())
	assert.Equal(t, []string{"Bob"}, MustGetColumn[string](df, "name").Values())

	err := df.DropIndexes([]int64{0})
	assert.ErrorIs(t, err, errors.ErrValue)
}

func TestSelectAndDropColumn(t *testing.T) {
	df := createTestDataFrame(t)

	selected, err := df.Select("salary", "name")
	require.NoError(t, err)
	assert.Equal(t, []string{"salary", "name"}, selected.Columns())
	assert.Equal(t, 3, selected.Len())

	_, err = df.Select("missing")
	assert.ErrorIs(t, err, errors.ErrColumnNotFound)

	// rows dropped from the selection stay in the source frame
	require.NoError(t, selected.DropPositions([]int{0}))
	assert.Equal(t, []float64{60000, 70000}, MustGetColumn[float64](selected, "salary").Values())
	assert.Equal(t, 3, df.Len())
	assert.Equal(t, []float64{50000, 60000, 70000}, MustGetColumn[float64](df, "salary").Values())
	for _, m := range df.Meta() {
		assert.Equal(t, 3, m.Len)
	}
	assert.Contains(t, df.String(), "Alice")

	require.NoError(t, df.DropColumn("age"))
	assert.Equal(t, []string{"name", "salary"}, df.Columns())
	assert.False(t, df.HasColumn("age"))
	assert.ErrorIs(t, df.DropColumn("age"), errors.ErrColumnNotFound)

	require.NoError(t, df.DropColumn("name"))
	require.NoError(t, df.DropColumn("salary"))
	assert.Equal(t, 0, df.Len())
}

func TestColumnResizedOutsideFrame(t *testing.T) {
	df := createTestDataFrame(t)

	age := MustGetColumn[int64](df, "age")
	require.NoError(t, age.DropPositions([]int{0}))

	err := df.DropPositions([]int{1})
	assert.ErrorIs(t, err, errors.ErrLengthMismatch)
	assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, MustGetColumn[string](df, "name").Values())

	_, err = df.Take([]int{0})
	assert.ErrorIs(t, err, errors.ErrLengthMismatch)
	_, err = df.Select("age")
	assert.ErrorIs(t, err, errors.ErrLengthMismatch)
	_, err = df.Row(2)
	assert.ErrorIs(t, err, errors.ErrLengthMismatch)
	_, err = df.GroupByColumn("name")
	assert.ErrorIs(t, err, errors.ErrLengthMismatch)
	_, err = df.EncodeSnapshot()
	assert.ErrorIs(t, err, errors.ErrLengthMismatch)
	assert.Contains(t, df.String(), "age")

	age.Append(40)
	require.NoError(t, df.DropPositions([]int{1}))
	assert.Equal(t, []int64{30, 40}, age.Values())
}

func TestTakeAndClone(t *testing.T) {
	df := createTestDataFrame(t)

	taken, err := df.Take([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 0}, taken.Index())
	assert.Equal(t, []int64{35, 25}, MustGetColumn[int64](taken, "age").Values())

	clone := df.Clone()
	require.NoError(t, MustGetColumn[int64](clone, "age").Set(0, 99))
	assert.Equal(t, int64(25), MustGetColumn[int64](df, "age").At(0))
}

func TestRows(t *testing.T) {
	df := createTestDataFrame(t)

	var names []string
	for pos, row := range df.Rows() {
		assert.Equal(t, pos, row.Position())
		d, err := row.Get("name")
		require.NoError(t, err)
		names = append(names, d.Text)
	}
	assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, names)

	row, err := df.Row(1)
	require.NoError(t, err)
	assert.Equal(t, 3, row.Len())
	assert.Equal(t, "Bob,30,60000", row.String())

	d, err := row.At(1)
	require.NoError(t, err)
	assert.Equal(t, series.DatumOf(int64(30)), d)

	values := row.Values()
	assert.Equal(t, dtype.Float64, values[2].DType)

	_, err = row.At(3)
	assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)
	_, err = row.Get("missing")
	assert.ErrorIs(t, err, errors.ErrColumnNotFound)
	_, err = df.Row(3)
	assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)

	count := 0
	for range df.Rows() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestLoc(t *testing.T) {
	df := createTestDataFrame(t)
	require.NoError(t, df.DropPositions([]int{0}))

	row, err := df.Loc(2)
	require.NoError(t, err)
	assert.Equal(t, 1, row.Position())
	assert.Equal(t, int64(2), row.Index())

	_, err = df.Loc(0)
	assert.ErrorIs(t, err, errors.ErrValue)
}

func TestString(t *testing.T) {
	df := createTestDataFrame(t)
	out := df.String()

	assert.Contains(t, out, "DataFrame[3x3]")
	assert.Contains(t, out, "age (int64)")
	assert.Contains(t, out, "Charlie")

	assert.Equal(t, "DataFrame[0x0]\n", New().String())
}

func TestSnapshot(t *testing.T) {
	df := createTestDataFrame(t)
	require.NoError(t, df.DropPositions([]int{1}))

	data, err := df.EncodeSnapshot()
	require.NoError(t, err)

	restored, err := DecodeSnapshot(data)
	require.NoError(t, err)

	assert.Equal(t, df.Columns(), restored.Columns())
	assert.Equal(t, df.Meta(), restored.Meta())
	assert.Equal(t, []int64{0, 2}, restored.Index())
	assert.Equal(t, []string{"Alice", "Charlie"}, MustGetColumn[string](restored, "name").Values())

	empty, err := New().EncodeSnapshot()
	require.NoError(t, err)
	restoredEmpty, err := DecodeSnapshot(empty)
	require.NoError(t, err)
	assert.Equal(t, 0, restoredEmpty.NColumns())

	_, err = DecodeSnapshot([]byte{0x01})
	assert.Error(t, err)
}
