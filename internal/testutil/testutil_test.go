package testutil_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/dtype"
	"github.com/paveg/tabula/internal/testutil"
)

func TestCreateTestDataFrame(t *testing.T) {
	t.Run("default configuration", func(t *testing.T) {
		df := testutil.CreateTestDataFrame(t)

		assert.Equal(t, 4, df.Len())
		testutil.AssertDataFrameHasColumns(t, df, []string{"name", "age", "department", "salary"})

		dt, err := df.DType("salary")
		require.NoError(t, err)
		assert.Equal(t, dtype.Float64, dt)
	})

	t.Run("with score column", func(t *testing.T) {
		df := testutil.CreateTestDataFrame(t, testutil.WithScoreColumn())
		assert.Equal(t, 5, df.NColumns())

		dt, err := df.DType("score")
		require.NoError(t, err)
		assert.Equal(t, dtype.Float32, dt)
	})

	t.Run("with custom row count", func(t *testing.T) {
		df := testutil.CreateTestDataFrame(t, testutil.WithRowCount(10))
		assert.Equal(t, 10, df.Len())
		assert.Equal(t, "Alice", dataframe.MustGetColumn[string](df, "name").At(8))
	})
}

type failRecorder struct {
	testing.TB
	failed bool
}

func (f *failRecorder) Errorf(string, ...any) {
	f.failed = true
}

func TestAssertDataFrameEqual(t *testing.T) {
	df := testutil.CreateTestDataFrame(t)
	testutil.AssertDataFrameEqual(t, df, df.Clone())

	rec := &failRecorder{TB: t}
	other := testutil.CreateTestDataFrame(t, testutil.WithRowCount(3))
	testutil.AssertDataFrameEqual(rec, df, other)
	assert.True(t, rec.failed)
}

func TestWriteTempFile(t *testing.T) {
	path := testutil.WriteTempFile(t, "x.csv", "a\n1\n")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(data))
}
