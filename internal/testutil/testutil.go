// Package testutil holds fixtures and assertions shared by the tabula tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/series"
)

const defaultRowCount = 4

// TestDataFrameOption configures CreateTestDataFrame
type TestDataFrameOption func(*testDataFrameConfig)

type testDataFrameConfig struct {
	rowCount  int
	withScore bool
}

// WithRowCount sets the number of rows. Values cycle through the base data.
func WithRowCount(count int) TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.rowCount = count
	}
}

// WithScoreColumn adds a float32 "score" column
func WithScoreColumn() TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.withScore = true
	}
}

// CreateTestDataFrame builds an employee table:
//
//	name (text), age (int64), department (text), salary (float64)
//
// Departments repeat so the frame can be grouped.
func CreateTestDataFrame(tb testing.TB, opts ...TestDataFrameOption) *dataframe.DataFrame {
	tb.Helper()

	cfg := &testDataFrameConfig{rowCount: defaultRowCount}
	for _, opt := range opts {
		opt(cfg)
	}

	columns := []dataframe.ISeries{
		series.New("name", cycle(cfg.rowCount, []string{"Alice", "Bob", "Charlie", "David", "Eve", "Frank", "Grace", "Henry"})),
		series.New("age", cycle(cfg.rowCount, []int64{25, 30, 35, 28, 32, 45, 29, 38})),
		series.New("department", cycle(cfg.rowCount, []string{"Engineering", "Sales", "Engineering", "Marketing", "HR", "Finance", "Engineering", "Sales"})),
		series.New("salary", cycle(cfg.rowCount, []float64{100000, 80000, 120000, 75000, 90000, 110000, 95000, 85000})),
	}
	if cfg.withScore {
		columns = append(columns, series.New("score", cycle(cfg.rowCount, []float32{4.5, 3.5, 5, 4, 2.5, 3, 4.5, 3.5})))
	}

	df, err := dataframe.FromColumns(columns...)
	require.NoError(tb, err)
	return df
}

func cycle[T any](count int, base []T) []T {
	out := make([]T, count)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out
}

// WriteTempFile writes content to name inside a fresh test directory and
// returns the full path.
func WriteTempFile(tb testing.TB, name, content string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	require.NoError(tb, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// AssertDataFrameEqual compares registry, index and the text form of every
// value.
func AssertDataFrameEqual(tb testing.TB, expected, actual *dataframe.DataFrame) {
	tb.Helper()

	require.NotNil(tb, expected, "expected DataFrame should not be nil")
	require.NotNil(tb, actual, "actual DataFrame should not be nil")

	assert.Equal(tb, expected.Meta(), actual.Meta(), "column registries differ")
	assert.Equal(tb, expected.Index(), actual.Index(), "row indexes differ")

	for _, name := range expected.Columns() {
		want, err := expected.Column(name)
		require.NoError(tb, err)
		got, err := actual.Column(name)
		require.NoError(tb, err, "column %s missing", name)
		assert.Equal(tb, want.Strings(), got.Strings(), "column %s values differ", name)
	}
}

// AssertDataFrameHasColumns checks the column names in order
func AssertDataFrameHasColumns(tb testing.TB, df *dataframe.DataFrame, expected []string) {
	tb.Helper()
	require.NotNil(tb, df, "DataFrame should not be nil")
	assert.Equal(tb, expected, df.Columns())
}
