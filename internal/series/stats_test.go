package series_test

import (
	"testing"

	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/dtype"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesStats(t *testing.T) {
	s := series.Arange[int64](0, 101)

	mean, err := s.Mean()
	require.NoError(t, err)
	assert.InDelta(t, 50.0, mean, 1e-12)

	median, err := s.Median()
	require.NoError(t, err)
	assert.InDelta(t, 50.0, median, 1e-12)

	q, err := s.Quantile(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, q, 1e-12)

	_, err = s.Quantile(1.01)
	assert.ErrorIs(t, err, errors.ErrValue)

	lo, err := s.Min()
	require.NoError(t, err)
	assert.Equal(t, int64(0), lo)

	hi, err := s.ArgMax()
	require.NoError(t, err)
	assert.Equal(t, 100, hi)

	approx, err := s.ApproxQuantile(0.5, 0.01)
	require.NoError(t, err)
	assert.InEpsilon(t, 50.0, approx, 0.02)
}

func TestApproxQuantileUsesConfiguredAccuracy(t *testing.T) {
	original := config.GetGlobalConfig()
	defer config.SetGlobalConfig(original)

	s := series.Arange[float64](1, 1001)

	cfg := config.NewConfig()
	cfg.SketchAccuracy = 0.5
	config.SetGlobalConfig(cfg)

	configured, err := s.ApproxQuantile(0.5, 0)
	require.NoError(t, err)
	explicit, err := s.ApproxQuantile(0.5, 0.5)
	require.NoError(t, err)
	assert.Equal(t, explicit, configured)

	precise, err := s.ApproxQuantile(0.5, 0.001)
	require.NoError(t, err)
	assert.InEpsilon(t, 500.5, precise, 0.002)
	assert.NotEqual(t, precise, configured)
}

func TestSeriesVariance(t *testing.T) {
	constant := series.New("c", []float64{2, 2, 2})
	v, err := constant.Var(0)
	require.NoError(t, err)
	assert.Zero(t, v)

	single := series.New("one", []float64{5})
	_, err = single.Var(1)
	assert.ErrorIs(t, err, errors.ErrValue)

	std, err := series.New("x", []int32{2, 4, 4, 4, 5, 5, 7, 9}).Std(0)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, std, 1e-12)
}

func TestSeriesMode(t *testing.T) {
	s := series.New("m", []int64{0, 0, 0, 1, 1, 1, 2})
	modes, err := s.Mode()
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1}, modes.Values())

	text, err := series.New("t", []string{"b", "a", "b"}).Mode()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, text.Values())
}

func TestEmptySeriesStats(t *testing.T) {
	s := series.New[float64]("empty", nil)

	_, err := s.Sum()
	assert.ErrorIs(t, err, errors.ErrEmptyInput)
	_, err = s.Mean()
	assert.ErrorIs(t, err, errors.ErrEmptyInput)
	_, err = s.Max()
	assert.ErrorIs(t, err, errors.ErrEmptyInput)

	var dfErr *errors.DataFrameError
	require.ErrorAs(t, err, &dfErr)
	assert.Equal(t, "empty", dfErr.Column)
}

func TestTextStats(t *testing.T) {
	s := series.New("names", []string{"pear", "apple"})

	_, err := s.Sum()
	assert.ErrorIs(t, err, errors.ErrValue)
	_, err = s.Mean()
	assert.ErrorIs(t, err, errors.ErrValue)

	lo, err := s.Min()
	require.NoError(t, err)
	assert.Equal(t, "apple", lo)
}

func TestAggregate(t *testing.T) {
	s := series.New("x", []int32{1, 2, 3, 4})

	tests := []struct {
		agg      series.Aggregation
		expected series.Datum
	}{
		{series.Aggregation{Op: series.OpSum}, series.DatumOf(int32(10))},
		{series.Aggregation{Op: series.OpMin}, series.DatumOf(int32(1))},
		{series.Aggregation{Op: series.OpCount}, series.DatumOf(int64(4))},
		{series.Aggregation{Op: series.OpMean}, series.DatumOf(2.5)},
		{series.Aggregation{Op: series.OpQuantile, Q: 1}, series.DatumOf(4.0)},
	}

	for _, tt := range tests {
		t.Run(tt.agg.Op.String(), func(t *testing.T) {
			d, err := s.Aggregate(tt.agg)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
			assert.Equal(t, tt.agg.ResultDType(dtype.Int32), d.DType)
		})
	}
}

func TestParseAggOp(t *testing.T) {
	for _, name := range []string{"sum", "mean", "min", "max", "var", "std", "median", "quantile", "count"} {
		op, err := series.ParseAggOp(name)
		require.NoError(t, err)
		assert.Equal(t, name, op.String())
	}

	_, err := series.ParseAggOp("product")
	assert.ErrorIs(t, err, errors.ErrValue)
}
