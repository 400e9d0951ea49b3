package series_test

import (
	"math"
	"testing"

	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertFloatsEqual(t *testing.T, expected, actual []float64) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		if math.IsNaN(expected[i]) {
			assert.True(t, math.IsNaN(actual[i]), "position %d: expected NaN, got %v", i, actual[i])
			continue
		}
		assert.InDelta(t, expected[i], actual[i], 1e-9, "position %d", i)
	}
}

func TestRollingMean(t *testing.T) {
	s := series.Arange[int64](0, 6)
	r, err := s.Rolling(4)
	require.NoError(t, err)

	out, err := r.Mean()
	require.NoError(t, err)

	nan := math.NaN()
	assertFloatsEqual(t, []float64{nan, nan, nan, 1.5, 2.5, 3.5}, out.Values())
}

func TestRollingAggregations(t *testing.T) {
	s := series.New("x", []float64{4, 1, 3, 2})
	r, err := s.Rolling(2)
	require.NoError(t, err)
	nan := math.NaN()

	tests := []struct {
		name     string
		run      func() (*series.Series[float64], error)
		expected []float64
	}{
		{"sum", r.Sum, []float64{nan, 5, 4, 5}},
		{"min", r.Min, []float64{nan, 1, 1, 2}},
		{"max", r.Max, []float64{nan, 4, 3, 3}},
		{"median", r.Median, []float64{nan, 2.5, 2, 2.5}},
		{"var", func() (*series.Series[float64], error) { return r.Var(0) }, []float64{nan, 2.25, 1, 0.25}},
		{"std", func() (*series.Series[float64], error) { return r.Std(1) }, []float64{nan, math.Sqrt(4.5), math.Sqrt(2), math.Sqrt(0.5)}},
		{"quantile", func() (*series.Series[float64], error) { return r.Quantile(1) }, []float64{nan, 4, 3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.run()
			require.NoError(t, err)
			assertFloatsEqual(t, tt.expected, out.Values())
		})
	}
}

func TestRollingEdgeCases(t *testing.T) {
	s := series.New("x", []int32{1, 2, 3})

	t.Run("non-positive window", func(t *testing.T) {
		_, err := s.Rolling(0)
		assert.ErrorIs(t, err, errors.ErrValue)
	})

	t.Run("window longer than series", func(t *testing.T) {
		r, err := s.Rolling(5)
		require.NoError(t, err)
		out, err := r.Mean()
		require.NoError(t, err)
		require.Equal(t, 3, out.Len())
		for _, v := range out.Values() {
			assert.True(t, math.IsNaN(v))
		}
	})

	t.Run("window of one is identity", func(t *testing.T) {
		out, err := s.RollingAggregate(1, series.Aggregation{Op: series.OpMean})
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3}, out.Values())
	})

	t.Run("text input", func(t *testing.T) {
		r, err := series.New("t", []string{"a"}).Rolling(1)
		require.NoError(t, err)
		_, err = r.Mean()
		assert.ErrorIs(t, err, errors.ErrValue)
	})

	t.Run("ddof not below window", func(t *testing.T) {
		r, err := s.Rolling(2)
		require.NoError(t, err)
		_, err = r.Var(2)
		assert.ErrorIs(t, err, errors.ErrValue)
	})

	t.Run("quantile out of range", func(t *testing.T) {
		r, err := s.Rolling(2)
		require.NoError(t, err)
		_, err = r.Quantile(-1)
		assert.ErrorIs(t, err, errors.ErrValue)
	})
}

func TestRollingApplyParallel(t *testing.T) {
	original := config.GetGlobalConfig()
	defer config.SetGlobalConfig(original)

	cfg := config.NewConfig()
	cfg.ParallelThreshold = 10
	cfg.ChunkSize = 7
	config.SetGlobalConfig(cfg)

	s := series.Arange[float64](0, 200)
	r, err := s.Rolling(3)
	require.NoError(t, err)

	out, err := r.Apply(func(w []float64) (float64, error) { return w[len(w)-1] - w[0], nil })
	require.NoError(t, err)
	require.Equal(t, 200, out.Len())
	assert.True(t, math.IsNaN(out.At(1)))
	for i := 2; i < 200; i++ {
		require.Equal(t, 2.0, out.At(i))
	}
}
