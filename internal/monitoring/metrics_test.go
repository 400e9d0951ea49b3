//nolint:testpackage // requires internal access to unexported types and functions
package monitoring

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollector(t *testing.T) {
	t.Run("disabled collector only runs the operation", func(t *testing.T) {
		collector := NewMetricsCollector(false)

		calls := 0
		err := collector.RecordOperation("test", func() error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Empty(t, collector.GetMetrics())
	})

	t.Run("enabled collector records duration", func(t *testing.T) {
		collector := NewMetricsCollector(true)

		err := collector.RecordOperation("read_csv", func() error {
			time.Sleep(5 * time.Millisecond)
			return nil
		})
		require.NoError(t, err)

		metrics := collector.GetMetrics()
		require.Len(t, metrics, 1)
		assert.Equal(t, "read_csv", metrics[0].Operation)
		assert.GreaterOrEqual(t, metrics[0].Duration, 5*time.Millisecond)
		assert.False(t, metrics[0].Failed)
	})

	t.Run("rows are recorded", func(t *testing.T) {
		collector := NewMetricsCollector(true)

		err := collector.RecordRows("write_csv", func() (int, error) {
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, int64(42), collector.GetMetrics()[0].RowsProcessed)
	})

	t.Run("failures are recorded and returned", func(t *testing.T) {
		collector := NewMetricsCollector(true)

		err := collector.RecordOperation("broken", func() error {
			return assert.AnError
		})
		assert.Equal(t, assert.AnError, err)

		metrics := collector.GetMetrics()
		require.Len(t, metrics, 1)
		assert.True(t, metrics[0].Failed)
	})

	t.Run("clear", func(t *testing.T) {
		collector := NewMetricsCollector(true)
		require.NoError(t, collector.RecordOperation("op", func() error { return nil }))

		collector.Clear()
		assert.Empty(t, collector.GetMetrics())
		assert.Equal(t, MetricsSummary{}, collector.GetSummary())
	})
}

func TestMetricsSummary(t *testing.T) {
	collector := NewMetricsCollector(true)

	ops := []struct {
		name string
		rows int
		err  error
	}{
		{"read_csv", 10, nil},
		{"read_csv", 20, nil},
		{"groupby", 5, assert.AnError},
	}
	for _, op := range ops {
		_ = collector.RecordRows(op.name, func() (int, error) {
			return op.rows, op.err
		})
	}

	summary := collector.GetSummary()
	assert.Equal(t, 3, summary.TotalOperations)
	assert.Equal(t, 1, summary.FailedOps)
	assert.Equal(t, int64(35), summary.TotalRows)
	assert.Equal(t, map[string]int{"read_csv": 2, "groupby": 1}, summary.OperationCounts)
	assert.Equal(t, summary.TotalDuration/3, summary.AverageDuration)
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewPrometheusCollector(reg)
	require.NoError(t, err)

	require.NoError(t, collector.RecordRows("read_csv", func() (int, error) { return 3, nil }))
	require.NoError(t, collector.RecordRows("read_csv", func() (int, error) { return 4, nil }))
	_ = collector.RecordOperation("read_csv", func() error { return assert.AnError })

	families, err := reg.Gather()
	require.NoError(t, err)

	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
		switch mf.GetName() {
		case "tabula_rows_processed_total":
			require.Len(t, mf.GetMetric(), 1)
			assert.InDelta(t, 7.0, mf.GetMetric()[0].GetCounter().GetValue(), 1e-9)
		case "tabula_operation_duration_seconds":
			// one series per status label
			require.Len(t, mf.GetMetric(), 2)
			var total uint64
			for _, m := range mf.GetMetric() {
				total += m.GetHistogram().GetSampleCount()
			}
			assert.Equal(t, uint64(3), total)
		}
	}
	assert.True(t, found["tabula_rows_processed_total"])
	assert.True(t, found["tabula_operation_duration_seconds"])

	_, err = NewPrometheusCollector(reg)
	assert.Error(t, err, "collectors cannot be registered twice")
}

func TestMetricsCollectorConcurrency(t *testing.T) {
	collector := NewMetricsCollector(true)

	const n = 20
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, collector.RecordRows("concurrent", func() (int, error) {
				return 1, nil
			}))
		}()
	}
	wg.Wait()

	assert.Len(t, collector.GetMetrics(), n)
	assert.Equal(t, int64(n), collector.GetSummary().TotalRows)
}
