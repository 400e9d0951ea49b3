//nolint:testpackage // requires internal access to unexported types and functions
package monitoring

import (
	"testing"

	"github.com/paveg/tabula/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalCollector(t *testing.T) {
	defer SetGlobalCollector(nil)

	t.Run("no collector", func(t *testing.T) {
		SetGlobalCollector(nil)
		assert.False(t, IsGlobalMonitoringEnabled())

		called := false
		err := RecordGlobalOperation("test", func() error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, called)
		assert.Empty(t, GetGlobalMetrics())
		assert.Equal(t, MetricsSummary{}, GetGlobalSummary())
	})

	t.Run("rows through the global collector", func(t *testing.T) {
		SetGlobalCollector(NewMetricsCollector(true))
		assert.True(t, IsGlobalMonitoringEnabled())

		err := RecordGlobalRows("read_csv", func() (int, error) { return 8, nil })
		require.NoError(t, err)

		metrics := GetGlobalMetrics()
		require.Len(t, metrics, 1)
		assert.Equal(t, int64(8), metrics[0].RowsProcessed)
		assert.Equal(t, 1, GetGlobalSummary().TotalOperations)
	})

	t.Run("errors pass through", func(t *testing.T) {
		SetGlobalCollector(nil)
		err := RecordGlobalRows("read_csv", func() (int, error) { return 0, assert.AnError })
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestConfigureFromConfig(t *testing.T) {
	defer SetGlobalCollector(nil)

	cfg := config.NewConfig()
	cfg.MetricsCollection = true
	ConfigureFromConfig(cfg)
	require.NotNil(t, GetGlobalCollector())
	assert.True(t, IsGlobalMonitoringEnabled())

	installed := GetGlobalCollector()
	ConfigureFromConfig(cfg)
	assert.Same(t, installed, GetGlobalCollector())

	cfg.MetricsCollection = false
	ConfigureFromConfig(cfg)
	assert.Nil(t, GetGlobalCollector())
}
