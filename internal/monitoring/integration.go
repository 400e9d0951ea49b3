package monitoring

import (
	"sync"

	"github.com/paveg/tabula/internal/config"
)

//nolint:gochecknoglobals // process-wide collector used by the io and groupby paths
var (
	globalCollector *MetricsCollector
	globalMutex     sync.RWMutex
)

// SetGlobalCollector installs the collector used by the Record* helpers.
// nil turns recording off.
func SetGlobalCollector(collector *MetricsCollector) {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	globalCollector = collector
}

// GetGlobalCollector returns the installed collector, or nil.
func GetGlobalCollector() *MetricsCollector {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return globalCollector
}

// ConfigureFromConfig installs an in-memory collector when
// cfg.MetricsCollection is set and removes it otherwise.
func ConfigureFromConfig(cfg config.Config) {
	if cfg.MetricsCollection {
		if GetGlobalCollector() == nil {
			SetGlobalCollector(NewMetricsCollector(true))
		}
		return
	}
	SetGlobalCollector(nil)
}

// RecordGlobalOperation runs fn under the global collector, if any.
func RecordGlobalOperation(operation string, fn func() error) error {
	collector := GetGlobalCollector()
	if collector == nil {
		return fn()
	}
	return collector.RecordOperation(operation, fn)
}

// RecordGlobalRows runs fn under the global collector, if any, recording the
// row count fn reports.
func RecordGlobalRows(operation string, fn func() (int, error)) error {
	collector := GetGlobalCollector()
	if collector == nil {
		_, err := fn()
		return err
	}
	return collector.RecordRows(operation, fn)
}

// IsGlobalMonitoringEnabled reports whether a global collector is recording.
func IsGlobalMonitoringEnabled() bool {
	collector := GetGlobalCollector()
	return collector != nil && collector.IsEnabled()
}

// GetGlobalMetrics returns the records of the global collector.
func GetGlobalMetrics() []OperationMetrics {
	collector := GetGlobalCollector()
	if collector == nil {
		return []OperationMetrics{}
	}
	return collector.GetMetrics()
}

// GetGlobalSummary summarizes the global collector.
func GetGlobalSummary() MetricsSummary {
	collector := GetGlobalCollector()
	if collector == nil {
		return MetricsSummary{}
	}
	return collector.GetSummary()
}
