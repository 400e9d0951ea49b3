// Package monitoring records how long table operations take and how many rows
// they touch, in memory and optionally as Prometheus collectors.
package monitoring

import (
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// OperationMetrics is the record of one finished operation.
type OperationMetrics struct {
	Operation     string        `json:"operation"`
	Duration      time.Duration `json:"duration"`
	RowsProcessed int64         `json:"rows_processed"`
	MemoryUsed    int64         `json:"memory_used"`
	Failed        bool          `json:"failed"`
}

// MetricsCollector collects OperationMetrics. It is safe for concurrent use.
type MetricsCollector struct {
	mu      sync.RWMutex
	metrics []OperationMetrics
	enabled bool

	duration *prometheus.HistogramVec
	rows     *prometheus.CounterVec
}

// NewMetricsCollector creates an in-memory collector.
func NewMetricsCollector(enabled bool) *MetricsCollector {
	return &MetricsCollector{
		metrics: make([]OperationMetrics, 0),
		enabled: enabled,
	}
}

// NewPrometheusCollector creates an enabled collector that also exports
// tabula_operation_duration_seconds and tabula_rows_processed_total on reg.
func NewPrometheusCollector(reg prometheus.Registerer) (*MetricsCollector, error) {
	mc := NewMetricsCollector(true)
	mc.duration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tabula",
			Name:      "operation_duration_seconds",
			Help:      "Duration of table operations",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"operation", "status"},
	)
	mc.rows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tabula",
			Name:      "rows_processed_total",
			Help:      "Rows read, written or reduced by table operations",
		},
		[]string{"operation"},
	)

	for _, c := range []prometheus.Collector{mc.duration, mc.rows} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return mc, nil
}

// IsEnabled reports whether operations are being recorded.
func (mc *MetricsCollector) IsEnabled() bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.enabled
}

// SetEnabled toggles recording.
func (mc *MetricsCollector) SetEnabled(enabled bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.enabled = enabled
}

// RecordOperation runs fn and records its duration. The error of fn is
// returned unchanged.
func (mc *MetricsCollector) RecordOperation(operation string, fn func() error) error {
	return mc.RecordRows(operation, func() (int, error) {
		return 0, fn()
	})
}

// RecordRows runs fn and records its duration and the row count it reports.
// Failed operations are recorded too.
func (mc *MetricsCollector) RecordRows(operation string, fn func() (int, error)) error {
	if !mc.IsEnabled() {
		_, err := fn()
		return err
	}

	var before runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()

	rows, err := fn()

	elapsed := time.Since(start)
	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	m := OperationMetrics{
		Operation:     operation,
		Duration:      elapsed,
		RowsProcessed: int64(rows),
		MemoryUsed:    int64(after.TotalAlloc - before.TotalAlloc), //nolint:gosec // allocation deltas fit in int64
		Failed:        err != nil,
	}

	mc.mu.Lock()
	mc.metrics = append(mc.metrics, m)
	mc.mu.Unlock()

	if mc.duration != nil {
		status := statusSuccess
		if err != nil {
			status = statusError
		}
		mc.duration.WithLabelValues(operation, status).Observe(elapsed.Seconds())
		if rows > 0 {
			mc.rows.WithLabelValues(operation).Add(float64(rows))
		}
	}
	return err
}

// GetMetrics returns a copy of everything recorded so far.
func (mc *MetricsCollector) GetMetrics() []OperationMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	out := make([]OperationMetrics, len(mc.metrics))
	copy(out, mc.metrics)
	return out
}

// Clear drops the in-memory records. Prometheus collectors keep their values.
func (mc *MetricsCollector) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.metrics = mc.metrics[:0]
}

// MetricsSummary aggregates the recorded operations.
type MetricsSummary struct {
	TotalOperations int            `json:"total_operations"`
	FailedOps       int            `json:"failed_operations"`
	TotalDuration   time.Duration  `json:"total_duration"`
	AverageDuration time.Duration  `json:"average_duration"`
	TotalMemory     int64          `json:"total_memory"`
	TotalRows       int64          `json:"total_rows"`
	OperationCounts map[string]int `json:"operation_counts"`
}

// GetSummary totals the recorded operations.
func (mc *MetricsCollector) GetSummary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if len(mc.metrics) == 0 {
		return MetricsSummary{}
	}

	summary := MetricsSummary{
		TotalOperations: len(mc.metrics),
		OperationCounts: make(map[string]int),
	}
	for _, m := range mc.metrics {
		summary.TotalDuration += m.Duration
		summary.TotalMemory += m.MemoryUsed
		summary.TotalRows += m.RowsProcessed
		summary.OperationCounts[m.Operation]++
		if m.Failed {
			summary.FailedOps++
		}
	}
	summary.AverageDuration = summary.TotalDuration / time.Duration(len(mc.metrics))
	return summary
}
