// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Client metrics.
	MetricGets    = "stockroom_gets_total"
	MetricHits    = "stockroom_hits_total"
	MetricMisses  = "stockroom_misses_total"
	MetricSets    = "stockroom_sets_total"
	MetricDeletes = "stockroom_deletes_total"
	MetricClears  = "stockroom_clears_total"

	// File store metrics.
	MetricFlushes       = "stockroom_flushes_total"
	MetricFlushErrors   = "stockroom_flush_errors_total"
	MetricFlushDuration = "stockroom_flush_duration_seconds"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
