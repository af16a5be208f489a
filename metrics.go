package lighdb

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    addCounter    prometheus.Counter
//	    findHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordAdd(duration time.Duration, err error) {
//	    p.addCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordAdd is called after each Add.
	RecordAdd(duration time.Duration, err error)

	// RecordGet is called after each Get and GetByIndex.
	RecordGet(duration time.Duration, err error)

	// RecordUpdate is called after each Update and UpdateByIndex.
	RecordUpdate(duration time.Duration, err error)

	// RecordFind is called after each ID lookup (FindByID, FindAll and the
	// resolution step of Get and Update). windowLoads is the number of ID
	// table windows read from disk.
	RecordFind(matched, windowLoads int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(time.Duration, error)            {}
func (NoopMetricsCollector) RecordGet(time.Duration, error)            {}
func (NoopMetricsCollector) RecordUpdate(time.Duration, error)         {}
func (NoopMetricsCollector) RecordFind(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AddCount       atomic.Int64
	AddErrors      atomic.Int64
	AddTotalNanos  atomic.Int64
	GetCount       atomic.Int64
	GetErrors      atomic.Int64
	UpdateCount    atomic.Int64
	UpdateErrors   atomic.Int64
	FindCount      atomic.Int64
	FindErrors     atomic.Int64
	FindMatched    atomic.Int64
	FindTotalNanos atomic.Int64
	WindowLoads    atomic.Int64
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(duration time.Duration, err error) {
	b.AddCount.Add(1)
	b.AddTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AddErrors.Add(1)
	}
}

// RecordGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGet(duration time.Duration, err error) {
	b.GetCount.Add(1)
	if err != nil {
		b.GetErrors.Add(1)
	}
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(duration time.Duration, err error) {
	b.UpdateCount.Add(1)
	if err != nil {
		b.UpdateErrors.Add(1)
	}
}

// RecordFind implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFind(matched, windowLoads int, duration time.Duration, err error) {
	b.FindCount.Add(1)
	b.FindMatched.Add(int64(matched))
	b.WindowLoads.Add(int64(windowLoads))
	b.FindTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FindErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AddCount:     b.AddCount.Load(),
		AddErrors:    b.AddErrors.Load(),
		AddAvgNanos:  avg(b.AddTotalNanos.Load(), b.AddCount.Load()),
		GetCount:     b.GetCount.Load(),
		GetErrors:    b.GetErrors.Load(),
		UpdateCount:  b.UpdateCount.Load(),
		UpdateErrors: b.UpdateErrors.Load(),
		FindCount:    b.FindCount.Load(),
		FindErrors:   b.FindErrors.Load(),
		FindMatched:  b.FindMatched.Load(),
		FindAvgNanos: avg(b.FindTotalNanos.Load(), b.FindCount.Load()),
		WindowLoads:  b.WindowLoads.Load(),
	}
}

// Reset clears all metrics.
func (b *BasicMetricsCollector) Reset() {
	b.AddCount.Store(0)
	b.AddErrors.Store(0)
	b.AddTotalNanos.Store(0)
	b.GetCount.Store(0)
	b.GetErrors.Store(0)
	b.UpdateCount.Store(0)
	b.UpdateErrors.Store(0)
	b.FindCount.Store(0)
	b.FindErrors.Store(0)
	b.FindMatched.Store(0)
	b.FindTotalNanos.Store(0)
	b.WindowLoads.Store(0)
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of metrics.
type BasicMetricsStats struct {
	AddCount     int64
	AddErrors    int64
	AddAvgNanos  int64
	GetCount     int64
	GetErrors    int64
	UpdateCount  int64
	UpdateErrors int64
	FindCount    int64
	FindErrors   int64
	FindMatched  int64
	FindAvgNanos int64
	WindowLoads  int64
}
