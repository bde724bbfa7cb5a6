// Package metrics provides performance instrumentation for soroban.
//
// Timing metrics cover the hot paths (engine apply, board render, snapshot
// export, config load); counters track gesture outcomes and completions.
// Metrics are collected in-memory with atomic operations for thread-safety.
// Collection is enabled by default but can be disabled via SOROBAN_METRICS=0.
//
// Usage:
//
//	func render() string {
//	    defer metrics.Timer(metrics.Render)()
//	    // ... render code
//	}
package metrics

import (
	"os"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("SOROBAN_METRICS") != "0")
}

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled allows programmatic control of metrics collection.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// TimingMetric tracks timing statistics for a named operation.
// All methods are thread-safe using atomic operations.
type TimingMetric struct {
	name    string
	count   int64
	totalNs int64
	maxNs   int64
	minNs   int64 // 0 means not set
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record records a single timing measurement.
func (m *TimingMetric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()

	atomic.AddInt64(&m.count, 1)
	atomic.AddInt64(&m.totalNs, ns)

	for {
		old := atomic.LoadInt64(&m.maxNs)
		if ns <= old || atomic.CompareAndSwapInt64(&m.maxNs, old, ns) {
			break
		}
	}

	for {
		old := atomic.LoadInt64(&m.minNs)
		if old != 0 && ns >= old {
			break
		}
		if atomic.CompareAndSwapInt64(&m.minNs, old, ns) {
			break
		}
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string {
	return m.name
}

// Count returns the number of recorded measurements.
func (m *TimingMetric) Count() int64 {
	return atomic.LoadInt64(&m.count)
}

// Stats returns all timing statistics at once.
func (m *TimingMetric) Stats() TimingStats {
	count := atomic.LoadInt64(&m.count)
	totalNs := atomic.LoadInt64(&m.totalNs)
	maxNs := atomic.LoadInt64(&m.maxNs)
	minNs := atomic.LoadInt64(&m.minNs)

	var avgNs int64
	if count > 0 {
		avgNs = totalNs / count
	}

	return TimingStats{
		Name:    m.name,
		Count:   count,
		TotalMs: float64(totalNs) / 1e6,
		AvgMs:   float64(avgNs) / 1e6,
		MaxMs:   float64(maxNs) / 1e6,
		MinMs:   float64(minNs) / 1e6,
	}
}

// Reset clears all recorded measurements.
func (m *TimingMetric) Reset() {
	atomic.StoreInt64(&m.count, 0)
	atomic.StoreInt64(&m.totalNs, 0)
	atomic.StoreInt64(&m.maxNs, 0)
	atomic.StoreInt64(&m.minNs, 0)
}

// TimingStats holds a snapshot of timing statistics.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer returns a function that records elapsed time when called.
//
//	defer metrics.Timer(metrics.EngineApply)()
func Timer(m *TimingMetric) func() {
	if !Enabled() || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.Record(time.Since(start))
	}
}

// Counter is a monotonically increasing event count.
type Counter struct {
	name string
	n    atomic.Int64
}

// Inc adds one.
func (c *Counter) Inc() {
	if Enabled() {
		c.n.Add(1)
	}
}

// Value returns the current count.
func (c *Counter) Value() int64 { return c.n.Load() }

// Name returns the counter name.
func (c *Counter) Name() string { return c.name }

// Reset sets the count to zero.
func (c *Counter) Reset() { c.n.Store(0) }

// Global timing metrics.
var (
	EngineApply = newTimingMetric("engine_apply")
	Render      = newTimingMetric("ui_render")
	Export      = newTimingMetric("snapshot_export")
	ConfigLoad  = newTimingMetric("config_load")
)

// Global counters.
var (
	Taps             = &Counter{name: "gesture_taps"}
	Drags            = &Counter{name: "gesture_drags"}
	Completions      = &Counter{name: "completions_fired"}
	StaleCompletions = &Counter{name: "completions_dropped"}
)

// AllTimingMetrics returns all registered timing metrics.
func AllTimingMetrics() []*TimingMetric {
	return []*TimingMetric{EngineApply, Render, Export, ConfigLoad}
}

// AllCounters returns all registered counters.
func AllCounters() []*Counter {
	return []*Counter{Taps, Drags, Completions, StaleCompletions}
}

// ResetAll resets every metric and counter.
func ResetAll() {
	for _, m := range AllTimingMetrics() {
		m.Reset()
	}
	for _, c := range AllCounters() {
		c.Reset()
	}
}

// AllTimingStats returns stats for all timing metrics that have data.
func AllTimingStats() []TimingStats {
	metrics := AllTimingMetrics()
	stats := make([]TimingStats, 0, len(metrics))
	for _, m := range metrics {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}

// Report is the JSON shape printed by --robot-metrics.
type Report struct {
	Timings  []TimingStats    `json:"timings"`
	Counters map[string]int64 `json:"counters"`
}

// Snapshot collects every metric into a Report.
func Snapshot() Report {
	r := Report{
		Timings:  AllTimingStats(),
		Counters: make(map[string]int64, len(AllCounters())),
	}
	for _, c := range AllCounters() {
		r.Counters[c.Name()] = c.Value()
	}
	return r
}
