package multigrid

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/multigrid/cycle"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordBuild is called after each hierarchy build. levels is the
	// resulting depth (0 on failure), duration the total build time, err
	// nil on success.
	RecordBuild(levels int, duration time.Duration, err error)

	// RecordSolve is called after each solve with the terminal status,
	// the number of cycles run and the total solve time. err is nil for
	// non-fatal outcomes.
	RecordSolve(status cycle.Status, iterations int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration, error)               {}
func (NoopMetricsCollector) RecordSolve(cycle.Status, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	BuildTotalNanos atomic.Int64

	SolveCount      atomic.Int64
	SolveErrors     atomic.Int64
	SolveConverged  atomic.Int64
	SolveIterations atomic.Int64
	SolveTotalNanos atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(levels int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordSolve implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSolve(status cycle.Status, iterations int, duration time.Duration, err error) {
	b.SolveCount.Add(1)
	b.SolveIterations.Add(int64(iterations))
	b.SolveTotalNanos.Add(duration.Nanoseconds())
	if status == cycle.StatusConverged {
		b.SolveConverged.Add(1)
	}
	if err != nil {
		b.SolveErrors.Add(1)
	}
}
