// Package progress ships the built-in host.ProgressTracker implementations:
// a console writer and a Prometheus collector for hosts that already expose a
// metrics endpoint.
package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-gridsweep/pkg/host"
)

// ConsoleTracker prints coarse progress lines to a writer.
type ConsoleTracker struct {
	mu  sync.Mutex
	out io.Writer
}

var _ host.ProgressTracker = (*ConsoleTracker)(nil)

// NewConsoleTracker writes progress to out.
func NewConsoleTracker(out io.Writer) *ConsoleTracker {
	return &ConsoleTracker{out: out}
}

// SetTotalWork announces the expected diffusion step total.
func (t *ConsoleTracker) SetTotalWork(totalSteps int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "expecting %d total steps\n", totalSteps)
}

// ReportProgress prints the running cell counter.
func (t *ConsoleTracker) ReportProgress(current, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%d out of %d\n", current, total)
}

// MetricsTracker exposes sweep progress as Prometheus metrics. Cell failures
// are counted by the driver through RecordFailure even though they stay
// invisible in the sweep result.
type MetricsTracker struct {
	cells     prometheus.Counter
	failures  prometheus.Counter
	totalWork prometheus.Gauge
}

var _ host.ProgressTracker = (*MetricsTracker)(nil)

// NewMetricsTracker builds the tracker and registers its collectors. Pass a
// custom registerer or nil for the default registry.
func NewMetricsTracker(reg prometheus.Registerer) (*MetricsTracker, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	t := &MetricsTracker{
		cells: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gridsweep_cells_total",
			Help: "Cells rendered (or masked with a placeholder) across sweeps.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gridsweep_cell_failures_total",
			Help: "Cells whose render failed and were replaced by a placeholder.",
		}),
		totalWork: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridsweep_expected_steps",
			Help: "Expected diffusion steps of the current sweep.",
		}),
	}
	for _, c := range []prometheus.Collector{t.cells, t.failures, t.totalWork} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("progress: register collector: %w", err)
		}
	}
	return t, nil
}

// SetTotalWork records the expected diffusion step total.
func (t *MetricsTracker) SetTotalWork(totalSteps int64) {
	t.totalWork.Set(float64(totalSteps))
}

// ReportProgress counts one more cell about to render.
func (t *MetricsTracker) ReportProgress(current, total int) {
	t.cells.Inc()
}

// RecordFailure counts a masked cell failure.
func (t *MetricsTracker) RecordFailure() {
	t.failures.Inc()
}

// NopTracker discards all progress.
type NopTracker struct{}

var _ host.ProgressTracker = NopTracker{}

func (NopTracker) SetTotalWork(int64)      {}
func (NopTracker) ReportProgress(int, int) {}
