// Package metrics records run and stage timings in a Prometheus registry
// and writes them as a node-exporter textfile after each run.
package metrics

import (
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds Prometheus collectors for vidmaker runs.
type Metrics struct {
	registry      *prometheus.Registry
	runsTotal     *prometheus.CounterVec
	stageFailures *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	lastRun       prometheus.Gauge
	lastSuccess   prometheus.Gauge
}

// New creates and registers the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	runsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vidmaker_runs_total",
		Help: "Pipeline runs by result",
	}, []string{"result"})
	stageFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vidmaker_stage_failures_total",
		Help: "Failed stage invocations by stage",
	}, []string{"stage"})
	stageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vidmaker_stage_duration_seconds",
		Help:    "Wall time of each stage",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	}, []string{"stage"})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vidmaker_last_run_duration_seconds",
		Help: "Wall time of the most recent run",
	})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vidmaker_last_success_timestamp_seconds",
		Help: "Unix time of the most recent successful run",
	})

	registry.MustRegister(runsTotal, stageFailures, stageDuration, lastRun, lastSuccess)

	return &Metrics{
		registry:      registry,
		runsTotal:     runsTotal,
		stageFailures: stageFailures,
		stageDuration: stageDuration,
		lastRun:       lastRun,
		lastSuccess:   lastSuccess,
	}
}

// ObserveStage records one stage invocation.
func (m *Metrics) ObserveStage(stage string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.stageFailures.WithLabelValues(stage).Inc()
	}
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(d time.Duration, err error) {
	m.lastRun.Set(d.Seconds())
	if err != nil {
		m.runsTotal.WithLabelValues(ResultFailure).Inc()
		return
	}
	m.runsTotal.WithLabelValues(ResultSuccess).Inc()
	m.lastSuccess.SetToCurrentTime()
}

// Registry exposes the underlying registry (tests, custom exporters).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile atomically writes all metrics to path in the text
// exposition format, creating the parent directory if needed.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
