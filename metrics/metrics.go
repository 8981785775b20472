// Package metrics collects per-run counters for the publisher. A one-shot run has no
// scrape endpoint so the registry is written out as a node-exporter textfile instead.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "jsonbin_sheets"

type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	rows     *prometheus.CounterVec
	duration prometheus.Gauge
	success  prometheus.Gauge
	finished prometheus.Gauge
}

func New() *Metrics {
	m := Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Remote API requests issued, by API and operation",
		}, []string{"api", "op"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Data rows written to spreadsheet tabs",
		}, []string{"tab"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last run",
		}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run completed, 0 if it failed",
		}),
		finished: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}

	m.registry.MustRegister(m.requests, m.rows, m.duration, m.success, m.finished)

	return &m
}

// Request counts one remote call. A nil *Metrics is a no-op so components can be used
// without metrics.
func (m *Metrics) Request(api, op string) {
	if m != nil {
		m.requests.WithLabelValues(api, op).Inc()
	}
}

func (m *Metrics) Rows(tab string, n int) {
	if m != nil && n > 0 {
		m.rows.WithLabelValues(tab).Add(float64(n))
	}
}

// Finish records the outcome of a run started at start.
func (m *Metrics) Finish(start time.Time, err error) {
	if m == nil {
		return
	}

	now := time.Now()

	m.duration.Set(now.Sub(start).Seconds())
	m.finished.Set(float64(now.Unix()))

	if err != nil {
		m.success.Set(0)
	} else {
		m.success.Set(1)
	}
}

// Gatherer returns the private registry the run's metrics are collected in.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the registry in the text exposition format, atomically replacing file.
func (m *Metrics) WriteTextfile(file string) error {
	if m == nil || file == "" {
		return nil
	}

	return prometheus.WriteToTextfile(file, m.Gatherer())
}
