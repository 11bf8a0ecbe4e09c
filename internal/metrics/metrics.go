// Package metrics exposes aggregation counters to Prometheus.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"excel-aggregator/internal/pipeline"
)

// Run outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds the collectors of one process on a private registry
type Metrics struct {
	registry *prometheus.Registry

	runs        *prometheus.CounterVec
	runDuration prometheus.Histogram
	stageTime   *prometheus.HistogramVec
	rowsIn      prometheus.Counter
	groupsOut   prometheus.Histogram
	degraded    prometheus.Counter
	uploads     *prometheus.CounterVec
	cleaned     prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aggregator",
			Name:      "runs_total",
			Help:      "Aggregation runs by outcome.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aggregator",
			Name:      "run_duration_seconds",
			Help:      "Wall time of successful aggregation runs.",
			Buckets:   prometheus.DefBuckets,
		}),
		stageTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aggregator",
			Name:      "stage_duration_seconds",
			Help:      "Wall time per pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		rowsIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aggregator",
			Name:      "rows_processed_total",
			Help:      "Input rows read by aggregation runs.",
		}),
		groupsOut: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aggregator",
			Name:      "groups_per_run",
			Help:      "Number of groups produced per run.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		degraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aggregator",
			Name:      "coerced_missing_cells_total",
			Help:      "Cells that became missing during numeric coercion.",
		}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aggregator",
			Name:      "uploads_total",
			Help:      "Stored uploads by source.",
		}, []string{"source"}),
		cleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aggregator",
			Name:      "uploads_expired_total",
			Help:      "Uploads removed by retention cleanup.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.runs, m.runDuration, m.stageTime, m.rowsIn, m.groupsOut, m.degraded, m.uploads, m.cleaned,
	)
	return m
}

// ObserveRun records the outcome of a pipeline.Run call. Plan errors count
// as rejected, anything else as error.
func (m *Metrics) ObserveRun(report *pipeline.RunReport, err error) {
	switch {
	case err == nil:
		m.runs.WithLabelValues(OutcomeSuccess).Inc()
	case IsRejection(err):
		m.runs.WithLabelValues(OutcomeRejected).Inc()
	default:
		m.runs.WithLabelValues(OutcomeError).Inc()
	}
	if report == nil {
		return
	}
	for _, s := range report.Stages {
		m.stageTime.WithLabelValues(s.Stage).Observe(s.Duration.Seconds())
	}
	if err != nil {
		return
	}
	m.runDuration.Observe(report.Duration.Seconds())
	m.rowsIn.Add(float64(report.Rows))
	m.groupsOut.Observe(float64(report.Groups))
	m.degraded.Add(float64(report.Coercion.Degraded))
}

// ObserveUpload counts a stored upload; source is "file" or "paste"
func (m *Metrics) ObserveUpload(source string) {
	m.uploads.WithLabelValues(source).Inc()
}

// ObserveCleanup counts uploads removed by retention cleanup
func (m *Metrics) ObserveCleanup(removed int) {
	m.cleaned.Add(float64(removed))
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// IsRejection reports whether err is a plan error caused by user input
func IsRejection(err error) bool {
	return errors.Is(err, pipeline.ErrInvalidSelection) ||
		errors.Is(err, pipeline.ErrMissingOperation) ||
		errors.Is(err, pipeline.ErrInvalidOperation) ||
		errors.Is(err, pipeline.ErrUnknownColumns) ||
		errors.Is(err, pipeline.ErrColumnRoleConflict)
}
