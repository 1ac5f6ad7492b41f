// Package telemetry records run statistics in a private Prometheus registry.
// A batch run has no scrape window, so the registry is written to a textfile
// for the node_exporter textfile collector.
package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name
const Namespace = "graphmetrics"

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// ErrWriteFailed is returned when the textfile cannot be written
var ErrWriteFailed = errors.New("writing metrics textfile failed")

// Metrics holds the run metrics
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Records         *prometheus.CounterVec
	StageDuration   *prometheus.GaugeVec
	StageFailures   *prometheus.CounterVec
	LastRun         prometheus.Gauge

	registry *prometheus.Registry
}

// New creates the metrics and registers them in a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.Requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "graphql_requests_total",
			Help:      "GraphQL requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	m.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "graphql_request_duration_seconds",
			Help:      "GraphQL request latency",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"operation"},
	)

	m.Records = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "records_total",
			Help:      "Records aggregated by stage",
		},
		[]string{"stage"},
	)

	m.StageDuration = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of the last run of each stage",
		},
		[]string{"stage"},
	)

	m.StageFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "stage_failures_total",
			Help:      "Stages that finished with degraded results",
		},
		[]string{"stage"},
	)

	m.LastRun = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last report was generated",
		},
	)

	m.registry.MustRegister(
		m.Requests,
		m.RequestDuration,
		m.Records,
		m.StageDuration,
		m.StageFailures,
		m.LastRun,
	)

	return m
}

// ObserveRequest records one GraphQL request. Its signature matches graphql.Observer.
func (m *Metrics) ObserveRequest(operation string, err error, elapsed time.Duration) {
	if operation == "" {
		operation = "unnamed"
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.Requests.WithLabelValues(operation, outcome).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveStage records a finished stage
func (m *Metrics) ObserveStage(stage string, records int, elapsed time.Duration) {
	m.Records.WithLabelValues(stage).Add(float64(records))
	m.StageDuration.WithLabelValues(stage).Set(elapsed.Seconds())
}

// ObserveFailure records a degraded stage
func (m *Metrics) ObserveFailure(stage string) {
	m.StageFailures.WithLabelValues(stage).Inc()
}

// ObserveRun records the report generation time
func (m *Metrics) ObserveRun(at time.Time) {
	m.LastRun.Set(float64(at.Unix()))
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the registry in text exposition format. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}
