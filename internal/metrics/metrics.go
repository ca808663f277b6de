// Package metrics exposes Prometheus collectors for registry operations and
// background jobs. A short-lived CLI cannot be scraped, so the collectors are
// flushed to a node-exporter textfile instead.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors and the registry they are registered on.
type Metrics struct {
	registry    *prometheus.Registry
	operations  *prometheus.CounterVec
	jobRuns     *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	customers   *prometheus.GaugeVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetdesk_operations_total",
		Help: "Registry operations partitioned by operation and outcome kind.",
	}, []string{"operation", "outcome"})
	jobRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetdesk_jobs_total",
		Help: "Total job executions partitioned by job name and status.",
	}, []string{"job", "status"})
	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fleetdesk_job_duration_seconds",
		Help:    "Duration in seconds of background job executions.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	customers := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fleetdesk_customers",
		Help: "Customers in the registry by lifecycle state.",
	}, []string{"state"})

	registry.MustRegister(operations, jobRuns, jobDuration, customers)
	return &Metrics{
		registry:    registry,
		operations:  operations,
		jobRuns:     jobRuns,
		jobDuration: jobDuration,
		customers:   customers,
	}
}

// Registry returns the gatherer for exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordOperation counts one registry operation. Safe on a nil receiver.
func (m *Metrics) RecordOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// SetCustomers publishes the active/inactive split.
func (m *Metrics) SetCustomers(active, inactive int) {
	if m == nil {
		return
	}
	m.customers.WithLabelValues("active").Set(float64(active))
	m.customers.WithLabelValues("inactive").Set(float64(inactive))
}

// Tracker provides lifecycle instrumentation helpers for a single job run.
type Tracker struct {
	metrics *Metrics
	job     string
	start   time.Time
}

// Track spawns a tracker for the given job name.
func (m *Metrics) Track(job string) *Tracker {
	return &Tracker{metrics: m, job: job, start: time.Now()}
}

// End records duration and status and returns err untouched.
func (t *Tracker) End(err error) error {
	if t == nil || t.metrics == nil || t.job == "" {
		return err
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	t.metrics.jobRuns.WithLabelValues(t.job, status).Inc()
	t.metrics.jobDuration.WithLabelValues(t.job).Observe(time.Since(t.start).Seconds())
	return err
}

// WriteTextfile dumps every collector in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
