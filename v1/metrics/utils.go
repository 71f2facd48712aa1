package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IncrementHTTPRequests increments the HTTP request counter.
// Example: metrics.IncrementHTTPRequests("GET", "/api/v1/grades", "200")
func (m *Metrics) IncrementHTTPRequests(method, path, status string) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordHTTPRequestDuration records the duration (in seconds) of an HTTP request.
// Example: defer metrics.RecordHTTPRequestDuration(time.Now(), "GET", "/api/v1/grades")
func (m *Metrics) RecordHTTPRequestDuration(start time.Time, method, path string) {
	duration := time.Since(start).Seconds()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// IncrementRepositoryOperations increments the repository operation counter
// with the operation name and its outcome ("success" or "error").
func (m *Metrics) IncrementRepositoryOperations(operation, status string) {
	m.repoOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordRepositoryOperationDuration records the duration of a repository
// operation in seconds.
func (m *Metrics) RecordRepositoryOperationDuration(operation string, duration time.Duration) {
	m.repoOperationTime.WithLabelValues(operation).Observe(duration.Seconds())
}

// CreateCounter creates a new CounterVec metric and registers it.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(name, help, labels)
	m.Registry.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(name, help, labels, buckets)
	m.Registry.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec(name, help, labels)
	m.Registry.MustRegister(gauge)
	return gauge
}

// createCounterVec defines a new CounterVec with standard options.
// Used internally by NewMetrics to maintain consistency.
func createCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

// createHistogramVec defines a new HistogramVec with configurable buckets.
// Used internally by NewMetrics for latency tracking.
func createHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labels,
	)
}

// createGaugeVec defines a new GaugeVec safely for resource monitoring.
func createGaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}
