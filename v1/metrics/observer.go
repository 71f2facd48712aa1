package metrics

import (
	"github.com/classtrack/classrooms/v1/observability"
)

// RepositoryObserver reports repository operation outcomes to Prometheus.
// It implements observability.Observer.
type RepositoryObserver struct {
	metrics *Metrics
}

// NewRepositoryObserver wires the observer to a Metrics instance.
func NewRepositoryObserver(m *Metrics) *RepositoryObserver {
	return &RepositoryObserver{metrics: m}
}

// Observe records one completed operation: a counter increment labelled by
// outcome and a duration sample.
func (o *RepositoryObserver) Observe(op observability.OperationContext) {
	status := "success"
	if op.Err != nil {
		status = "error"
	}
	o.metrics.IncrementRepositoryOperations(op.Operation, status)
	o.metrics.RecordRepositoryOperationDuration(op.Operation, op.Duration)
}
