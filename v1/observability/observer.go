package observability

import "time"

// OperationContext carries the outcome of a single data-access operation.
// It is passed to observers after the operation has fully completed,
// including commit/rollback handling.
type OperationContext struct {
	// Component identifies the reporting component, e.g. "repository",
	// "transaction" or "rawquery".
	Component string

	// Operation is the logical operation name, e.g. "FindAllBy" or the
	// registered name of a raw query.
	Operation string

	// Resource names the entity or table the operation targeted, when known.
	Resource string

	// Duration is the wall-clock time of the operation including retries.
	Duration time.Duration

	// Err is the final error returned to the caller, nil on success.
	Err error
}

// Observer receives completed operation reports.
//
// Implementations must be safe for concurrent use; operations from different
// sessions may complete at the same time.
type Observer interface {
	Observe(op OperationContext)
}

// Notify reports op to o if an observer is configured. A nil observer is
// valid and makes Notify a no-op, so callers never need a nil check.
func Notify(o Observer, op OperationContext) {
	if o == nil {
		return
	}
	o.Observe(op)
}
