package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/classtrack/classrooms/v1/observability"
)

// TxOptions configures one WithTransaction call. The zero value gives a
// non-root, auto-flushing, no-timeout, no-retry wrapper.
type TxOptions struct {
	// Name identifies the wrapped operation in errors, logs and metrics.
	Name string

	// Component is the reporting component name passed to the observer.
	// Empty defaults to "transaction".
	Component string

	// Tag is an optional free-form label, typically the target resource.
	Tag string

	// Readonly hints that the operation performs no writes. Read scopes
	// still commit when they own the transaction, to release resources
	// cleanly.
	Readonly bool

	// Root marks the outermost scope of a call chain, the one intended to
	// own commit/rollback. With an explicit session the first call that
	// finds no open transaction becomes the owner either way; Root
	// documents intent at service boundaries.
	Root bool

	// Isolation is the isolation level for a newly opened transaction,
	// empty for the store default.
	Isolation string

	// ReadOnlyTx opens a newly started transaction in read-only mode.
	ReadOnlyTx bool

	// Timeout bounds the whole call including retries. Zero disables it.
	Timeout time.Duration

	// Retries is the number of additional attempts after a
	// deadlock-classified failure. Other failures are never retried.
	Retries int

	// Savepoint wraps the operation in a savepoint when a transaction is
	// already open, so its failure rolls back to the savepoint instead of
	// poisoning the outer transaction.
	Savepoint bool

	// NoAutoFlush disables the flush that non-owner scopes perform on
	// success. Flushing is on by default.
	NoAutoFlush bool

	// ExpireOnEnd drops cached entity state after a successful call.
	ExpireOnEnd bool

	// Auditable emits the audit hook after a successful owner commit.
	Auditable bool

	// AuditHook receives the operation name when Auditable is set.
	AuditHook func(name string)

	// FailOnEmpty converts a successful call whose result is empty or
	// absent into a *NotFoundError.
	FailOnEmpty bool

	// Logger, when set, logs transaction lifecycle events.
	Logger *zap.Logger

	// Observer, when set, receives a report after the call completes.
	Observer observability.Observer
}

// savepointSeq generates savepoint names unique across the process; only
// uniqueness within one transaction is required.
var savepointSeq atomic.Uint64

// WithTransaction executes op inside a transactional scope on sess.
//
// If no transaction is open, this call opens one and owns it: commit on
// normal return, rollback on error. If a transaction is already open, the
// call joins it; with Savepoint set it runs inside a savepoint whose failure
// rolls back to the savepoint only, otherwise it executes directly and on
// success flushes pending changes (unless NoAutoFlush) while commit stays
// deferred to the owning scope.
//
// Deadlock-classified store errors are retried up to Retries times, yielding
// the scheduler between attempts. Domain errors (validation, not-found,
// conflict, invalid field) pass through unmodified; any other store failure
// is wrapped exactly once into *DatabaseError. When Timeout is exceeded the
// call fails with *TimeoutError.
func WithTransaction[T any](ctx context.Context, sess Session, opts TxOptions, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	start := time.Now()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	attempts := opts.Retries + 1
	if attempts < 1 {
		attempts = 1
	}

	var result T
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err = runAttempt(ctx, sess, opts, op)
		if err == nil || !isDeadlock(err) || attempt == attempts {
			break
		}
		if opts.Logger != nil {
			opts.Logger.Warn("deadlock detected, retrying",
				zap.String("operation", opts.Name),
				zap.Int("attempt", attempt),
				zap.Int("retries", opts.Retries),
				zap.Error(err))
		}
		// Yield so competing transactions get a chance to finish before
		// the next attempt; no backoff delay beyond that.
		runtime.Gosched()
	}

	err = classifyError(opts, err)

	component := opts.Component
	if component == "" {
		component = "transaction"
	}
	observability.Notify(opts.Observer, observability.OperationContext{
		Component: component,
		Operation: opts.Name,
		Resource:  opts.Tag,
		Duration:  time.Since(start),
		Err:       err,
	})

	if err != nil {
		return zero, err
	}
	return result, nil
}

// runAttempt performs a single transactional execution of op.
func runAttempt[T any](ctx context.Context, sess Session, opts TxOptions, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	txBefore := sess.InTransaction()
	selfStarted := false
	if !txBefore {
		if err := sess.Begin(ctx, BeginOptions{Isolation: opts.Isolation, ReadOnly: opts.ReadOnlyTx}); err != nil {
			return zero, err
		}
		selfStarted = true
		if opts.Logger != nil {
			opts.Logger.Debug("transaction started", zap.String("operation", opts.Name), zap.Bool("root", opts.Root))
		}
	}

	var savepoint string
	if opts.Savepoint && txBefore {
		savepoint = fmt.Sprintf("sp_%d", savepointSeq.Add(1))
		if err := sess.SavePoint(savepoint); err != nil {
			return zero, err
		}
	}

	result, err := op(ctx)
	if err == nil && opts.FailOnEmpty && isEmptyResult(result) {
		err = &NotFoundError{Resource: opts.Name, Message: fmt.Sprintf("%s returned no result", opts.Name)}
	}

	if err != nil {
		if savepoint != "" {
			// Partial rollback: the outer transaction stays usable.
			if rbErr := sess.RollbackTo(savepoint); rbErr != nil && opts.Logger != nil {
				opts.Logger.Error("rollback to savepoint failed",
					zap.String("operation", opts.Name),
					zap.String("savepoint", savepoint),
					zap.Error(rbErr))
			}
			return zero, err
		}
		// Rollback exactly once, only by the scope that opened the
		// transaction.
		if selfStarted && sess.InTransaction() {
			if rbErr := sess.Rollback(); rbErr != nil && opts.Logger != nil {
				opts.Logger.Error("rollback failed", zap.String("operation", opts.Name), zap.Error(rbErr))
			}
		}
		return zero, err
	}

	if selfStarted {
		// Owners commit for reads as well, releasing locks and snapshots.
		if cerr := sess.Commit(); cerr != nil {
			return zero, cerr
		}
		if opts.Logger != nil {
			opts.Logger.Debug("transaction committed", zap.String("operation", opts.Name))
		}
		if opts.Auditable && opts.AuditHook != nil {
			opts.AuditHook(opts.Name)
		}
	} else if !opts.NoAutoFlush {
		if ferr := sess.Flush(ctx); ferr != nil {
			return zero, ferr
		}
	}

	if opts.ExpireOnEnd {
		sess.Expire()
	}
	return result, nil
}

// classifyError maps the final attempt error into the domain taxonomy.
// Domain and implementation errors pass through untouched; an error already
// wrapped as *DatabaseError is never wrapped again; deadline expiry with a
// configured timeout becomes *TimeoutError; anything else is a store failure
// wrapped once.
func classifyError(opts TxOptions, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	var implErr *ImplementationError
	if errors.As(err, &implErr) {
		return err
	}
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return err
	}
	if opts.Timeout > 0 && errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Timeout: opts.Timeout, Instance: opts.Name}
	}
	return &DatabaseError{Message: err.Error(), Instance: opts.Name, Err: err}
}

// isEmptyResult reports whether a successful result counts as absent for
// FailOnEmpty: a nil interface, nil pointer, nil or empty slice or map, or
// an empty string.
func isEmptyResult(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Slice, reflect.Map:
		return rv.IsNil() || rv.Len() == 0
	case reflect.String:
		return rv.Len() == 0
	default:
		return false
	}
}
