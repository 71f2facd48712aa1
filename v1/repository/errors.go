package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// InvalidFieldError reports a field name that is not part of the target
// entity's FieldSet. It always carries the full valid set so callers can
// surface an actionable message.
type InvalidFieldError struct {
	Field       string
	Model       string
	ValidFields []string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("Field '%s' does not exist in the %s model. Valid fields are: %s",
		e.Field, e.Model, strings.Join(e.ValidFields, ", "))
}

// ValidationError reports invalid caller input other than an unknown field
// name: dangerous SQL patterns, placeholder/parameter mismatches, malformed
// request data.
type ValidationError struct {
	Message string
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Details, "; "))
}

// NotFoundError reports that a required entity is absent. Lookup operations
// themselves return a nil result for absence; this error is raised by
// FailOnEmpty transactions and by domain services that require presence.
type NotFoundError struct {
	Resource string
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// ConflictError reports a domain uniqueness or state conflict, e.g. creating
// a grade whose name is already taken.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// DatabaseError wraps a store-level failure exactly once, at the boundary
// where it was first caught, carrying the operation that issued it.
type DatabaseError struct {
	Message  string
	Instance string
	Err      error
}

func (e *DatabaseError) Error() string {
	if e.Instance != "" {
		return fmt.Sprintf("database error in %s: %s", e.Instance, e.Message)
	}
	return fmt.Sprintf("database error: %s", e.Message)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// TimeoutError reports that an operation exceeded its configured timeout.
type TimeoutError struct {
	Timeout  time.Duration
	Instance string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation %s timed out after %s", e.Instance, e.Timeout)
}

// ImplementationError reports a programming mistake on our side (misuse of
// the session contract, missing collaborator state) as opposed to an
// unexpected runtime condition.
type ImplementationError struct {
	Message string
}

func (e *ImplementationError) Error() string { return e.Message }

// IsDomainError reports whether err belongs to the domain taxonomy that must
// pass through the transaction wrapper unmodified: validation, unknown field,
// not-found, conflict. Store and timeout errors are not domain errors.
func IsDomainError(err error) bool {
	var (
		invalidField *InvalidFieldError
		validation   *ValidationError
		notFound     *NotFoundError
		conflict     *ConflictError
	)
	return errors.As(err, &invalidField) ||
		errors.As(err, &validation) ||
		errors.As(err, &notFound) ||
		errors.As(err, &conflict)
}

// PostgreSQL SQLSTATE codes for serialization_failure and deadlock_detected.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// isDeadlock classifies err as deadlock-related and therefore retryable.
// Structured PostgreSQL error codes are checked first; the textual check
// remains as a fallback for drivers that do not expose codes.
func isDeadlock(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return strings.Contains(strings.ToLower(err.Error()), "deadlock")
}
