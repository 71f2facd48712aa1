package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// BeginOptions configures a newly opened transaction.
type BeginOptions struct {
	// Isolation is the isolation level string passed to the store, e.g.
	// "SERIALIZABLE" or "REPEATABLE READ". Empty means the store default.
	Isolation string

	// ReadOnly opens the transaction in read-only mode.
	ReadOnly bool
}

// Session is the unit-of-work contract the transaction wrapper and the
// repository operate against. A session is owned by exactly one logical call
// chain at a time; nested calls within the chain share it. Only the scope
// that opened the transaction commits or rolls it back.
type Session interface {
	// InTransaction reports whether a transaction is currently open.
	InTransaction() bool

	// Begin opens a new transaction. It fails if one is already open;
	// nesting is expressed with SavePoint, never with a second Begin.
	Begin(ctx context.Context, opts BeginOptions) error

	// Commit commits and closes the open transaction.
	Commit() error

	// Rollback aborts and closes the open transaction.
	Rollback() error

	// SavePoint creates a named savepoint inside the open transaction.
	SavePoint(name string) error

	// RollbackTo rolls back to a previously created savepoint, keeping the
	// surrounding transaction open.
	RollbackTo(name string) error

	// Flush pushes pending changes to the store without committing.
	Flush(ctx context.Context) error

	// Expire drops any in-memory cached entity state so the next access
	// reloads from the store.
	Expire()
}

// GormSession implements Session over a *gorm.DB handle.
//
// Flush and Expire are no-ops here: gorm executes statements eagerly and
// keeps no identity map, so there is nothing pending to push or to expire.
// Both stay in the contract so callers written against Session keep the same
// shape over stores that do buffer.
type GormSession struct {
	root *gorm.DB
	tx   *gorm.DB
}

// NewGormSession wraps db in a session. The handle passed in must not be
// shared with another concurrent session.
func NewGormSession(db *gorm.DB) *GormSession {
	return &GormSession{root: db}
}

// DB returns the handle statements must run on: the open transaction if any,
// otherwise the root connection.
func (s *GormSession) DB() *gorm.DB {
	if s.tx != nil {
		return s.tx
	}
	return s.root
}

func (s *GormSession) InTransaction() bool { return s.tx != nil }

func (s *GormSession) Begin(ctx context.Context, opts BeginOptions) error {
	if s.tx != nil {
		return &ImplementationError{Message: "Begin called with a transaction already open; use SavePoint for nesting"}
	}

	txOpts := &sql.TxOptions{ReadOnly: opts.ReadOnly}
	if opts.Isolation != "" {
		level, err := parseIsolation(opts.Isolation)
		if err != nil {
			return err
		}
		txOpts.Isolation = level
	}

	tx := s.root.WithContext(ctx).Begin(txOpts)
	if tx.Error != nil {
		return tx.Error
	}
	s.tx = tx
	return nil
}

func (s *GormSession) Commit() error {
	if s.tx == nil {
		return &ImplementationError{Message: "Commit called without an open transaction"}
	}
	err := s.tx.Commit().Error
	s.tx = nil
	return err
}

func (s *GormSession) Rollback() error {
	if s.tx == nil {
		return &ImplementationError{Message: "Rollback called without an open transaction"}
	}
	err := s.tx.Rollback().Error
	s.tx = nil
	return err
}

func (s *GormSession) SavePoint(name string) error {
	if s.tx == nil {
		return &ImplementationError{Message: "SavePoint called without an open transaction"}
	}
	return s.tx.SavePoint(name).Error
}

func (s *GormSession) RollbackTo(name string) error {
	if s.tx == nil {
		return &ImplementationError{Message: "RollbackTo called without an open transaction"}
	}
	return s.tx.RollbackTo(name).Error
}

// Flush is a no-op for gorm; statements have already been sent to the store.
func (s *GormSession) Flush(ctx context.Context) error { return nil }

// Expire is a no-op for gorm; there is no identity map to invalidate.
func (s *GormSession) Expire() {}

func parseIsolation(level string) (sql.IsolationLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "READ UNCOMMITTED":
		return sql.LevelReadUncommitted, nil
	case "READ COMMITTED":
		return sql.LevelReadCommitted, nil
	case "REPEATABLE READ":
		return sql.LevelRepeatableRead, nil
	case "SERIALIZABLE":
		return sql.LevelSerializable, nil
	case "SNAPSHOT":
		return sql.LevelSnapshot, nil
	default:
		return sql.LevelDefault, &ValidationError{Message: fmt.Sprintf("unknown isolation level %q", level)}
	}
}
