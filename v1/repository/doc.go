// Package repository provides the generic data-access layer: a typed
// repository contract with CRUD, paging, filtering, bulk and soft-delete
// operations, built on top of three smaller pieces that can also be used
// on their own.
//
// The pieces, leaf to root:
//
//   - FieldSet: a static per-entity registry of valid column names. Every
//     operation that accepts caller-supplied field names validates them
//     against the entity's FieldSet before building a query.
//
//   - Filters / ApplyWhere / ApplyJoins: a declarative condition builder.
//     A Filters value maps field names to equality literals, slices
//     (membership) or Clause structs (range / pattern / negation), and is
//     translated into deterministic WHERE and JOIN clauses.
//
//   - WithTransaction: a higher-order helper that makes an arbitrary
//     operation transactional with configurable root/nested/savepoint
//     semantics, isolation level, timeout, deadlock retry and audit hooks,
//     against an explicit Session.
//
// RawQuery wraps pre-registered parameterized SQL with injection screening
// at registration time and call time, for the rare escape-hatch query the
// typed contract cannot express.
//
// Repository composes all of the above. Every method runs inside
// WithTransaction: the outermost call in a chain owns commit/rollback,
// nested calls join the open transaction and only flush.
//
// Example:
//
//	sess := repository.NewGormSession(db)
//	repo := repository.NewRepository[Grade](sess, GradeFields,
//	    repository.WithLogger(log),
//	    repository.WithRetries(2),
//	)
//
//	grade, err := repo.FindOneBy(ctx, repository.Filters{"grade_name": "1°"})
package repository
