package repository

import (
	"fmt"
	"reflect"
	"sort"

	"gorm.io/gorm"
)

// Clause expresses a structured condition on a single field. Each present
// (non-nil) operator contributes one predicate; all predicates of one Clause
// are combined with AND, in the fixed order gt, gte, lt, lte, like, ne, so
// the generated SQL is reproducible.
type Clause struct {
	Gt   any
	Gte  any
	Lt   any
	Lte  any
	Like any
	Ne   any
}

// Filters maps field names to conditions. A value is interpreted as:
//
//   - a slice or array: membership (IN) predicate
//   - a Clause: conjunction of its present operators
//   - anything else: equality predicate
//
// All predicates across fields are combined with AND. Field names must
// validate against the entity's FieldSet before a Filters value is applied.
type Filters map[string]any

// JoinType selects the SQL join kind produced by ApplyJoins.
type JoinType string

const (
	JoinInner     JoinType = "inner"
	JoinLeftOuter JoinType = "left_outer"
)

// Join describes one JOIN clause: the related table and its ON condition.
type Join struct {
	Table string
	On    string
}

// ApplyJoins appends JOIN clauses to the query in specification order.
// JoinLeftOuter produces a LEFT JOIN, anything else an inner JOIN.
func ApplyJoins(db *gorm.DB, joins []Join, joinType JoinType) *gorm.DB {
	for _, j := range joins {
		if joinType == JoinLeftOuter {
			db = db.Joins(fmt.Sprintf("LEFT JOIN %s ON %s", j.Table, j.On))
		} else {
			db = db.Joins(fmt.Sprintf("JOIN %s ON %s", j.Table, j.On))
		}
	}
	return db
}

// ApplyWhere validates the filter field names against fields and translates
// filters into WHERE predicates on db. Fields are applied in sorted key
// order: AND is commutative so the result set does not depend on it, but
// deterministic ordering keeps generated SQL reproducible in tests.
func ApplyWhere(db *gorm.DB, fields FieldSet, filters Filters) (*gorm.DB, error) {
	if len(filters) == 0 {
		return db, nil
	}
	if err := fields.Validate(filters); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, field := range keys {
		value := filters[field]
		switch v := value.(type) {
		case Clause:
			db = applyClause(db, field, v)
		case *Clause:
			db = applyClause(db, field, *v)
		default:
			if isSequence(value) {
				db = db.Where(fmt.Sprintf("%s IN ?", field), value)
			} else {
				db = db.Where(fmt.Sprintf("%s = ?", field), value)
			}
		}
	}
	return db, nil
}

func applyClause(db *gorm.DB, field string, c Clause) *gorm.DB {
	if c.Gt != nil {
		db = db.Where(fmt.Sprintf("%s > ?", field), c.Gt)
	}
	if c.Gte != nil {
		db = db.Where(fmt.Sprintf("%s >= ?", field), c.Gte)
	}
	if c.Lt != nil {
		db = db.Where(fmt.Sprintf("%s < ?", field), c.Lt)
	}
	if c.Lte != nil {
		db = db.Where(fmt.Sprintf("%s <= ?", field), c.Lte)
	}
	if c.Like != nil {
		db = db.Where(fmt.Sprintf("%s LIKE ?", field), c.Like)
	}
	if c.Ne != nil {
		db = db.Where(fmt.Sprintf("%s <> ?", field), c.Ne)
	}
	return db
}

// isSequence reports whether v is a slice or array value. Strings and byte
// slices are scalars for filtering purposes.
func isSequence(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}
