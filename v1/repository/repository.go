package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/classtrack/classrooms/v1/observability"
)

// Entity is the constraint every repository row type satisfies: a record
// with a unique numeric identifier.
type Entity interface {
	PrimaryKey() uint64
}

// Option customizes a Repository at construction time.
type Option func(*repoSettings)

type repoSettings struct {
	logger   *zap.Logger
	observer observability.Observer
	retries  int
	timeout  time.Duration
}

// WithLogger attaches a logger used for transaction lifecycle events.
func WithLogger(log *zap.Logger) Option {
	return func(s *repoSettings) { s.logger = log }
}

// WithObserver attaches an operation observer notified after every call.
func WithObserver(obs observability.Observer) Option {
	return func(s *repoSettings) { s.observer = obs }
}

// WithRetries sets the deadlock retry budget applied to every operation.
func WithRetries(retries int) Option {
	return func(s *repoSettings) { s.retries = retries }
}

// WithTimeout bounds every operation with d.
func WithTimeout(d time.Duration) Option {
	return func(s *repoSettings) { s.timeout = d }
}

// Repository is the generic data-access contract for one entity type, bound
// to one session. Every operation runs inside WithTransaction: when the
// session has no open transaction the operation owns commit/rollback, when
// called inside a service-level transaction it joins and flushes only.
//
// A Repository is not safe for use by concurrent callers, because the
// session it wraps is not; create one session and repository per logical
// call chain.
type Repository[T Entity] struct {
	sess   *GormSession
	fields FieldSet
	repoSettings
}

// NewRepository binds a repository for T to sess and its field registry.
func NewRepository[T Entity](sess *GormSession, fields FieldSet, opts ...Option) *Repository[T] {
	var settings repoSettings
	for _, opt := range opts {
		opt(&settings)
	}
	return &Repository[T]{sess: sess, fields: fields, repoSettings: settings}
}

// Fields returns the entity's field registry.
func (r *Repository[T]) Fields() FieldSet { return r.fields }

// Session returns the underlying session, for composing repository calls
// with service-level transactions.
func (r *Repository[T]) Session() *GormSession { return r.sess }

func (r *Repository[T]) txOptions(name string, readonly bool) TxOptions {
	return TxOptions{
		Name:      fmt.Sprintf("%s.%s", r.fields.Model(), name),
		Component: "repository",
		Tag:       r.fields.Model(),
		Readonly:  readonly,
		Retries:   r.retries,
		Timeout:   r.timeout,
		Logger:    r.logger,
		Observer:  r.observer,
	}
}

func (r *Repository[T]) db(ctx context.Context) *gorm.DB {
	return r.sess.DB().WithContext(ctx)
}

// refresh reloads e from the store so generated fields (identifier, server
// default timestamps) are populated.
func (r *Repository[T]) refresh(ctx context.Context, e *T) error {
	return r.db(ctx).First(e, "id = ?", (*e).PrimaryKey()).Error
}

// Save persists a new entity and reloads it with its generated fields.
func (r *Repository[T]) Save(ctx context.Context, entity *T) (*T, error) {
	return WithTransaction(ctx, r.sess, r.txOptions("Save", false), func(ctx context.Context) (*T, error) {
		if err := r.db(ctx).Create(entity).Error; err != nil {
			return nil, err
		}
		if err := r.refresh(ctx, entity); err != nil {
			return nil, err
		}
		return entity, nil
	})
}

// SaveAll persists all entities in one transaction. An empty input returns
// empty without touching the store.
func (r *Repository[T]) SaveAll(ctx context.Context, entities []T) ([]T, error) {
	if len(entities) == 0 {
		return []T{}, nil
	}
	return WithTransaction(ctx, r.sess, r.txOptions("SaveAll", false), func(ctx context.Context) ([]T, error) {
		if err := r.db(ctx).Create(&entities).Error; err != nil {
			return nil, err
		}
		for i := range entities {
			if err := r.refresh(ctx, &entities[i]); err != nil {
				return nil, err
			}
		}
		return entities, nil
	})
}

// GetByID returns the entity with the given identifier, or nil when absent.
// Absence is the caller's concern, never an error here.
func (r *Repository[T]) GetByID(ctx context.Context, id uint64) (*T, error) {
	return WithTransaction(ctx, r.sess, r.txOptions("GetByID", true), func(ctx context.Context) (*T, error) {
		var entity T
		err := r.db(ctx).First(&entity, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &entity, nil
	})
}

// FindOneBy returns the first entity matching filters, or nil when none
// does. Joins, when given, are applied as inner joins in order.
func (r *Repository[T]) FindOneBy(ctx context.Context, filters Filters, joins ...Join) (*T, error) {
	return WithTransaction(ctx, r.sess, r.txOptions("FindOneBy", true), func(ctx context.Context) (*T, error) {
		q, err := ApplyWhere(r.db(ctx).Model(new(T)), r.fields, filters)
		if err != nil {
			return nil, err
		}
		q = ApplyJoins(q, joins, JoinInner)

		var entity T
		err = q.First(&entity).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &entity, nil
	})
}

// FindAllBy returns every entity matching filters; with no filters it
// returns all rows.
func (r *Repository[T]) FindAllBy(ctx context.Context, filters Filters, joins ...Join) ([]T, error) {
	return WithTransaction(ctx, r.sess, r.txOptions("FindAllBy", true), func(ctx context.Context) ([]T, error) {
		q, err := ApplyWhere(r.db(ctx).Model(new(T)), r.fields, filters)
		if err != nil {
			return nil, err
		}
		q = ApplyJoins(q, joins, JoinInner)

		var entities []T
		if err := q.Find(&entities).Error; err != nil {
			return nil, err
		}
		return entities, nil
	})
}

// ExistsBy reports whether at least one entity matches filters.
func (r *Repository[T]) ExistsBy(ctx context.Context, filters Filters) (bool, error) {
	count, err := r.CountBy(ctx, filters)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the total number of entities.
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	return r.CountBy(ctx, nil)
}

// CountBy returns the number of entities matching filters.
func (r *Repository[T]) CountBy(ctx context.Context, filters Filters) (int64, error) {
	return WithTransaction(ctx, r.sess, r.txOptions("CountBy", true), func(ctx context.Context) (int64, error) {
		q, err := ApplyWhere(r.db(ctx).Model(new(T)), r.fields, filters)
		if err != nil {
			return 0, err
		}
		var count int64
		if err := q.Count(&count).Error; err != nil {
			return 0, err
		}
		return count, nil
	})
}

// FindByIDs returns the entities whose identifiers are in ids. An empty
// input returns empty without issuing a query.
func (r *Repository[T]) FindByIDs(ctx context.Context, ids []uint64) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	return WithTransaction(ctx, r.sess, r.txOptions("FindByIDs", true), func(ctx context.Context) ([]T, error) {
		var entities []T
		if err := r.db(ctx).Where("id IN ?", ids).Find(&entities).Error; err != nil {
			return nil, err
		}
		return entities, nil
	})
}

// Delete physically removes the entity with the given identifier. It is a
// no-op returning false when the entity is absent.
func (r *Repository[T]) Delete(ctx context.Context, id uint64) (bool, error) {
	return WithTransaction(ctx, r.sess, r.txOptions("Delete", false), func(ctx context.Context) (bool, error) {
		var entity T
		err := r.db(ctx).First(&entity, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if err := r.db(ctx).Delete(&entity).Error; err != nil {
			return false, err
		}
		return true, nil
	})
}

// DeleteAllBy removes every entity matching filters and returns the number
// of rows removed. With no filters it removes all rows.
func (r *Repository[T]) DeleteAllBy(ctx context.Context, filters Filters) (int64, error) {
	return WithTransaction(ctx, r.sess, r.txOptions("DeleteAllBy", false), func(ctx context.Context) (int64, error) {
		db := r.db(ctx)
		if len(filters) == 0 {
			db = db.Session(&gorm.Session{AllowGlobalUpdate: true})
		}
		q, err := ApplyWhere(db.Model(new(T)), r.fields, filters)
		if err != nil {
			return 0, err
		}
		res := q.Delete(new(T))
		if res.Error != nil {
			return 0, res.Error
		}
		return res.RowsAffected, nil
	})
}

// DeleteByIDs removes the entities with the given identifiers, all or
// nothing: when any requested identifier has no row, nothing is deleted and
// false is returned. This is a deliberate atomicity guarantee, unlike
// DeleteAllBy which removes whatever matches.
func (r *Repository[T]) DeleteByIDs(ctx context.Context, ids []uint64) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}
	unique := uniqueIDs(ids)
	return WithTransaction(ctx, r.sess, r.txOptions("DeleteByIDs", false), func(ctx context.Context) (bool, error) {
		var count int64
		if err := r.db(ctx).Model(new(T)).Where("id IN ?", unique).Count(&count).Error; err != nil {
			return false, err
		}
		if count != int64(len(unique)) {
			return false, nil
		}
		if err := r.db(ctx).Where("id IN ?", unique).Delete(new(T)).Error; err != nil {
			return false, err
		}
		return true, nil
	})
}

// UpdateByID applies the field updates in data to the entity with the given
// identifier and returns the reloaded entity, or nil when absent. Field
// names in data are validated first.
func (r *Repository[T]) UpdateByID(ctx context.Context, id uint64, data map[string]any) (*T, error) {
	if err := r.fields.Validate(data); err != nil {
		return nil, err
	}
	return WithTransaction(ctx, r.sess, r.txOptions("UpdateByID", false), func(ctx context.Context) (*T, error) {
		var entity T
		err := r.db(ctx).First(&entity, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if len(data) > 0 {
			if err := r.db(ctx).Model(&entity).Updates(data).Error; err != nil {
				return nil, err
			}
		}
		if err := r.refresh(ctx, &entity); err != nil {
			return nil, err
		}
		return &entity, nil
	})
}

// UpdateAllBy applies a set-based update to every entity matching filters
// and returns the number of rows affected.
func (r *Repository[T]) UpdateAllBy(ctx context.Context, filters Filters, data map[string]any) (int64, error) {
	if err := r.fields.Validate(data); err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, nil
	}
	return WithTransaction(ctx, r.sess, r.txOptions("UpdateAllBy", false), func(ctx context.Context) (int64, error) {
		db := r.db(ctx)
		if len(filters) == 0 {
			db = db.Session(&gorm.Session{AllowGlobalUpdate: true})
		}
		q, err := ApplyWhere(db.Model(new(T)), r.fields, filters)
		if err != nil {
			return 0, err
		}
		res := q.Updates(data)
		if res.Error != nil {
			return 0, res.Error
		}
		return res.RowsAffected, nil
	})
}

// GetPageable returns one page of all entities ordered by identifier
// ascending. Pages below 1 clamp to 1, sizes below 1 to 10.
func (r *Repository[T]) GetPageable(ctx context.Context, page, size int) (*Page[T], error) {
	return r.GetPageableBy(ctx, page, size, nil)
}

// GetPageableBy returns one page of the entities matching filters, ordered
// by identifier ascending.
func (r *Repository[T]) GetPageableBy(ctx context.Context, page, size int, filters Filters) (*Page[T], error) {
	return r.FindPageables(ctx, page, size, filters, nil, JoinInner)
}

// FindPageables returns one page of the entities matching filters and
// joins. The total is computed by a count query sharing the same predicates.
func (r *Repository[T]) FindPageables(ctx context.Context, page, size int, filters Filters, joins []Join, joinType JoinType) (*Page[T], error) {
	page, size = NormalizePageSize(page, size)
	return WithTransaction(ctx, r.sess, r.txOptions("FindPageables", true), func(ctx context.Context) (*Page[T], error) {
		// The count and row queries are built independently so they share
		// the same predicates without sharing gorm statement state.
		build := func() (*gorm.DB, error) {
			q, err := ApplyWhere(r.db(ctx).Model(new(T)), r.fields, filters)
			if err != nil {
				return nil, err
			}
			return ApplyJoins(q, joins, joinType), nil
		}

		countQ, err := build()
		if err != nil {
			return nil, err
		}
		var total int64
		if err := countQ.Count(&total).Error; err != nil {
			return nil, err
		}

		findQ, err := build()
		if err != nil {
			return nil, err
		}
		var entities []T
		offset := (page - 1) * size
		if err := findQ.Order("id ASC").Offset(offset).Limit(size).Find(&entities).Error; err != nil {
			return nil, err
		}

		return &Page[T]{
			Data: entities,
			Meta: NewPagination(page, size, total),
		}, nil
	})
}

// FindAllOrderedBy returns every entity matching filters, ordered by the
// given field ascending or descending.
func (r *Repository[T]) FindAllOrderedBy(ctx context.Context, field string, ascending bool, filters Filters) ([]T, error) {
	if err := r.fields.ValidateNames(field); err != nil {
		return nil, err
	}
	return WithTransaction(ctx, r.sess, r.txOptions("FindAllOrderedBy", true), func(ctx context.Context) ([]T, error) {
		q, err := ApplyWhere(r.db(ctx).Model(new(T)), r.fields, filters)
		if err != nil {
			return nil, err
		}
		var entities []T
		if err := q.Order(orderExpr(field, ascending)).Find(&entities).Error; err != nil {
			return nil, err
		}
		return entities, nil
	})
}

// FindFirstOrderedBy returns the first entity under the given ordering, or
// nil when nothing matches.
func (r *Repository[T]) FindFirstOrderedBy(ctx context.Context, field string, ascending bool, filters Filters) (*T, error) {
	if err := r.fields.ValidateNames(field); err != nil {
		return nil, err
	}
	return WithTransaction(ctx, r.sess, r.txOptions("FindFirstOrderedBy", true), func(ctx context.Context) (*T, error) {
		q, err := ApplyWhere(r.db(ctx).Model(new(T)), r.fields, filters)
		if err != nil {
			return nil, err
		}
		// Take does not add its own ordering, so tie-break order among
		// equal ordering-field values stays whatever the store returns.
		var entity T
		err = q.Order(orderExpr(field, ascending)).Take(&entity).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &entity, nil
	})
}

// FindLastOrderedBy returns the first entity of the reversed ordering.
// Among rows with equal ordering-field values this yields whichever the
// store returns first, which is not necessarily the last row of the
// ascending order; callers relying on tie-break order must order by a
// unique field.
func (r *Repository[T]) FindLastOrderedBy(ctx context.Context, field string, ascending bool, filters Filters) (*T, error) {
	return r.FindFirstOrderedBy(ctx, field, !ascending, filters)
}

// FindAllInList returns the entities whose field value is in values. An
// empty values list returns empty without issuing a query.
func (r *Repository[T]) FindAllInList(ctx context.Context, field string, values []any) ([]T, error) {
	if err := r.fields.ValidateNames(field); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return []T{}, nil
	}
	return r.FindAllBy(ctx, Filters{field: values})
}

// FindAllNotInList returns the entities whose field value is not in values.
// An empty values list excludes nothing and returns all rows.
func (r *Repository[T]) FindAllNotInList(ctx context.Context, field string, values []any) ([]T, error) {
	if err := r.fields.ValidateNames(field); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return r.FindAllBy(ctx, nil)
	}
	return WithTransaction(ctx, r.sess, r.txOptions("FindAllNotInList", true), func(ctx context.Context) ([]T, error) {
		var entities []T
		err := r.db(ctx).Where(fmt.Sprintf("%s NOT IN ?", field), values).Find(&entities).Error
		if err != nil {
			return nil, err
		}
		return entities, nil
	})
}

// FindAllLike returns the entities whose field matches the LIKE pattern.
func (r *Repository[T]) FindAllLike(ctx context.Context, field, pattern string) ([]T, error) {
	if err := r.fields.ValidateNames(field); err != nil {
		return nil, err
	}
	return r.FindAllBy(ctx, Filters{field: Clause{Like: pattern}})
}

// FindAllGreaterThan returns the entities whose field exceeds value.
func (r *Repository[T]) FindAllGreaterThan(ctx context.Context, field string, value any) ([]T, error) {
	if err := r.fields.ValidateNames(field); err != nil {
		return nil, err
	}
	return r.FindAllBy(ctx, Filters{field: Clause{Gt: value}})
}

// FindAllLessThan returns the entities whose field is below value.
func (r *Repository[T]) FindAllLessThan(ctx context.Context, field string, value any) ([]T, error) {
	if err := r.fields.ValidateNames(field); err != nil {
		return nil, err
	}
	return r.FindAllBy(ctx, Filters{field: Clause{Lt: value}})
}

// FindAllBetween returns the entities whose field lies in [low, high].
func (r *Repository[T]) FindAllBetween(ctx context.Context, field string, low, high any) ([]T, error) {
	if err := r.fields.ValidateNames(field); err != nil {
		return nil, err
	}
	return r.FindAllBy(ctx, Filters{field: Clause{Gte: low, Lte: high}})
}

// FindAllByDateRange returns the entities whose date field lies between
// from and to inclusive.
func (r *Repository[T]) FindAllByDateRange(ctx context.Context, field string, from, to time.Time) ([]T, error) {
	return r.FindAllBetween(ctx, field, from, to)
}

// GetDistinctValues returns the unique non-null values of the given field,
// sorted ascending.
func (r *Repository[T]) GetDistinctValues(ctx context.Context, field string) ([]any, error) {
	if err := r.fields.ValidateNames(field); err != nil {
		return nil, err
	}
	return WithTransaction(ctx, r.sess, r.txOptions("GetDistinctValues", true), func(ctx context.Context) ([]any, error) {
		rows, err := r.db(ctx).Model(new(T)).
			Select(fmt.Sprintf("DISTINCT %s", field)).
			Where(fmt.Sprintf("%s IS NOT NULL", field)).
			Order(orderExpr(field, true)).
			Rows()
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var values []any
		for rows.Next() {
			var v any
			if err := rows.Scan(&v); err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return values, nil
	})
}

// SoftDeleteByID clears the named boolean flag instead of removing the row.
// Returns false when the entity is absent. Applying it to an already
// soft-deleted entity is safe and returns true.
func (r *Repository[T]) SoftDeleteByID(ctx context.Context, id uint64, flag string) (bool, error) {
	return r.setFlag(ctx, "SoftDeleteByID", id, flag, false)
}

// RestoreByID sets the named boolean flag back, undoing a soft delete.
// Returns false when the entity is absent; restoring an already-restored
// entity returns true and leaves the flag unchanged.
func (r *Repository[T]) RestoreByID(ctx context.Context, id uint64, flag string) (bool, error) {
	return r.setFlag(ctx, "RestoreByID", id, flag, true)
}

func (r *Repository[T]) setFlag(ctx context.Context, name string, id uint64, flag string, value bool) (bool, error) {
	if err := r.fields.ValidateNames(flag); err != nil {
		return false, err
	}
	return WithTransaction(ctx, r.sess, r.txOptions(name, false), func(ctx context.Context) (bool, error) {
		var entity T
		err := r.db(ctx).First(&entity, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		err = r.db(ctx).Model(&entity).Update(flag, value).Error
		if err != nil {
			return false, err
		}
		return true, nil
	})
}

// BulkUpdateField sets one field to the same value on every entity in ids.
// An empty id list is a no-op returning 0 without store interaction.
func (r *Repository[T]) BulkUpdateField(ctx context.Context, ids []uint64, field string, value any) (int64, error) {
	if err := r.fields.ValidateNames(field); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return WithTransaction(ctx, r.sess, r.txOptions("BulkUpdateField", false), func(ctx context.Context) (int64, error) {
		res := r.db(ctx).Model(new(T)).Where("id IN ?", ids).Update(field, value)
		if res.Error != nil {
			return 0, res.Error
		}
		return res.RowsAffected, nil
	})
}

// FindAllActive returns the entities whose boolean flag field is set.
func (r *Repository[T]) FindAllActive(ctx context.Context, flag string) ([]T, error) {
	if err := r.fields.ValidateNames(flag); err != nil {
		return nil, err
	}
	return r.FindAllBy(ctx, Filters{flag: true})
}

// FindAllInactive returns the entities whose boolean flag field is cleared.
func (r *Repository[T]) FindAllInactive(ctx context.Context, flag string) ([]T, error) {
	if err := r.fields.ValidateNames(flag); err != nil {
		return nil, err
	}
	return r.FindAllBy(ctx, Filters{flag: false})
}

// FindRandom returns up to limit entities in store-randomized order.
func (r *Repository[T]) FindRandom(ctx context.Context, limit int) ([]T, error) {
	if limit < 1 {
		return []T{}, nil
	}
	return WithTransaction(ctx, r.sess, r.txOptions("FindRandom", true), func(ctx context.Context) ([]T, error) {
		var entities []T
		err := r.db(ctx).
			Clauses(clause.OrderBy{Expression: clause.Expr{SQL: "RANDOM()"}}).
			Limit(limit).
			Find(&entities).Error
		if err != nil {
			return nil, err
		}
		return entities, nil
	})
}

// SaveOrUpdate merge-updates the entity in place when its identifier already
// exists, and inserts it as new otherwise.
func (r *Repository[T]) SaveOrUpdate(ctx context.Context, entity *T) (*T, error) {
	return WithTransaction(ctx, r.sess, r.txOptions("SaveOrUpdate", false), func(ctx context.Context) (*T, error) {
		pk := (*entity).PrimaryKey()
		if pk != 0 {
			var count int64
			if err := r.db(ctx).Model(new(T)).Where("id = ?", pk).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				if err := r.db(ctx).Model(entity).Where("id = ?", pk).Updates(entity).Error; err != nil {
					return nil, err
				}
				if err := r.refresh(ctx, entity); err != nil {
					return nil, err
				}
				return entity, nil
			}
		}
		if err := r.db(ctx).Create(entity).Error; err != nil {
			return nil, err
		}
		if err := r.refresh(ctx, entity); err != nil {
			return nil, err
		}
		return entity, nil
	})
}

func orderExpr(field string, ascending bool) string {
	if ascending {
		return field + " ASC"
	}
	return field + " DESC"
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
