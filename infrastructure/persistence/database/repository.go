package database

import (
	"context"
	"errors"
	"fmt"

	"storefront/domain/shared"
	"storefront/infrastructure/persistence"
	"storefront/infrastructure/persistence/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type action string

const (
	actionAdd    action = "add"
	actionUpdate action = "update"
	actionDelete action = "delete"
)

// operation is one staged write. apply receives the commit context, which carries the transaction.
type operation struct {
	kind   shared.EntityKind
	action action
	apply  func(ctx context.Context) (int64, error)
}

type stager interface {
	stage(op operation)
}

// KeyCondition renders the WHERE condition selecting one row by key.
type KeyCondition[K comparable] func(id K) clause.Expression

// PrimaryKeyCondition matches the single-column primary key of the model.
func PrimaryKeyCondition[K comparable](id K) clause.Expression {
	return clause.Eq{Column: clause.PrimaryColumn, Value: id}
}

// Repository is the GORM implementation of shared.Repository.
// Reads go straight to the database; writes are staged on the owning unit of work.
type Repository[T shared.Entity[K], K comparable] struct {
	db           *gorm.DB
	kind         shared.EntityKind
	uow          stager
	keyCondition KeyCondition[K]
}

type RepositoryOption[K comparable] func(*repositoryOptions[K])

type repositoryOptions[K comparable] struct {
	keyCondition KeyCondition[K]
}

// WithKeyCondition overrides the lookup used by GetByID, e.g. for composite keys.
func WithKeyCondition[K comparable](cond KeyCondition[K]) RepositoryOption[K] {
	return func(o *repositoryOptions[K]) { o.keyCondition = cond }
}

func newRepository[T shared.Entity[K], K comparable](db *gorm.DB, kind shared.EntityKind, uow stager, opts ...RepositoryOption[K]) *Repository[T, K] {
	o := repositoryOptions[K]{keyCondition: PrimaryKeyCondition[K]}
	for _, opt := range opts {
		opt(&o)
	}
	return &Repository[T, K]{db: db, kind: kind, uow: uow, keyCondition: o.keyCondition}
}

// getDB returns the transaction of the running Complete, or the session bound to ctx.
func (r *Repository[T, K]) getDB(ctx context.Context) *gorm.DB {
	return persistence.DBFromContext(ctx, r.db)
}

func (r *Repository[T, K]) GetByID(ctx context.Context, id K) (*T, error) {
	var entity T
	err := r.getDB(ctx).Model(new(T)).Where(r.keyCondition(id)).Take(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s by id: %w", r.kind, err)
	}
	return &entity, nil
}

func (r *Repository[T, K]) ListAll(ctx context.Context) ([]T, error) {
	var entities []T
	if err := r.getDB(ctx).Model(new(T)).Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind, err)
	}
	return entities, nil
}

func (r *Repository[T, K]) ListWithSpec(ctx context.Context, spec *shared.Specification[T]) ([]T, error) {
	query, err := specification.Evaluate(r.getDB(ctx), spec)
	if err != nil {
		return nil, err
	}
	var entities []T
	if err := query.Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("list %s with specification: %w", r.kind, err)
	}
	return entities, nil
}

// GetEntityWithSpec fetches at most two rows so that an ambiguous specification is detected.
func (r *Repository[T, K]) GetEntityWithSpec(ctx context.Context, spec *shared.Specification[T]) (*T, error) {
	query, err := specification.Evaluate(r.getDB(ctx), spec)
	if err != nil {
		return nil, err
	}
	if _, paged := spec.Paging(); !paged {
		query = query.Limit(2)
	}
	var entities []T
	if err := query.Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("get %s with specification: %w", r.kind, err)
	}
	switch len(entities) {
	case 0:
		return nil, nil
	case 1:
		return &entities[0], nil
	default:
		return nil, shared.NewMultipleResultsError(string(r.kind), len(entities))
	}
}

func (r *Repository[T, K]) Count(ctx context.Context, spec shared.CountSpecification[T]) (int64, error) {
	query, err := specification.EvaluateCount(r.getDB(ctx), spec)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := query.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", r.kind, err)
	}
	return n, nil
}

// Add stages an insert. Generated keys are written back into entity during Complete.
func (r *Repository[T, K]) Add(entity *T) {
	r.uow.stage(operation{kind: r.kind, action: actionAdd, apply: func(ctx context.Context) (int64, error) {
		res := r.getDB(ctx).Omit(clause.Associations).Create(entity)
		return res.RowsAffected, res.Error
	}})
}

// Update stages a full-row update of the non-association columns.
func (r *Repository[T, K]) Update(entity *T) {
	r.uow.stage(operation{kind: r.kind, action: actionUpdate, apply: func(ctx context.Context) (int64, error) {
		res := r.getDB(ctx).Model(entity).Select("*").Omit(clause.Associations).Updates(entity)
		return res.RowsAffected, res.Error
	}})
}

func (r *Repository[T, K]) Delete(entity *T) {
	r.uow.stage(operation{kind: r.kind, action: actionDelete, apply: func(ctx context.Context) (int64, error) {
		res := r.getDB(ctx).Delete(entity)
		return res.RowsAffected, res.Error
	}})
}
