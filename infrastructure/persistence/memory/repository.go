package memory

import (
	"context"

	"storefront/domain/shared"
)

type action string

const (
	actionAdd    action = "add"
	actionUpdate action = "update"
	actionDelete action = "delete"
)

// operation is one staged write, applied to the next snapshot during Complete.
type operation struct {
	kind   shared.EntityKind
	action action
	apply  func(next *snapshot) (int64, error)
}

type stager interface {
	stage(op operation)
}

// Repository is the in-memory implementation of shared.Repository.
// Reads see the last committed snapshot; writes are staged on the owning unit of work.
type Repository[T shared.Entity[K], K comparable] struct {
	store    *Store
	kind     shared.EntityKind
	uow      stager
	includer func(s *snapshot) Includer[T]
}

func newRepository[T shared.Entity[K], K comparable](store *Store, kind shared.EntityKind, uow stager, includer func(s *snapshot) Includer[T]) *Repository[T, K] {
	if includer == nil {
		includer = func(*snapshot) Includer[T] { return noRelations[T]{kind: kind} }
	}
	return &Repository[T, K]{store: store, kind: kind, uow: uow, includer: includer}
}

func (r *Repository[T, K]) table(s *snapshot) *table[T, K] {
	return tableOf[T, K](s, r.kind)
}

func (r *Repository[T, K]) GetByID(ctx context.Context, id K) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var found *T
	err := r.store.read(func(s *snapshot) error {
		if v, ok := r.table(s).get(id); ok {
			found = &v
		}
		return nil
	})
	return found, err
}

func (r *Repository[T, K]) ListAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []T
	err := r.store.read(func(s *snapshot) error {
		rows = r.table(s).byKey()
		return nil
	})
	return rows, err
}

func (r *Repository[T, K]) ListWithSpec(ctx context.Context, spec *shared.Specification[T]) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []T
	err := r.store.read(func(s *snapshot) error {
		var err error
		rows, err = Evaluate(ctx, r.table(s).byKey(), spec, r.includer(s))
		return err
	})
	return rows, err
}

func (r *Repository[T, K]) GetEntityWithSpec(ctx context.Context, spec *shared.Specification[T]) (*T, error) {
	rows, err := r.ListWithSpec(ctx, spec)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return &rows[0], nil
	default:
		return nil, shared.NewMultipleResultsError(string(r.kind), len(rows))
	}
}

func (r *Repository[T, K]) Count(ctx context.Context, spec shared.CountSpecification[T]) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int64
	err := r.store.read(func(s *snapshot) error {
		n = EvaluateCount(ctx, r.table(s).all(), spec)
		return nil
	})
	return n, err
}

// Add stages an insert. Generated keys are written back into entity during Complete.
func (r *Repository[T, K]) Add(entity *T) {
	r.uow.stage(operation{kind: r.kind, action: actionAdd, apply: func(next *snapshot) (int64, error) {
		return r.table(next).insert(next, entity)
	}})
}

func (r *Repository[T, K]) Update(entity *T) {
	r.uow.stage(operation{kind: r.kind, action: actionUpdate, apply: func(next *snapshot) (int64, error) {
		return r.table(next).update(next, entity)
	}})
}

func (r *Repository[T, K]) Delete(entity *T) {
	r.uow.stage(operation{kind: r.kind, action: actionDelete, apply: func(next *snapshot) (int64, error) {
		return r.table(next).remove(next, entity)
	}})
}
