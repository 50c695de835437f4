package shared

import "context"

// Entity is anything with a durable primary key.
type Entity[K comparable] interface {
	GetID() K
}

// EntityKind tags an entity type. A unit of work caches one repository per kind.
type EntityKind string

// Repository is the data-access facade over one entity type.
//
// Reads run immediately. Add, Update and Delete only stage a change; it becomes durable when
// the owning unit of work completes.
type Repository[T Entity[K], K comparable] interface {
	// GetByID returns nil, nil when no row has the key.
	GetByID(ctx context.Context, id K) (*T, error)

	ListAll(ctx context.Context) ([]T, error)

	// ListWithSpec evaluates spec: filter, includes, ordering, paging.
	ListWithSpec(ctx context.Context, spec *Specification[T]) ([]T, error)

	// GetEntityWithSpec returns nil, nil when nothing matches and an ErrMultipleResults
	// error when more than one row does.
	GetEntityWithSpec(ctx context.Context, spec *Specification[T]) (*T, error)

	Count(ctx context.Context, spec CountSpecification[T]) (int64, error)

	Add(entity *T)
	Update(entity *T)
	Delete(entity *T)
}
