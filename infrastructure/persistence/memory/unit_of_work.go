package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/domain"
	"storefront/domain/catalog"
	"storefront/domain/identity"
	"storefront/domain/shared"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"go.uber.org/zap"
)

const backend = "memory"

// ErrReleased is returned by Complete after Release.
var ErrReleased = errors.New("unit of work already released")

// UnitOfWork implements domain.UnitOfWork on a Store.
type UnitOfWork struct {
	store        *Store
	metrics      *metrics.Metrics
	repositories map[shared.EntityKind]any
	ops          []operation
	released     bool
}

func NewUnitOfWork(store *Store, m *metrics.Metrics) *UnitOfWork {
	return &UnitOfWork{
		store:        store,
		metrics:      m,
		repositories: make(map[shared.EntityKind]any),
	}
}

func (u *UnitOfWork) stage(op operation) {
	if u.released {
		return
	}
	u.ops = append(u.ops, op)
}

func repositoryFor[T shared.Entity[K], K comparable](u *UnitOfWork, kind shared.EntityKind, includer func(s *snapshot) Includer[T]) *Repository[T, K] {
	if repo, ok := u.repositories[kind]; ok {
		return repo.(*Repository[T, K])
	}
	repo := newRepository[T, K](u.store, kind, u, includer)
	u.repositories[kind] = repo
	return repo
}

func (u *UnitOfWork) Products() shared.Repository[catalog.Product, int] {
	return repositoryFor[catalog.Product, int](u, catalog.KindProduct, func(s *snapshot) Includer[catalog.Product] {
		return productIncluder{s: s}
	})
}

func (u *UnitOfWork) ProductBrands() shared.Repository[catalog.ProductBrand, int] {
	return repositoryFor[catalog.ProductBrand, int](u, catalog.KindProductBrand, nil)
}

func (u *UnitOfWork) ProductTypes() shared.Repository[catalog.ProductType, int] {
	return repositoryFor[catalog.ProductType, int](u, catalog.KindProductType, nil)
}

func (u *UnitOfWork) Photos() shared.Repository[catalog.Photo, int] {
	return repositoryFor[catalog.Photo, int](u, catalog.KindPhoto, nil)
}

func (u *UnitOfWork) Users() shared.Repository[identity.AppUser, string] {
	return repositoryFor[identity.AppUser, string](u, identity.KindUser, func(s *snapshot) Includer[identity.AppUser] {
		return userIncluder{s: s}
	})
}

func (u *UnitOfWork) Roles() shared.Repository[identity.Role, string] {
	return repositoryFor[identity.Role, string](u, identity.KindRole, nil)
}

func (u *UnitOfWork) UserRoles() shared.Repository[identity.UserRole, identity.UserRoleKey] {
	return repositoryFor[identity.UserRole, identity.UserRoleKey](u, identity.KindUserRole, nil)
}

func (u *UnitOfWork) Addresses() shared.Repository[identity.Address, int] {
	return repositoryFor[identity.Address, int](u, identity.KindAddress, nil)
}

// Complete applies the staged operations to a copy of the store and publishes it only if every
// operation succeeded.
func (u *UnitOfWork) Complete(ctx context.Context) (int64, error) {
	if u.released {
		return 0, ErrReleased
	}
	ops := u.ops
	u.ops = nil
	if len(ops) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	start := time.Now()
	log := logger.FromContext(ctx)

	var total int64
	err := u.store.write(func(next *snapshot) error {
		for i, op := range ops {
			n, err := op.apply(next)
			if err != nil {
				log.Warn("Unit of work rolled back",
					zap.Int("operation", i),
					zap.String("kind", string(op.kind)),
					zap.String("action", string(op.action)),
					zap.Error(err))
				return fmt.Errorf("%s %s: %w", op.action, op.kind, err)
			}
			total += n
		}
		return nil
	})
	if err != nil {
		u.metrics.RecordCommit(backend, 0, time.Since(start), err)
		return 0, err
	}

	u.metrics.RecordCommit(backend, total, time.Since(start), nil)
	log.Debug("Unit of work committed", zap.Int("operations", len(ops)), zap.Int64("rows", total))
	return total, nil
}

// Release drops staged operations and cached repositories.
func (u *UnitOfWork) Release() {
	u.ops = nil
	clear(u.repositories)
	u.released = true
}

// UnitOfWorkFactory creates units of work sharing one Store.
type UnitOfWorkFactory struct {
	store   *Store
	metrics *metrics.Metrics
}

func NewUnitOfWorkFactory(store *Store, m *metrics.Metrics) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, metrics: m}
}

func (f *UnitOfWorkFactory) New(ctx context.Context) (domain.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewUnitOfWork(f.store, f.metrics), nil
}

var (
	_ domain.UnitOfWork        = (*UnitOfWork)(nil)
	_ domain.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
)
