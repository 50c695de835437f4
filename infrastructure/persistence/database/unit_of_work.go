package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/domain"
	"storefront/domain/catalog"
	"storefront/domain/identity"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrReleased is returned by Complete after Release.
var ErrReleased = errors.New("unit of work already released")

// UnitOfWork implements domain.UnitOfWork with GORM.
// Repositories are created on first access and cached per entity kind; their writes are
// collected in staging order and applied by Complete inside one transaction.
type UnitOfWork struct {
	db           *gorm.DB
	backend      string
	metrics      *metrics.Metrics
	repositories map[shared.EntityKind]any
	ops          []operation
	released     bool
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, m *metrics.Metrics) *UnitOfWork {
	return &UnitOfWork{
		db:           db,
		backend:      db.Dialector.Name(),
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

// repositoryFor returns the cached repository of kind, creating it on first use.
func repositoryFor[T shared.Entity[K], K comparable](u *UnitOfWork, kind shared.EntityKind, opts ...RepositoryOption[K]) *Repository[T, K] {
	if repo, ok := u.repositories[kind]; ok {
		return repo.(*Repository[T, K])
	}
	repo := newRepository[T, K](u.db, kind, u, opts...)
	u.repositories[kind] = repo
	return repo
}

func (u *UnitOfWork) Products() shared.Repository[catalog.Product, int] {
	return repositoryFor[catalog.Product, int](u, catalog.KindProduct)
}

func (u *UnitOfWork) ProductBrands() shared.Repository[catalog.ProductBrand, int] {
	return repositoryFor[catalog.ProductBrand, int](u, catalog.KindProductBrand)
}

func (u *UnitOfWork) ProductTypes() shared.Repository[catalog.ProductType, int] {
	return repositoryFor[catalog.ProductType, int](u, catalog.KindProductType)
}

func (u *UnitOfWork) Photos() shared.Repository[catalog.Photo, int] {
	return repositoryFor[catalog.Photo, int](u, catalog.KindPhoto)
}

func (u *UnitOfWork) Users() shared.Repository[identity.AppUser, string] {
	return repositoryFor[identity.AppUser, string](u, identity.KindUser)
}

func (u *UnitOfWork) Roles() shared.Repository[identity.Role, string] {
	return repositoryFor[identity.Role, string](u, identity.KindRole)
}

func (u *UnitOfWork) UserRoles() shared.Repository[identity.UserRole, identity.UserRoleKey] {
	return repositoryFor[identity.UserRole, identity.UserRoleKey](u, identity.KindUserRole,
		WithKeyCondition(func(key identity.UserRoleKey) clause.Expression {
			return clause.And(
				clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: "user_id"}, Value: key.UserID},
				clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: "role_id"}, Value: key.RoleID},
			)
		}))
}

func (u *UnitOfWork) Addresses() shared.Repository[identity.Address, int] {
	return repositoryFor[identity.Address, int](u, identity.KindAddress)
}

// Complete applies the staged operations in one transaction and returns the affected row count.
// On failure everything is rolled back and the staged operations are dropped.
func (u *UnitOfWork) Complete(ctx context.Context) (int64, error) {
	if u.released {
		return 0, ErrReleased
	}
	ops := u.ops
	u.ops = nil
	if len(ops) == 0 {
		return 0, nil
	}

	start := time.Now()
	log := logger.FromContext(ctx)

	// Begin transaction
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		err := fmt.Errorf("failed to begin transaction: %w", tx.Error)
		u.metrics.RecordCommit(u.backend, 0, time.Since(start), err)
		return 0, err
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	txCtx := persistence.ContextWithTx(ctx, tx)
	var total int64
	for i, op := range ops {
		n, err := op.apply(txCtx)
		if err != nil {
			if rbErr := tx.Rollback().Error; rbErr != nil {
				log.Error("Rollback failed", zap.Error(rbErr))
			}
			err = translateError(op, err)
			log.Warn("Unit of work rolled back",
				zap.Int("operation", i),
				zap.String("kind", string(op.kind)),
				zap.String("action", string(op.action)),
				zap.Error(err))
			u.metrics.RecordCommit(u.backend, 0, time.Since(start), err)
			return 0, err
		}
		total += n
	}

	// Commit transaction
	if err := tx.Commit().Error; err != nil {
		err = fmt.Errorf("failed to commit transaction: %w", err)
		u.metrics.RecordCommit(u.backend, 0, time.Since(start), err)
		return 0, err
	}

	u.metrics.RecordCommit(u.backend, total, time.Since(start), nil)
	log.Debug("Unit of work committed", zap.Int("operations", len(ops)), zap.Int64("rows", total))
	return total, nil
}

// translateError maps driver errors translated by GORM onto domain errors.
func translateError(op operation, err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s %s: %w: %w", op.action, op.kind, shared.ErrConflict, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s %s: %w: %w", op.action, op.kind, shared.ErrConflict, err)
	default:
		return fmt.Errorf("%s %s: %w", op.action, op.kind, err)
	}
}

// Release drops staged operations and cached repositories.
func (u *UnitOfWork) Release() {
	u.ops = nil
	clear(u.repositories)
	u.released = true
}

var _ domain.UnitOfWork = (*UnitOfWork)(nil)
