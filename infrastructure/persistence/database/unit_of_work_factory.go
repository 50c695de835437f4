package database

import (
	"context"

	"storefront/domain"
	"storefront/pkg/metrics"

	"gorm.io/gorm"
)

type UnitOfWorkFactory struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

func NewUnitOfWorkFactory(db *gorm.DB, m *metrics.Metrics) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		db:      db,
		metrics: m,
	}
}

// New creates a unit of work for one request. It fails only when ctx is already done.
func (f *UnitOfWorkFactory) New(ctx context.Context) (domain.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewUnitOfWork(f.db, f.metrics), nil
}

var _ domain.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
