package cmd

import (
	"context"
	"fmt"

	"storefront/api/health"
	"storefront/config"
	"storefront/domain"
	"storefront/infrastructure/persistence/database"
	"storefront/infrastructure/persistence/memory"
	"storefront/infrastructure/persistence/retry"
	"storefront/infrastructure/persistence/seed"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"go.uber.org/zap"
)

// store is the selected persistence backend.
type store struct {
	uows   domain.UnitOfWorkFactory
	pinger health.Pinger
	close  func() error
}

// openStore selects the backend from database.type, migrates the schema and seeds empty tables.
func openStore(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*store, error) {
	var s *store
	switch cfg.Database.Type {
	case "memory":
		logger.Info("Using in-memory persistence layer")
		s = &store{
			uows:  memory.NewUnitOfWorkFactory(memory.NewStore(), m),
			close: func() error { return nil },
		}
	default:
		db, err := database.Open(ctx, database.FromAppConfig(cfg.Database), retry.FromAppConfig(cfg.Database.Retry))
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(db); err != nil {
				_ = database.Close(db)
				return nil, err
			}
			logger.Info("Database schema migrated")
		}
		s = &store{
			uows:   database.NewUnitOfWorkFactory(db, m),
			pinger: health.PingFunc(func(ctx context.Context) error { return database.Ping(ctx, db) }),
			close:  func() error { return database.Close(db) },
		}
	}

	if cfg.Database.Seed {
		admin := seed.Admin{DisplayName: "Admin", Email: cfg.Auth.AdminEmail, Password: cfg.Auth.AdminPassword}
		if err := seed.New(s.uows, admin).Run(ctx); err != nil {
			_ = s.close()
			return nil, fmt.Errorf("failed to seed data: %w", err)
		}
	}

	logger.Info("Persistence ready", zap.String("type", cfg.Database.Type), zap.Bool("seed", cfg.Database.Seed))
	return s, nil
}
