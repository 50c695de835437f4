package cmd

import (
	"context"
	"net/http"

	"storefront/api"
	"storefront/api/account"
	"storefront/api/catalog"
	"storefront/api/health"
	accountapp "storefront/application/account"
	"storefront/application/admin"
	catalogapp "storefront/application/catalog"
	"storefront/config"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// AppBuilder builds an App from configuration
type AppBuilder struct {
	cfg      *config.Config
	registry *prometheus.Registry
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// WithRegistry exposes metrics from registry instead of a fresh one; used by tests.
func (b *AppBuilder) WithRegistry(registry *prometheus.Registry) *AppBuilder {
	b.registry = registry
	return b
}

// Build wires persistence, services, controllers and the HTTP server.
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env))

	registry := b.registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := metrics.NewWithRegisterer(registry)

	s, err := openStore(ctx, b.cfg, m)
	if err != nil {
		return nil, err
	}

	tokens := accountapp.NewTokenService(b.cfg.Auth.TokenKey, b.cfg.Auth.Issuer, b.cfg.Auth.TokenTTL)
	catalogService := catalogapp.NewService(s.uows, b.cfg.App.APIURL)
	accountService := accountapp.NewService(s.uows, tokens)
	adminService := admin.NewService(s.uows)

	router := api.NewRouter(b.cfg, m, registry, tokens,
		health.NewController(b.cfg, s.pinger),
		catalog.NewController(catalogService),
		account.NewController(accountService, adminService),
	)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config: b.cfg,
		router: router,
		server: server,
		store:  s,
	}, nil
}
