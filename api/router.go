package api

import (
	"net/http"

	"storefront/api/account"
	"storefront/api/catalog"
	"storefront/api/health"
	"storefront/api/middleware"
	"storefront/config"
	"storefront/domain/identity"
	"storefront/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router Route configuration
type Router struct {
	engine            *gin.Engine
	config            *config.Config
	tokens            middleware.TokenParser
	gatherer          prometheus.Gatherer
	healthController  *health.Controller
	catalogController *catalog.Controller
	accountController *account.Controller
}

// NewRouter Create route configuration. gatherer backs /metrics and may be nil.
func NewRouter(
	cfg *config.Config,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	tokens middleware.TokenParser,
	healthController *health.Controller,
	catalogController *catalog.Controller,
	accountController *account.Controller,
) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// order matters
	engine.Use(middleware.RequestIDMiddleware())                      // 1. Generate request ID first
	engine.Use(middleware.RecoveryMiddleware())                       // 2. Recovery middleware
	engine.Use(middleware.LoggingMiddleware())                        // 3. Logging middleware
	engine.Use(middleware.MetricsMiddleware(m))                       // 4. Metrics
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))                  // 5. CORS
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit)) // 6. Rate limiting

	return &Router{
		engine:            engine,
		config:            cfg,
		tokens:            tokens,
		gatherer:          gatherer,
		healthController:  healthController,
		catalogController: catalogController,
		accountController: accountController,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	authenticated := middleware.AuthMiddleware(r.tokens)
	adminOnly := middleware.RequireRole(identity.RoleAdmin)

	r.healthController.RegisterRoutes(r.engine)

	apiGroup := r.engine.Group("/api/v1")
	{
		r.catalogController.RegisterRoutes(apiGroup, authenticated, adminOnly)
		r.accountController.RegisterRoutes(apiGroup, authenticated, adminOnly)
	}

	if r.gatherer != nil {
		r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/health",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
