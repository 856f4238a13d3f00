package api

import (
	"storefront/api/health"
	"storefront/api/middleware"
	"storefront/api/order"
	"storefront/config"
	"storefront/api/response"
	"storefront/domain/user"
	"storefront/pkg/errors"
	"storefront/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Router Route configuration
type Router struct {
	engine           *gin.Engine
	config           *config.Config
	metrics          *metrics.Registry
	authenticator    user.Authenticator
	healthController *health.Controller
	orderController  *order.Controller
}

// NewRouter metrics may be nil when exposition is disabled
func NewRouter(
	cfg *config.Config,
	reg *metrics.Registry,
	authenticator user.Authenticator,
	healthController *health.Controller,
	orderController *order.Controller,
) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// order matters: request id first so every later log line carries it
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	if reg != nil {
		engine.Use(middleware.MetricsMiddleware(reg))
	}
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit))

	return &Router{
		engine:           engine,
		config:           cfg,
		metrics:          reg,
		authenticator:    authenticator,
		healthController: healthController,
		orderController:  orderController,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	{
		r.healthController.RegisterRoutes(apiGroup)

		authed := apiGroup.Group("", middleware.AuthMiddleware(r.authenticator))
		r.orderController.RegisterRoutes(authed)
	}

	if r.metrics != nil {
		path := r.config.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(r.metrics.Handler()))
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})

	r.engine.NoRoute(func(c *gin.Context) {
		response.HandleAppError(c, errors.NotFound("route not found"))
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
