package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-backend/internal/config"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-backend/internal/domain/repository"
	"github.com/sangkips/pos-backend/internal/presentation/http/handler"
	"github.com/sangkips/pos-backend/internal/presentation/http/middleware"
	"github.com/sangkips/pos-backend/pkg/logger"
	"github.com/sangkips/pos-backend/pkg/utils"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Order   *handler.OrderHandler
	Payment *handler.PaymentHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Log             *logger.Logger
	// Stop ends background work such as rate limiter cleanup.
	Stop <-chan struct{}
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(deps.Cfg.Telemetry.ServiceName))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleCashier))

		rateLimiter := middleware.NewOperatorRateLimiter(rateLimiterConfig(deps.Cfg.RateLimit), deps.Stop)
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps, log)
	}

	return router
}

func rateLimiterConfig(cfg config.RateLimitConfig) middleware.RateLimiterConfig {
	rlc := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rlc.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rlc.BurstSize = cfg.Requests
	}
	rlc.CleanupInterval = 5 * time.Minute
	return rlc
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps, log *logger.Logger) {
	protected.GET("/profile", h.Auth.GetProfile)
	protected.GET("/payment-methods", h.Payment.ListMethods)

	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
		Log:  log,
	})

	orders := protected.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.POST("", idempotent, h.Order.Create)
		orders.GET("/:id", h.Order.Get)
		orders.POST("/:id/void", h.Order.Void)
		orders.GET("/:id/payments", h.Order.ListPayments)
		orders.POST("/:id/payments", idempotent, h.Order.CreatePayment)
	}

	payments := protected.Group("/payments")
	{
		payments.GET("/:id", h.Payment.Get)
		payments.PUT("/:id", h.Payment.Update)
		payments.POST("/:id/void", h.Payment.Void)
	}
}
