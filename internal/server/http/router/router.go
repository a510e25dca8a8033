package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/febryan/qrispay/internal/metrics"
	"github.com/febryan/qrispay/internal/server/http/handlers"
	"github.com/febryan/qrispay/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StoreFacade, health handlers.HealthChecker, m *metrics.Metrics, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.CollectMetrics(m))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	userHandler := handlers.NewUserHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)
	healthHandler := handlers.NewHealthHandler(health)

	api := engine.Group("/api")
	api.POST("/users", userHandler.Register)
	api.GET("/health", healthHandler.Health)

	payment := api.Group("/payment")
	payment.POST("/create", paymentHandler.Create)
	payment.POST("/check", paymentHandler.Check)
	payment.POST("/check-pending", paymentHandler.CheckPending)
	payment.POST("/cancel", paymentHandler.Cancel)

	engine.GET("/metrics", gin.WrapH(m.Handler()))

	return engine
}
