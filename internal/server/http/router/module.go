package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/febryan/qrispay/internal/app"
	"github.com/febryan/qrispay/internal/metrics"
	"github.com/febryan/qrispay/internal/storage/postgres"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(newRouter)

type routerParams struct {
	fx.In

	Facade  *app.PaymentFacade
	Storage *postgres.Storage
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

func newRouter(p routerParams) *gin.Engine {
	return Setup(p.Facade, p.Storage, p.Metrics, p.Logger)
}
