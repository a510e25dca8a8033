package di

import (
	"go.uber.org/fx"

	"github.com/febryan/qrispay/internal/adapter/midtrans"
	"github.com/febryan/qrispay/internal/app"
	"github.com/febryan/qrispay/internal/config"
	"github.com/febryan/qrispay/internal/events"
	"github.com/febryan/qrispay/internal/logger"
	"github.com/febryan/qrispay/internal/metrics"
	"github.com/febryan/qrispay/internal/server/http/router"
	"github.com/febryan/qrispay/internal/storage/postgres"
	"github.com/febryan/qrispay/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		midtrans.Module,
		fx.Provide(func(client midtrans.Client) usecase.Gateway { return client }),
		events.Module,
		metrics.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
