package events

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/febryan/qrispay/internal/config"
	"github.com/febryan/qrispay/internal/usecase"
)

// Module wires the order status event publisher. Without configured brokers
// the application runs with a no-op publisher.
var Module = fx.Options(
	fx.Provide(newPublisher),
	fx.Provide(func(p Publisher) usecase.EventPublisher { return p }),
	fx.Invoke(registerLifecycle),
)

type publisherParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newPublisher(p publisherParams) Publisher {
	if len(p.Config.KafkaBrokers) == 0 {
		return NoopPublisher{}
	}
	return NewKafkaPublisher(p.Config.KafkaBrokers, p.Config.KafkaTopic, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, publisher Publisher) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
}
