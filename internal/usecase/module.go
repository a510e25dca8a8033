package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/febryan/qrispay/internal/config"
	"github.com/febryan/qrispay/internal/domain/repository"
)

// Module wires use cases into the application graph.
var Module = fx.Options(
	fx.Provide(NewUserUseCase),
	fx.Provide(newPaymentUseCase),
)

type paymentParams struct {
	fx.In

	Users     repository.UserRepository
	Orders    repository.OrderRepository
	Gateway   Gateway
	Publisher EventPublisher
	Config    *config.Config
	Logger    *slog.Logger
}

func newPaymentUseCase(p paymentParams) *PaymentUseCase {
	return NewPaymentUseCase(p.Users, p.Orders, p.Gateway, p.Publisher, p.Config.OrderTTL, p.Logger)
}
