package midtrans

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/febryan/qrispay/internal/config"
)

// Module exposes the provider client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.MidtransBaseURL, p.Config.MidtransServerKey, p.Logger)
}
