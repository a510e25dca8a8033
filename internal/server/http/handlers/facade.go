package handlers

import (
	"context"

	"github.com/febryan/qrispay/internal/domain/model"
	"github.com/febryan/qrispay/internal/usecase"
)

// UserFacade describes customer operations required by handlers.
type UserFacade interface {
	RegisterUser(ctx context.Context, name, email string) (*model.User, error)
}

// PaymentFacade encapsulates payment operations exposed via HTTP.
type PaymentFacade interface {
	CreateOrder(ctx context.Context, userID int64, serviceType model.ServiceType) (*model.Order, error)
	CheckStatus(ctx context.Context, orderID string) (*usecase.StatusResult, error)
	CheckPending(ctx context.Context, userID int64) (*usecase.PendingResult, error)
	CancelOrder(ctx context.Context, userID int64, orderID string) error
}

// StoreFacade aggregates the full set of operations used across handlers.
type StoreFacade interface {
	UserFacade
	PaymentFacade
}

// HealthChecker reports storage availability for the health endpoint.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
