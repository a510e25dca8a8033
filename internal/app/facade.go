package app

import (
	"context"

	"github.com/febryan/qrispay/internal/domain/model"
	"github.com/febryan/qrispay/internal/usecase"
)

// PaymentFacade is the application surface consumed by the HTTP layer and the
// background poller.
type PaymentFacade struct {
	users    *usecase.UserUseCase
	payments *usecase.PaymentUseCase
}

// NewPaymentFacade constructs the application facade.
func NewPaymentFacade(users *usecase.UserUseCase, payments *usecase.PaymentUseCase) *PaymentFacade {
	return &PaymentFacade{users: users, payments: payments}
}

// RegisterUser returns the customer for the email, creating it when missing.
func (f *PaymentFacade) RegisterUser(ctx context.Context, name, email string) (*model.User, error) {
	return f.users.Register(ctx, name, email)
}

// CreateOrder opens a new payment for the user.
func (f *PaymentFacade) CreateOrder(ctx context.Context, userID int64, serviceType model.ServiceType) (*model.Order, error) {
	return f.payments.CreateOrder(ctx, userID, serviceType)
}

// CheckStatus reconciles a single order with the provider.
func (f *PaymentFacade) CheckStatus(ctx context.Context, orderID string) (*usecase.StatusResult, error) {
	return f.payments.CheckStatus(ctx, orderID)
}

// CheckPending reports the user's active order, if any.
func (f *PaymentFacade) CheckPending(ctx context.Context, userID int64) (*usecase.PendingResult, error) {
	return f.payments.CheckPending(ctx, userID)
}

// CancelOrder terminalizes the user's order.
func (f *PaymentFacade) CancelOrder(ctx context.Context, userID int64, orderID string) error {
	return f.payments.CancelOrder(ctx, userID, orderID)
}

// OrdersForReconciliation returns non-terminal orders for the poller.
func (f *PaymentFacade) OrdersForReconciliation(ctx context.Context, limit int) ([]model.Order, error) {
	return f.payments.OrdersForReconciliation(ctx, limit)
}

// ReconcileOrder runs a single reconciliation round for the order.
func (f *PaymentFacade) ReconcileOrder(ctx context.Context, order model.Order) error {
	return f.payments.ReconcileOrder(ctx, order)
}
