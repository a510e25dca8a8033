package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainErrors "github.com/febryan/qrispay/internal/domain/errors"
	"github.com/febryan/qrispay/internal/domain/model"
	"github.com/febryan/qrispay/internal/domain/repository"
	"github.com/febryan/qrispay/internal/pkg/userlock"
)

// Gateway is the slice of the payment provider the lifecycle core needs.
type Gateway interface {
	Charge(ctx context.Context, orderID string, amount int64, payer model.Payer) (*model.ChargeResult, error)
	Status(ctx context.Context, orderID string) (*model.ProviderTransaction, error)
}

// EventPublisher announces order status transitions. Publishing is
// best-effort and must never fail the transition itself.
type EventPublisher interface {
	PublishOrderStatus(ctx context.Context, order *model.Order)
}

// StatusResult is the outcome of a status check. GatewayErr carries a
// non-fatal provider communication failure: the order reflects the last
// persisted state in that case.
type StatusResult struct {
	Order      *model.Order
	GatewayErr error
}

// PendingResult describes the user's currently active order, if any.
type PendingResult struct {
	HasPendingOrder bool
	Order           *model.Order
	QRCodeURL       string
	ExpiresIn       time.Duration
}

// createAttempts bounds order-id regeneration on store collisions.
const createAttempts = 3

// PaymentUseCase encapsulates the order/payment lifecycle.
type PaymentUseCase struct {
	users     repository.UserRepository
	orders    repository.OrderRepository
	gateway   Gateway
	publisher EventPublisher
	locks     *userlock.Set
	orderTTL  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(
	users repository.UserRepository,
	orders repository.OrderRepository,
	gateway Gateway,
	publisher EventPublisher,
	orderTTL time.Duration,
	logger *slog.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		users:     users,
		orders:    orders,
		gateway:   gateway,
		publisher: publisher,
		locks:     userlock.NewSet(),
		orderTTL:  orderTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateOrder charges the provider and persists a new pending order for the
// user. A user holding a live order gets that order back together with
// ErrOrderAlreadyPending so the caller can resume it.
func (u *PaymentUseCase) CreateOrder(ctx context.Context, userID int64, serviceType model.ServiceType) (*model.Order, error) {
	unlock := u.locks.Lock(userID)
	defer unlock()

	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.PendingOrderID != nil {
		existing, err := u.orders.GetByID(ctx, *user.PendingOrderID)
		switch {
		case err == nil && !existing.Status.Terminal():
			return existing, domainErrors.ErrOrderAlreadyPending
		case err != nil && !errors.Is(err, domainErrors.ErrOrderNotFound):
			return nil, err
		}
		// Stale reference to a terminal or missing order: self-heal.
		if err := u.users.ClearPendingOrder(ctx, userID, *user.PendingOrderID); err != nil {
			return nil, err
		}
	}

	price, ok := model.PriceFor(serviceType)
	if !ok {
		return nil, domainErrors.ErrInvalidServiceType
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		now := u.now()
		orderID := model.NewOrderID(now)

		charge, err := u.gateway.Charge(ctx, orderID, price, model.Payer{Name: user.Name, Email: user.Email})
		if err != nil {
			return nil, err
		}

		transactionID := charge.TransactionID
		order := &model.Order{
			OrderID:       orderID,
			UserID:        userID,
			ServiceType:   serviceType,
			Price:         price,
			Status:        model.OrderStatusPending,
			QRCodeURL:     charge.QRCodeURL,
			TransactionID: &transactionID,
			ExpiryTime:    now.Add(u.orderTTL),
		}

		created, err := u.orders.Create(ctx, order)
		if errors.Is(err, domainErrors.ErrDuplicateOrderID) {
			u.logger.Warn("order id collision, retrying", slog.String("order_id", orderID))
			continue
		}
		if err != nil {
			return nil, err
		}

		if err := u.users.SetPendingOrder(ctx, userID, created.ID); err != nil {
			if errors.Is(err, domainErrors.ErrOrderAlreadyPending) {
				return u.resolveCreateRace(ctx, userID, created)
			}
			return nil, err
		}

		u.publish(ctx, created)
		return created, nil
	}

	return nil, domainErrors.ErrDuplicateOrderID
}

// resolveCreateRace handles a concurrent create from another instance that
// won the user's pending reference after our charge succeeded. The fresh
// order is terminalized so it never competes, and the winner is returned.
func (u *PaymentUseCase) resolveCreateRace(ctx context.Context, userID int64, fresh *model.Order) (*model.Order, error) {
	if err := u.orders.UpdateStatus(ctx, fresh.ID, model.OrderStatusCancelled, nil); err != nil {
		u.logger.Error("cancel superseded order failed",
			slog.String("order_id", fresh.OrderID),
			slog.String("error", err.Error()),
		)
	}

	user, err := u.users.GetByID(ctx, userID)
	if err == nil && user.PendingOrderID != nil {
		if winner, err := u.orders.GetByID(ctx, *user.PendingOrderID); err == nil {
			return winner, domainErrors.ErrOrderAlreadyPending
		}
	}
	return nil, domainErrors.ErrOrderAlreadyPending
}

// CheckStatus reconciles a single order with the provider. Terminal orders
// are returned as-is without a provider round trip. Provider unavailability
// never regresses persisted state: the last known status is returned with the
// gateway error attached as an annotation.
func (u *PaymentUseCase) CheckStatus(ctx context.Context, orderID string) (*StatusResult, error) {
	order, err := u.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status.Terminal() {
		return &StatusResult{Order: order}, nil
	}

	tx, err := u.gateway.Status(ctx, order.OrderID)
	if err != nil {
		u.logger.Warn("provider status check failed",
			slog.String("order_id", order.OrderID),
			slog.String("error", err.Error()),
		)
		return &StatusResult{Order: order, GatewayErr: err}, nil
	}

	mapped, changed := model.MapTransactionStatus(tx.TransactionStatus)
	if !changed || mapped == order.Status {
		return &StatusResult{Order: order}, nil
	}

	var details *model.PaymentDetails
	if mapped == model.OrderStatusSuccess {
		details = &model.PaymentDetails{
			TransactionID: tx.TransactionID,
			PaymentMethod: tx.PaymentType,
			CompletedAt:   u.now(),
		}
	}

	if err := u.orders.UpdateStatus(ctx, order.ID, mapped, details); err != nil {
		return nil, err
	}

	order.Status = mapped
	if details != nil {
		order.TransactionID = &details.TransactionID
		order.PaymentMethod = &details.PaymentMethod
		completedAt := details.CompletedAt
		order.CompletedAt = &completedAt
	}

	u.publish(ctx, order)
	return &StatusResult{Order: order}, nil
}

// CheckPending reports the user's currently active order. Stale references
// are healed, overdue orders are expired, and the QR payload is refreshed
// from the provider only when the stored one is missing.
func (u *PaymentUseCase) CheckPending(ctx context.Context, userID int64) (*PendingResult, error) {
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.PendingOrderID == nil {
		return &PendingResult{}, nil
	}

	order, err := u.orders.GetByID(ctx, *user.PendingOrderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrOrderNotFound) {
			if err := u.users.ClearPendingOrder(ctx, userID, *user.PendingOrderID); err != nil {
				return nil, err
			}
			return &PendingResult{}, nil
		}
		return nil, err
	}

	if order.Status != model.OrderStatusPending {
		if err := u.users.ClearPendingOrder(ctx, userID, order.ID); err != nil {
			return nil, err
		}
		return &PendingResult{}, nil
	}

	now := u.now()
	if now.After(order.ExpiryTime) {
		if err := u.expire(ctx, order); err != nil {
			return nil, err
		}
		return &PendingResult{}, nil
	}

	qrCodeURL := order.QRCodeURL
	if qrCodeURL == "" {
		// Best-effort refresh; keep the prior payload on failure.
		if tx, err := u.gateway.Status(ctx, order.OrderID); err == nil && tx.QRCodeURL != "" {
			qrCodeURL = tx.QRCodeURL
			order.QRCodeURL = qrCodeURL
			if err := u.orders.UpdateQRCodeURL(ctx, order.ID, qrCodeURL); err != nil {
				u.logger.Warn("persist refreshed qr payload failed",
					slog.String("order_id", order.OrderID),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	return &PendingResult{
		HasPendingOrder: true,
		Order:           order,
		QRCodeURL:       qrCodeURL,
		ExpiresIn:       order.ExpiryTime.Sub(now),
	}, nil
}

// CancelOrder terminalizes the user's order. Orders already terminal are a
// no-op success.
func (u *PaymentUseCase) CancelOrder(ctx context.Context, userID int64, orderID string) error {
	unlock := u.locks.Lock(userID)
	defer unlock()

	if _, err := u.users.GetByID(ctx, userID); err != nil {
		return err
	}

	order, err := u.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.UserID != userID {
		return domainErrors.ErrOrderNotOwned
	}

	if order.Status.Terminal() {
		return nil
	}

	if err := u.orders.UpdateStatus(ctx, order.ID, model.OrderStatusCancelled, nil); err != nil {
		return err
	}

	order.Status = model.OrderStatusCancelled
	u.publish(ctx, order)
	return nil
}

// OrdersForReconciliation returns non-terminal orders for the status poller.
func (u *PaymentUseCase) OrdersForReconciliation(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.SelectBatchForReconciliation(ctx, limit)
}

// ReconcileOrder is the poller entry point: overdue orders are expired
// locally, everything else goes through a provider status round.
func (u *PaymentUseCase) ReconcileOrder(ctx context.Context, order model.Order) error {
	if order.Status.Terminal() {
		return nil
	}

	if u.now().After(order.ExpiryTime) {
		return u.expire(ctx, &order)
	}

	result, err := u.CheckStatus(ctx, order.OrderID)
	if err != nil {
		return err
	}
	return result.GatewayErr
}

func (u *PaymentUseCase) expire(ctx context.Context, order *model.Order) error {
	if err := u.orders.UpdateStatus(ctx, order.ID, model.OrderStatusExpired, nil); err != nil {
		return err
	}
	order.Status = model.OrderStatusExpired
	u.publish(ctx, order)
	return nil
}

func (u *PaymentUseCase) publish(ctx context.Context, order *model.Order) {
	if u.publisher != nil {
		u.publisher.PublishOrderStatus(ctx, order)
	}
}
