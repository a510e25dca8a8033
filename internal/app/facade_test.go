package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	domainErrors "github.com/febryan/qrispay/internal/domain/errors"
	"github.com/febryan/qrispay/internal/domain/model"
	testhelpers "github.com/febryan/qrispay/internal/test"
	"github.com/febryan/qrispay/internal/usecase"
)

func newFacade() (*PaymentFacade, *testhelpers.UserRepositoryStub, *testhelpers.OrderRepositoryStub, *testhelpers.GatewayStub) {
	users := testhelpers.NewUserRepositoryStub()
	orders := testhelpers.NewOrderRepositoryStub()
	orders.Users = users
	gateway := &testhelpers.GatewayStub{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	userUC := usecase.NewUserUseCase(users)
	paymentUC := usecase.NewPaymentUseCase(users, orders, gateway, &testhelpers.PublisherStub{}, 15*time.Minute, logger)

	return NewPaymentFacade(userUC, paymentUC), users, orders, gateway
}

func TestPaymentFacadeRegisterUser(t *testing.T) {
	facade, users, _, _ := newFacade()

	user, err := facade.RegisterUser(context.Background(), "Budi", "budi@example.com")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	again, err := facade.RegisterUser(context.Background(), "Budi", "budi@example.com")
	if err != nil {
		t.Fatalf("second register returned error: %v", err)
	}
	if again.ID != user.ID {
		t.Fatalf("expected idempotent registration, got ids %d and %d", user.ID, again.ID)
	}

	if _, err := facade.RegisterUser(context.Background(), "", "budi@example.com"); !errors.Is(err, domainErrors.ErrInvalidName) {
		t.Fatalf("expected invalid name error, got %v", err)
	}

	if len(users.ByEmail) != 1 {
		t.Fatalf("expected single stored user, got %d", len(users.ByEmail))
	}
}

func TestPaymentFacadeOrderLifecycle(t *testing.T) {
	facade, _, _, gateway := newFacade()

	user, err := facade.RegisterUser(context.Background(), "Budi", "budi@example.com")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	order, err := facade.CreateOrder(context.Background(), user.ID, model.ServiceLanding)
	if err != nil {
		t.Fatalf("create order returned error: %v", err)
	}
	if order.Price != 250000 {
		t.Fatalf("unexpected price %d", order.Price)
	}

	pending, err := facade.CheckPending(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("check pending returned error: %v", err)
	}
	if !pending.HasPendingOrder || pending.Order.OrderID != order.OrderID {
		t.Fatalf("expected pending order %q, got %+v", order.OrderID, pending)
	}

	gateway.StatusFn = func(ctx context.Context, orderID string) (*model.ProviderTransaction, error) {
		return &model.ProviderTransaction{
			OrderID:           orderID,
			TransactionID:     "tx-final",
			TransactionStatus: model.TransactionStatusSettlement,
			PaymentType:       "qris",
		}, nil
	}

	result, err := facade.CheckStatus(context.Background(), order.OrderID)
	if err != nil {
		t.Fatalf("check status returned error: %v", err)
	}
	if result.Order.Status != model.OrderStatusSuccess {
		t.Fatalf("expected success status, got %v", result.Order.Status)
	}

	pending, err = facade.CheckPending(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("check pending after settlement returned error: %v", err)
	}
	if pending.HasPendingOrder {
		t.Fatalf("expected no pending order after settlement, got %+v", pending)
	}
}

func TestPaymentFacadeCancelAndReconcile(t *testing.T) {
	facade, _, orders, _ := newFacade()

	user, err := facade.RegisterUser(context.Background(), "Budi", "budi@example.com")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	order, err := facade.CreateOrder(context.Background(), user.ID, model.ServicePortfolio)
	if err != nil {
		t.Fatalf("create order returned error: %v", err)
	}

	batch, err := facade.OrdersForReconciliation(context.Background(), 10)
	if err != nil || len(batch) != 1 {
		t.Fatalf("expected one order for reconciliation, got %v err=%v", batch, err)
	}

	if err := facade.ReconcileOrder(context.Background(), batch[0]); err != nil {
		t.Fatalf("reconcile returned error: %v", err)
	}

	if err := facade.CancelOrder(context.Background(), user.ID, order.OrderID); err != nil {
		t.Fatalf("cancel returned error: %v", err)
	}
	stored, err := orders.GetByOrderID(context.Background(), order.OrderID)
	if err != nil {
		t.Fatalf("stored order lookup failed: %v", err)
	}
	if stored.Status != model.OrderStatusCancelled {
		t.Fatalf("expected cancelled status, got %v", stored.Status)
	}
}
