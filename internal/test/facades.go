package test

import (
	"context"
	"sync"

	"github.com/febryan/qrispay/internal/domain/model"
	"github.com/febryan/qrispay/internal/usecase"
)

// WorkerFacadeStub feeds the status poller with scripted batches. Each call to
// OrdersForReconciliation consumes the next batch; afterwards it returns empty
// slices.
type WorkerFacadeStub struct {
	sync.Mutex

	Orders      [][]model.Order
	ReconcileFn func(context.Context, model.Order) error

	FetchCalls int
	Reconciled []model.Order
}

// OrdersForReconciliation returns the next scripted batch.
func (s *WorkerFacadeStub) OrdersForReconciliation(ctx context.Context, limit int) ([]model.Order, error) {
	s.Lock()
	defer s.Unlock()
	s.FetchCalls++
	if len(s.Orders) == 0 {
		return nil, nil
	}
	batch := s.Orders[0]
	s.Orders = s.Orders[1:]
	if len(batch) > limit {
		batch = batch[:limit]
	}
	return batch, nil
}

// ReconcileOrder records the order and delegates to the override.
func (s *WorkerFacadeStub) ReconcileOrder(ctx context.Context, order model.Order) error {
	s.Lock()
	s.Reconciled = append(s.Reconciled, order)
	fn := s.ReconcileFn
	s.Unlock()
	if fn != nil {
		return fn(ctx, order)
	}
	return nil
}

// FacadeStub lets HTTP handler tests script application behaviour.
type FacadeStub struct {
	RegisterUserFn func(context.Context, string, string) (*model.User, error)
	CreateOrderFn  func(context.Context, int64, model.ServiceType) (*model.Order, error)
	CheckStatusFn  func(context.Context, string) (*usecase.StatusResult, error)
	CheckPendingFn func(context.Context, int64) (*usecase.PendingResult, error)
	CancelOrderFn  func(context.Context, int64, string) error
}

// RegisterUser delegates to the override.
func (s *FacadeStub) RegisterUser(ctx context.Context, name, email string) (*model.User, error) {
	return s.RegisterUserFn(ctx, name, email)
}

// CreateOrder delegates to the override.
func (s *FacadeStub) CreateOrder(ctx context.Context, userID int64, serviceType model.ServiceType) (*model.Order, error) {
	return s.CreateOrderFn(ctx, userID, serviceType)
}

// CheckStatus delegates to the override.
func (s *FacadeStub) CheckStatus(ctx context.Context, orderID string) (*usecase.StatusResult, error) {
	return s.CheckStatusFn(ctx, orderID)
}

// CheckPending delegates to the override.
func (s *FacadeStub) CheckPending(ctx context.Context, userID int64) (*usecase.PendingResult, error) {
	return s.CheckPendingFn(ctx, userID)
}

// CancelOrder delegates to the override.
func (s *FacadeStub) CancelOrder(ctx context.Context, userID int64, orderID string) error {
	return s.CancelOrderFn(ctx, userID, orderID)
}

// HealthCheckerStub reports a configurable health state.
type HealthCheckerStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s *HealthCheckerStub) HealthCheck(ctx context.Context) error {
	return s.Err
}
