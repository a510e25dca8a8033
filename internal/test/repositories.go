package test

import (
	"context"
	"sync"

	domainErrors "github.com/febryan/qrispay/internal/domain/errors"
	"github.com/febryan/qrispay/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests. SetPendingOrder keeps
// the conditional-update semantics of the real store: it fails when the slot
// is already occupied.
type UserRepositoryStub struct {
	mu      sync.Mutex
	ByEmail map[string]*model.User
	ByID    map[int64]*model.User
	Next    int64
	Err     error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		ByEmail: make(map[string]*model.User),
		ByID:    make(map[int64]*model.User),
		Next:    1,
	}
}

// Add seeds a user and returns it.
func (s *UserRepositoryStub) Add(name, email string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := &model.User{ID: s.Next, Name: name, Email: email}
	s.Next++
	s.ByEmail[email] = user
	s.ByID[user.ID] = user
	return user
}

// GetOrCreate returns the user for email, creating it on first call.
func (s *UserRepositoryStub) GetOrCreate(ctx context.Context, name, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	if user, ok := s.ByEmail[email]; ok {
		s.mu.Unlock()
		return user, nil
	}
	s.mu.Unlock()
	return s.Add(name, email), nil
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrUserNotFound
}

// SetPendingOrder claims the user's pending slot, failing when occupied.
func (s *UserRepositoryStub) SetPendingOrder(ctx context.Context, userID, orderID int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.ByID[userID]
	if !ok {
		return domainErrors.ErrUserNotFound
	}
	if user.PendingOrderID != nil {
		return domainErrors.ErrOrderAlreadyPending
	}
	id := orderID
	user.PendingOrderID = &id
	return nil
}

// ClearPendingOrder drops the reference only when it matches orderID.
func (s *UserRepositoryStub) ClearPendingOrder(ctx context.Context, userID, orderID int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.ByID[userID]
	if !ok {
		return domainErrors.ErrUserNotFound
	}
	if user.PendingOrderID != nil && *user.PendingOrderID == orderID {
		user.PendingOrderID = nil
	}
	return nil
}

// OrderUpdateCall records a single UpdateStatus invocation.
type OrderUpdateCall struct {
	OrderID int64
	Status  model.OrderStatus
	Details *model.PaymentDetails
}

// OrderRepositoryStub stores orders in-memory and lets tests customize
// behaviour per method. When Users is set, terminal status updates clear the
// owner's pending reference the way the real store does inside a transaction.
type OrderRepositoryStub struct {
	mu sync.Mutex

	CreateFn         func(context.Context, *model.Order) (*model.Order, error)
	GetByOrderIDFn   func(context.Context, string) (*model.Order, error)
	GetByIDFn        func(context.Context, int64) (*model.Order, error)
	UpdateStatusFn   func(context.Context, int64, model.OrderStatus, *model.PaymentDetails) error
	SelectBatchFn    func(context.Context, int) ([]model.Order, error)
	UpdateQRCodeURLs []string

	Users *UserRepositoryStub

	Next        int64
	Orders      map[int64]*model.Order
	UpdateCalls []OrderUpdateCall
}

// NewOrderRepositoryStub constructs stub repository with initialized storage.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Next: 1, Orders: make(map[int64]*model.Order)}
}

// Create persists the order in-memory assigning a sequential id.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.Orders {
		if o.OrderID == order.OrderID {
			return nil, domainErrors.ErrDuplicateOrderID
		}
	}
	stored := *order
	stored.ID = s.Next
	s.Next++
	s.Orders[stored.ID] = &stored
	result := stored
	return &result, nil
}

// GetByOrderID returns matched order via override or stored map.
func (s *OrderRepositoryStub) GetByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	if s.GetByOrderIDFn != nil {
		return s.GetByOrderIDFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.Orders {
		if o.OrderID == orderID {
			order := *o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrOrderNotFound
}

// GetByID fetches order by internal identifier.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.Orders[id]; ok {
		order := *o
		return &order, nil
	}
	return nil, domainErrors.ErrOrderNotFound
}

// UpdateStatus records the call and applies the guarded transition.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, details *model.PaymentDetails) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, status, details)
	}
	s.mu.Lock()
	s.UpdateCalls = append(s.UpdateCalls, OrderUpdateCall{OrderID: orderID, Status: status, Details: details})
	order, ok := s.Orders[orderID]
	applied := ok && !order.Status.Terminal()
	if applied {
		order.Status = status
		if details != nil {
			txID := details.TransactionID
			method := details.PaymentMethod
			completed := details.CompletedAt
			order.TransactionID = &txID
			order.PaymentMethod = &method
			order.CompletedAt = &completed
		}
	}
	s.mu.Unlock()
	if applied && status.Terminal() && s.Users != nil {
		return s.Users.ClearPendingOrder(ctx, order.UserID, orderID)
	}
	return nil
}

// UpdateQRCodeURL stores the refreshed payload.
func (s *OrderRepositoryStub) UpdateQRCodeURL(ctx context.Context, orderID int64, qrCodeURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdateQRCodeURLs = append(s.UpdateQRCodeURLs, qrCodeURL)
	if o, ok := s.Orders[orderID]; ok {
		o.QRCodeURL = qrCodeURL
	}
	return nil
}

// SelectBatchForReconciliation returns non-terminal orders up to limit.
func (s *OrderRepositoryStub) SelectBatchForReconciliation(ctx context.Context, limit int) ([]model.Order, error) {
	if s.SelectBatchFn != nil {
		return s.SelectBatchFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var batch []model.Order
	for id := int64(1); id < s.Next && len(batch) < limit; id++ {
		if o, ok := s.Orders[id]; ok && !o.Status.Terminal() {
			batch = append(batch, *o)
		}
	}
	return batch, nil
}

// GatewayStub lets tests script provider behaviour.
type GatewayStub struct {
	ChargeFn func(context.Context, string, int64, model.Payer) (*model.ChargeResult, error)
	StatusFn func(context.Context, string) (*model.ProviderTransaction, error)

	ChargeCalls []string
	StatusCalls []string
}

// Charge tracks the order id and delegates to the override.
func (s *GatewayStub) Charge(ctx context.Context, orderID string, amount int64, payer model.Payer) (*model.ChargeResult, error) {
	s.ChargeCalls = append(s.ChargeCalls, orderID)
	if s.ChargeFn != nil {
		return s.ChargeFn(ctx, orderID, amount, payer)
	}
	return &model.ChargeResult{TransactionID: "tx-" + orderID, QRCodeURL: "https://qr.test/" + orderID}, nil
}

// Status tracks the order id and delegates to the override.
func (s *GatewayStub) Status(ctx context.Context, orderID string) (*model.ProviderTransaction, error) {
	s.StatusCalls = append(s.StatusCalls, orderID)
	if s.StatusFn != nil {
		return s.StatusFn(ctx, orderID)
	}
	return &model.ProviderTransaction{OrderID: orderID, TransactionStatus: model.TransactionStatusPending}, nil
}

// PublisherStub records published order status events.
type PublisherStub struct {
	mu     sync.Mutex
	Events []model.Order
}

// PublishOrderStatus appends a copy of the order.
func (s *PublisherStub) PublishOrderStatus(ctx context.Context, order *model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, *order)
}

// Published returns a snapshot of recorded events.
func (s *PublisherStub) Published() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Order, len(s.Events))
	copy(out, s.Events)
	return out
}
