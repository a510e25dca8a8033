package repository

import (
	"context"

	"github.com/febryan/qrispay/internal/domain/model"
)

// OrderRepository describes persistence operations with payment orders.
// Orders are never deleted, only terminalized.
type OrderRepository interface {
	// Create persists a new pending order. Fails with ErrDuplicateOrderID when
	// the provider-visible identifier collides.
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByOrderID(ctx context.Context, orderID string) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	// UpdateStatus transitions an order that is still non-terminal. A terminal
	// transition clears the owning user's pending reference in the same
	// transaction. Orders already terminal are left untouched.
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus, details *model.PaymentDetails) error
	UpdateQRCodeURL(ctx context.Context, id int64, qrCodeURL string) error
	// SelectBatchForReconciliation returns non-terminal orders, oldest first.
	SelectBatchForReconciliation(ctx context.Context, limit int) ([]model.Order, error)
}
