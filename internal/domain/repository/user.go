package repository

import (
	"context"

	"github.com/febryan/qrispay/internal/domain/model"
)

// UserRepository describes persistence operations for customers.
type UserRepository interface {
	// GetOrCreate returns the user with the given email, creating it on first
	// purchase attempt. Idempotent by email.
	GetOrCreate(ctx context.Context, name, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// SetPendingOrder points the user at a live order. The update is
	// conditional: it fails with ErrOrderAlreadyPending when the reference is
	// already occupied, never overwriting it.
	SetPendingOrder(ctx context.Context, userID, orderID int64) error
	// ClearPendingOrder drops the reference only while it still points at the
	// given order.
	ClearPendingOrder(ctx context.Context, userID, orderID int64) error
}
