package errors

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderAlreadyPending = errors.New("order already pending")
	ErrOrderNotOwned       = errors.New("order not owned by user")
	ErrDuplicateOrderID    = errors.New("duplicate order id")
	ErrInvalidServiceType  = errors.New("invalid service type")
	ErrInvalidEmail        = errors.New("invalid email")
	ErrInvalidName         = errors.New("invalid name")
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrProviderRejected    = errors.New("payment provider rejected charge")
)
