package dto

import "time"

// CreateOrderRequest is the payload for POST /api/payment/create.
type CreateOrderRequest struct {
	UserID      int64  `json:"userId"`
	ServiceType string `json:"serviceType"`
}

// CheckStatusRequest is the payload for POST /api/payment/check.
type CheckStatusRequest struct {
	OrderID string `json:"orderId"`
}

// CheckPendingRequest is the payload for POST /api/payment/check-pending.
type CheckPendingRequest struct {
	UserID int64 `json:"userId"`
}

// CancelOrderRequest is the payload for POST /api/payment/cancel.
type CancelOrderRequest struct {
	UserID  int64  `json:"userId"`
	OrderID string `json:"orderId"`
}

// OrderResponse is the wire representation of an order.
type OrderResponse struct {
	OrderID       string     `json:"orderId"`
	UserID        int64      `json:"userId"`
	ServiceType   string     `json:"serviceType"`
	Price         int64      `json:"price"`
	Status        string     `json:"status"`
	QRCodeURL     string     `json:"qrCodeUrl,omitempty"`
	TransactionID *string    `json:"transactionId,omitempty"`
	PaymentMethod *string    `json:"paymentMethod,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	ExpiryTime    time.Time  `json:"expiryTime"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

// CreateOrderResponse is returned on successful order creation.
type CreateOrderResponse struct {
	Success   bool          `json:"success"`
	Order     OrderResponse `json:"order"`
	QRCodeURL string        `json:"qrCodeUrl,omitempty"`
}

// CheckStatusResponse reports the reconciled order status.
type CheckStatusResponse struct {
	Success bool          `json:"success"`
	Status  string        `json:"status"`
	Order   OrderResponse `json:"order"`
	Error   string        `json:"error,omitempty"`
}

// CheckPendingResponse reports the user's currently active order.
type CheckPendingResponse struct {
	HasPendingOrder bool           `json:"hasPendingOrder"`
	Order           *OrderResponse `json:"order,omitempty"`
	QRCodeURL       string         `json:"qrCodeUrl,omitempty"`
	ExpiresIn       int64          `json:"expiresIn,omitempty"`
}

// CancelOrderResponse acknowledges a cancellation.
type CancelOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the uniform error payload. PendingOrder is populated when
// creation is rejected because the user already has an active order.
type ErrorResponse struct {
	Message      string         `json:"message"`
	PendingOrder *OrderResponse `json:"pendingOrder,omitempty"`
}
