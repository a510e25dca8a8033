package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus describes payment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusSuccess    OrderStatus = "success"
	OrderStatusFailed     OrderStatus = "failed"
	OrderStatusExpired    OrderStatus = "expired"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Terminal reports whether no further transition may leave the status.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusSuccess, OrderStatusFailed, OrderStatusExpired, OrderStatusCancelled:
		return true
	}
	return false
}

// ServiceType identifies one of the fixed service tiers offered by the studio.
type ServiceType string

const (
	ServicePortfolio ServiceType = "portfolio"
	ServiceLanding   ServiceType = "landing"
	ServiceCustom    ServiceType = "custom"
)

// tierPrices is the only source of order prices, in IDR minor units.
// Client-supplied prices are never trusted.
var tierPrices = map[ServiceType]int64{
	ServicePortfolio: 100000,
	ServiceLanding:   250000,
	ServiceCustom:    400000,
}

// PriceFor returns the fixed price for a service tier.
func PriceFor(serviceType ServiceType) (int64, bool) {
	price, ok := tierPrices[serviceType]
	return price, ok
}

// Order describes a single payment attempt for one service tier.
type Order struct {
	ID            int64
	OrderID       string
	UserID        int64
	ServiceType   ServiceType
	Price         int64
	Status        OrderStatus
	QRCodeURL     string
	TransactionID *string
	PaymentMethod *string
	CreatedAt     time.Time
	ExpiryTime    time.Time
	CompletedAt   *time.Time
	UpdatedAt     time.Time
}

// PaymentDetails carries provider settlement data persisted on a successful
// transition.
type PaymentDetails struct {
	TransactionID string
	PaymentMethod string
	CompletedAt   time.Time
}

// NewOrderID generates a provider-visible order identifier. Uniqueness is
// enforced by the store; callers retry with a fresh identifier on collision.
func NewOrderID(now time.Time) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("ORDER-%d-%s", now.UnixMilli(), suffix)
}
