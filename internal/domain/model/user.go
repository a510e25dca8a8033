package model

import "time"

// User represents a customer of the studio. Users are created on the first
// purchase attempt and hold at most one reference to a live order.
type User struct {
	ID             int64
	Name           string
	Email          string
	PendingOrderID *int64
	CreatedAt      time.Time
}
