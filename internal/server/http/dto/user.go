package dto

import "time"

// RegisterUserRequest is the payload for POST /api/users.
type RegisterUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserResponse is the wire representation of a customer.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
