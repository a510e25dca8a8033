package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/febryan/qrispay/internal/domain/errors"
	"github.com/febryan/qrispay/internal/domain/model"
	"github.com/febryan/qrispay/internal/domain/repository"
)

// UserUseCase handles customer registration and lookup.
type UserUseCase struct {
	users repository.UserRepository
}

// NewUserUseCase constructs UserUseCase.
func NewUserUseCase(users repository.UserRepository) *UserUseCase {
	return &UserUseCase{users: users}
}

// Register returns the customer for the given email, creating it on the first
// purchase attempt. Idempotent by email.
func (u *UserUseCase) Register(ctx context.Context, name, email string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return nil, domainErrors.ErrInvalidName
	}
	if !ValidateEmail(email) {
		return nil, domainErrors.ErrInvalidEmail
	}

	return u.users.GetOrCreate(ctx, name, email)
}

// GetByID fetches user by identifier.
func (u *UserUseCase) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}
