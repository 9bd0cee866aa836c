package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data access contract for users
type Repository interface {
	// Create returns ErrEmailAlreadyExists when the email is taken
	Create(ctx context.Context, user *User) error

	// FindByID returns ErrUserNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail returns ErrUserNotFound when missing
	FindByEmail(ctx context.Context, email string) (*User, error)
}
