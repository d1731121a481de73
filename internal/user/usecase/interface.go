// Package usecase implements the user business logic and orchestrates user domain operations.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/rememberme/internal/user/domain"
)

// RegisterUserInput contains the input data for user registration.
type RegisterUserInput struct {
	Name           string
	Surname        string
	Email          string
	Phone          string
	Birthday       string
	Password       string
	PasswordRetype string
	Role           domain.Role
}

// UpdateProfileInput contains the editable profile fields.
type UpdateProfileInput struct {
	Name     string
	Surname  string
	Phone    string
	Birthday string
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)
}

// UseCase defines the user business operations.
type UseCase interface {
	// Register validates input, hashes the password and stores a new user.
	Register(ctx context.Context, input RegisterUserInput) (*domain.User, error)

	// Authenticate verifies an email/password pair. Unknown emails and wrong passwords
	// both return ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// List returns a page of users.
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)

	// UpdateProfile edits name, surname, phone and birthday of a user.
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*domain.User, error)
}
