package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/taskboard/internal/models"
)

// Sentinel errors for user store operations
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserStore defines the interface for user storage operations.
type UserStore interface {
	// Create creates a new user.
	// Returns ErrEmailTaken if a user with the same email already exists.
	Create(ctx context.Context, user *models.User) error

	// Get retrieves a user by ID.
	// Returns ErrUserNotFound if the user doesn't exist.
	Get(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by email, matched case-insensitively.
	// Returns ErrUserNotFound if no user has that email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Update updates an existing user.
	// Returns ErrUserNotFound if the user doesn't exist.
	Update(ctx context.Context, user *models.User) error

	// First returns the earliest-created user in the system.
	// Returns ErrUserNotFound when no users exist. Used to resolve the
	// automation actor when no system actor is configured.
	First(ctx context.Context) (*models.User, error)
}
