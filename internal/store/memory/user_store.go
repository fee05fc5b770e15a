package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/taskboard/internal/models"
	"github.com/wolfeidau/taskboard/internal/store"
)

// UserStore implements store.UserStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
type UserStore struct {
	mu sync.RWMutex

	users map[uuid.UUID]*models.User // user_id -> User
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[uuid.UUID]*models.User),
	}
}

// Create creates a new user in memory.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return store.ErrEmailTaken
		}
	}

	// Clone to avoid external modifications
	clone := *user
	s.users[user.UserID] = &clone

	return nil
}

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[userID]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

// GetByEmail retrieves a user by email, case-insensitively.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}

	return nil, store.ErrUserNotFound
}

// Update updates an existing user.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.UserID]; !exists {
		return store.ErrUserNotFound
	}

	user.UpdatedAt = time.Now()

	clone := *user
	s.users[user.UserID] = &clone

	return nil
}

// First returns the earliest-created user.
func (s *UserStore) First(ctx context.Context) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var first *models.User
	for _, user := range s.users {
		if first == nil || user.CreatedAt.Before(first.CreatedAt) {
			first = user
		}
	}

	if first == nil {
		return nil, store.ErrUserNotFound
	}

	clone := *first
	return &clone, nil
}
