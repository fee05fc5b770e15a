package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/taskboard/internal/models"
	"github.com/wolfeidau/taskboard/internal/store"
)

// UserStore implements store.UserStore using PostgreSQL.
type UserStore struct {
	db *DB
}

// NewUserStore creates a new PostgreSQL-backed user store.
// It shares the connection pool with the other stores.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{
		db: db,
	}
}

// Create creates a new user in the database.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			user_id, email, password_hash, name, avatar_url, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := s.db.conn(ctx).Exec(ctx, query,
		user.UserID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	log.Debug().
		Str("user_id", user.UserID.String()).
		Msg("Created user")

	return nil
}

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	query := `
		SELECT user_id, email, password_hash, name, avatar_url, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`

	return s.scanUser(s.db.conn(ctx).QueryRow(ctx, query, userID))
}

// GetByEmail retrieves a user by email, matched case-insensitively.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT user_id, email, password_hash, name, avatar_url, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)
	`

	return s.scanUser(s.db.conn(ctx).QueryRow(ctx, query, email))
}

// Update updates an existing user.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users SET
			email = $2,
			password_hash = $3,
			name = $4,
			avatar_url = $5,
			updated_at = $6
		WHERE user_id = $1
	`

	result, err := s.db.conn(ctx).Exec(ctx, query,
		user.UserID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.AvatarURL,
		user.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrUserNotFound
	}

	log.Debug().
		Str("user_id", user.UserID.String()).
		Msg("Updated user")

	return nil
}

// First returns the earliest-created user in the system.
func (s *UserStore) First(ctx context.Context) (*models.User, error) {
	query := `
		SELECT user_id, email, password_hash, name, avatar_url, created_at, updated_at
		FROM users
		ORDER BY created_at, user_id
		LIMIT 1
	`

	return s.scanUser(s.db.conn(ctx).QueryRow(ctx, query))
}

func (s *UserStore) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.UserID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
