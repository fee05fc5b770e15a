package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/taskboard/internal/models"
	"github.com/wolfeidau/taskboard/internal/store"
)

// ListStore implements store.ListStore using PostgreSQL.
type ListStore struct {
	db *DB
}

// NewListStore creates a new PostgreSQL-backed list store.
func NewListStore(db *DB) *ListStore {
	return &ListStore{
		db: db,
	}
}

// Create creates a new list in the database.
func (s *ListStore) Create(ctx context.Context, list *models.List) error {
	query := `
		INSERT INTO lists (
			list_id, board_id, name, position, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.db.conn(ctx).Exec(ctx, query,
		list.ListID,
		list.BoardID,
		list.Name,
		list.Position,
		list.CreatedAt,
		list.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	log.Debug().
		Str("list_id", list.ListID.String()).
		Str("board_id", list.BoardID.String()).
		Float64("position", list.Position).
		Msg("Created list")

	return nil
}

// Get retrieves a list by ID.
func (s *ListStore) Get(ctx context.Context, listID uuid.UUID) (*models.List, error) {
	query := `
		SELECT list_id, board_id, name, position, created_at, updated_at
		FROM lists
		WHERE list_id = $1
	`

	var list models.List
	err := s.db.conn(ctx).QueryRow(ctx, query, listID).Scan(
		&list.ListID,
		&list.BoardID,
		&list.Name,
		&list.Position,
		&list.CreatedAt,
		&list.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrListNotFound
		}
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	return &list, nil
}

// Update updates an existing list.
func (s *ListStore) Update(ctx context.Context, list *models.List) error {
	list.UpdatedAt = time.Now()

	query := `
		UPDATE lists SET
			name = $2,
			position = $3,
			updated_at = $4
		WHERE list_id = $1
	`

	result, err := s.db.conn(ctx).Exec(ctx, query,
		list.ListID,
		list.Name,
		list.Position,
		list.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrListNotFound
	}

	log.Debug().
		Str("list_id", list.ListID.String()).
		Msg("Updated list")

	return nil
}

// Delete removes the list row.
func (s *ListStore) Delete(ctx context.Context, listID uuid.UUID) error {
	query := `DELETE FROM lists WHERE list_id = $1`

	result, err := s.db.conn(ctx).Exec(ctx, query, listID)
	if err != nil {
		// cards_list_id_fkey is ON DELETE RESTRICT: on this path the list
		// exists and still has cards, which is not the missing-parent case
		// the shared mapping covers.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation && pgErr.ConstraintName == "cards_list_id_fkey" {
			return fmt.Errorf("%w: %s", store.ErrListNotEmpty, pgErr.Detail)
		}
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrListNotFound
	}

	log.Debug().
		Str("list_id", listID.String()).
		Msg("Deleted list")

	return nil
}

// ListByBoard returns the board's lists ordered by position, ties broken by id.
func (s *ListStore) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*models.List, error) {
	query := `
		SELECT list_id, board_id, name, position, created_at, updated_at
		FROM lists
		WHERE board_id = $1
		ORDER BY position, list_id
	`

	rows, err := s.db.conn(ctx).Query(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer rows.Close()

	var lists []*models.List
	for rows.Next() {
		var list models.List
		err := rows.Scan(
			&list.ListID,
			&list.BoardID,
			&list.Name,
			&list.Position,
			&list.CreatedAt,
			&list.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, &list)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lists: %w", err)
	}

	return lists, nil
}

// MaxPosition returns the highest list position on the board, 0 when none.
func (s *ListStore) MaxPosition(ctx context.Context, boardID uuid.UUID) (float64, error) {
	query := `SELECT coalesce(max(position), 0) FROM lists WHERE board_id = $1`

	var max float64
	if err := s.db.conn(ctx).QueryRow(ctx, query, boardID).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to get max list position: %w", err)
	}

	return max, nil
}
