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

// BoardStore implements store.BoardStore using PostgreSQL.
type BoardStore struct {
	db *DB
}

// NewBoardStore creates a new PostgreSQL-backed board store.
func NewBoardStore(db *DB) *BoardStore {
	return &BoardStore{
		db: db,
	}
}

// Create creates a new board in the database.
func (s *BoardStore) Create(ctx context.Context, board *models.Board) error {
	query := `
		INSERT INTO boards (
			board_id, org_id, name, description, created_by, archived_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := s.db.conn(ctx).Exec(ctx, query,
		board.BoardID,
		board.OrgID,
		board.Name,
		board.Description,
		board.CreatedBy,
		board.ArchivedAt,
		board.CreatedAt,
		board.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	log.Debug().
		Str("board_id", board.BoardID.String()).
		Str("org_id", board.OrgID.String()).
		Msg("Created board")

	return nil
}

// Get retrieves a board by ID, archived or not.
func (s *BoardStore) Get(ctx context.Context, boardID uuid.UUID) (*models.Board, error) {
	query := `
		SELECT board_id, org_id, name, description, created_by, archived_at, created_at, updated_at
		FROM boards
		WHERE board_id = $1
	`

	var board models.Board
	err := s.db.conn(ctx).QueryRow(ctx, query, boardID).Scan(
		&board.BoardID,
		&board.OrgID,
		&board.Name,
		&board.Description,
		&board.CreatedBy,
		&board.ArchivedAt,
		&board.CreatedAt,
		&board.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to get board: %w", err)
	}

	return &board, nil
}

// Update updates an existing board, including the archived timestamp.
func (s *BoardStore) Update(ctx context.Context, board *models.Board) error {
	board.UpdatedAt = time.Now()

	query := `
		UPDATE boards SET
			name = $2,
			description = $3,
			archived_at = $4,
			updated_at = $5
		WHERE board_id = $1
	`

	result, err := s.db.conn(ctx).Exec(ctx, query,
		board.BoardID,
		board.Name,
		board.Description,
		board.ArchivedAt,
		board.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrBoardNotFound
	}

	log.Debug().
		Str("board_id", board.BoardID.String()).
		Msg("Updated board")

	return nil
}

// ListByOrganization returns the organization's non-archived boards, oldest
// first.
func (s *BoardStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.Board, error) {
	query := `
		SELECT board_id, org_id, name, description, created_by, archived_at, created_at, updated_at
		FROM boards
		WHERE org_id = $1 AND archived_at IS NULL
		ORDER BY created_at, board_id
	`

	rows, err := s.db.conn(ctx).Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	var boards []*models.Board
	for rows.Next() {
		var board models.Board
		err := rows.Scan(
			&board.BoardID,
			&board.OrgID,
			&board.Name,
			&board.Description,
			&board.CreatedBy,
			&board.ArchivedAt,
			&board.CreatedAt,
			&board.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		boards = append(boards, &board)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating boards: %w", err)
	}

	return boards, nil
}
