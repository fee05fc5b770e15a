package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/taskboard/internal/models"
)

// Sentinel errors for board and list store operations
var (
	ErrBoardNotFound = errors.New("board not found")
	ErrListNotFound  = errors.New("list not found")
	ErrListNotEmpty  = errors.New("list still has cards")
)

// BoardStore defines the interface for board storage operations.
type BoardStore interface {
	// Create creates a new board.
	Create(ctx context.Context, board *models.Board) error

	// Get retrieves a board by ID, archived or not.
	// Returns ErrBoardNotFound if the board doesn't exist.
	Get(ctx context.Context, boardID uuid.UUID) (*models.Board, error)

	// Update updates an existing board, including the archived timestamp.
	// Returns ErrBoardNotFound if the board doesn't exist.
	Update(ctx context.Context, board *models.Board) error

	// ListByOrganization returns the organization's non-archived boards,
	// oldest first.
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.Board, error)
}

// ListStore defines the interface for list storage operations.
type ListStore interface {
	// Create creates a new list.
	Create(ctx context.Context, list *models.List) error

	// Get retrieves a list by ID.
	// Returns ErrListNotFound if the list doesn't exist.
	Get(ctx context.Context, listID uuid.UUID) (*models.List, error)

	// Update updates an existing list.
	// Returns ErrListNotFound if the list doesn't exist.
	Update(ctx context.Context, list *models.List) error

	// Delete removes the list row. It does not touch cards; callers enforce
	// the empty-list precondition first.
	// Returns ErrListNotFound if the list doesn't exist, ErrListNotEmpty if
	// cards still reference it.
	Delete(ctx context.Context, listID uuid.UUID) error

	// ListByBoard returns the board's lists ordered by position, ties broken
	// by id.
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*models.List, error)

	// MaxPosition returns the highest list position on the board, 0 when the
	// board has no lists.
	MaxPosition(ctx context.Context, boardID uuid.UUID) (float64, error)
}
