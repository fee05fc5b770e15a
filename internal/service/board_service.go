package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/taskboard/internal/auth"
	"github.com/wolfeidau/taskboard/internal/models"
	"github.com/wolfeidau/taskboard/internal/store"
)

// BoardService implements the board registry. Board reads deliberately merge
// "does not exist", "archived" and "not yours" into ErrNotFound so the
// existence of boards in other organizations cannot be probed.
type BoardService struct {
	boards store.BoardStore
	lists  store.ListStore
	guard  *auth.Guard
	tx     store.TxRunner
}

// NewBoardService creates a new board service.
func NewBoardService(boards store.BoardStore, lists store.ListStore, guard *auth.Guard, tx store.TxRunner) *BoardService {
	return &BoardService{
		boards: boards,
		lists:  lists,
		guard:  guard,
		tx:     tx,
	}
}

// Create creates a board and its three default lists ("To Do", "In Progress",
// "Done" at positions 1, 2, 3) in one transaction. Any membership role on the
// organization suffices.
func (s *BoardService) Create(ctx context.Context, actorID, orgID uuid.UUID, name, description string) (*models.Board, []*models.List, error) {
	if _, err := s.guard.Organization(ctx, actorID, orgID); err != nil {
		return nil, nil, err
	}

	boardID, err := uuid.NewV7()
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	board := &models.Board{
		BoardID:     boardID,
		OrgID:       orgID,
		Name:        name,
		Description: description,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	lists := make([]*models.List, 0, len(models.DefaultLists))
	for _, d := range models.DefaultLists {
		listID, err := uuid.NewV7()
		if err != nil {
			return nil, nil, err
		}
		lists = append(lists, &models.List{
			ListID:    listID,
			BoardID:   boardID,
			Name:      d.Name,
			Position:  d.Position,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.boards.Create(ctx, board); err != nil {
			return err
		}
		for _, list := range lists {
			if err := s.lists.Create(ctx, list); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info().
		Str("board_id", boardID.String()).
		Str("org_id", orgID.String()).
		Msg("Created board with default lists")

	return board, lists, nil
}

// ListByOrganization returns the organization's non-archived boards. An actor
// with no membership gets an empty slice, not an error; at this boundary "no
// access" and "no boards" are indistinguishable.
func (s *BoardService) ListByOrganization(ctx context.Context, actorID, orgID uuid.UUID) ([]*models.Board, error) {
	if _, err := s.guard.Organization(ctx, actorID, orgID); err != nil {
		if errors.Is(err, auth.ErrAccessDenied) {
			return []*models.Board{}, nil
		}
		return nil, err
	}

	boards, err := s.boards.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if boards == nil {
		boards = []*models.Board{}
	}
	return boards, nil
}

// Get retrieves a board. Missing, archived and inaccessible boards all
// return ErrNotFound.
func (s *BoardService) Get(ctx context.Context, actorID, boardID uuid.UUID) (*models.Board, error) {
	_, board, err := s.guard.Board(ctx, actorID, boardID)
	if err != nil {
		if errors.Is(err, store.ErrBoardNotFound) || errors.Is(err, auth.ErrAccessDenied) {
			return nil, notFound("board")
		}
		return nil, err
	}

	if board.Archived() {
		return nil, notFound("board")
	}

	return board, nil
}

// Update applies a partial update to the board's name and description. It
// resolves the board through Get, so archived and inaccessible boards are
// ErrNotFound here too.
func (s *BoardService) Update(ctx context.Context, actorID, boardID uuid.UUID, name, description models.Optional[string]) (*models.Board, error) {
	board, err := s.Get(ctx, actorID, boardID)
	if err != nil {
		return nil, err
	}

	if name.Clear() {
		return nil, invalid("board name cannot be cleared")
	}
	if v, ok := name.Get(); ok {
		board.Name = v
	}
	if description.Clear() {
		board.Description = ""
	} else if v, ok := description.Get(); ok {
		board.Description = v
	}

	if err := s.boards.Update(ctx, board); err != nil {
		return nil, err
	}

	return board, nil
}

// Archive soft-archives the board. Its lists and cards stay queryable by ID
// but the board stops surfacing through ListByOrganization.
func (s *BoardService) Archive(ctx context.Context, actorID, boardID uuid.UUID) error {
	board, err := s.Get(ctx, actorID, boardID)
	if err != nil {
		return err
	}

	now := time.Now()
	board.ArchivedAt = &now

	if err := s.boards.Update(ctx, board); err != nil {
		return err
	}

	log.Info().
		Str("board_id", boardID.String()).
		Msg("Archived board")

	return nil
}

// Unarchive restores an archived board. Requires at least admin, and is the
// one board operation that resolves archived boards by ID.
func (s *BoardService) Unarchive(ctx context.Context, actorID, boardID uuid.UUID) (*models.Board, error) {
	grant, board, err := s.guard.Board(ctx, actorID, boardID)
	if err != nil {
		if errors.Is(err, store.ErrBoardNotFound) || errors.Is(err, auth.ErrAccessDenied) {
			return nil, notFound("board")
		}
		return nil, err
	}
	if err := grant.Require(models.RoleAdmin); err != nil {
		return nil, err
	}

	board.ArchivedAt = nil
	if err := s.boards.Update(ctx, board); err != nil {
		return nil, err
	}

	return board, nil
}
