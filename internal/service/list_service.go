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

// ListService implements the list ledger. Every operation re-derives
// board -> organization -> membership on the call; there is no shortcut
// through a previously fetched board.
type ListService struct {
	lists store.ListStore
	cards store.CardStore
	guard *auth.Guard
}

// NewListService creates a new list service.
func NewListService(lists store.ListStore, cards store.CardStore, guard *auth.Guard) *ListService {
	return &ListService{
		lists: lists,
		cards: cards,
		guard: guard,
	}
}

// ListByBoard returns the board's lists ordered by position. The board may
// be archived; its lists stay reachable by ID-scoped reads.
func (s *ListService) ListByBoard(ctx context.Context, actorID, boardID uuid.UUID) ([]*models.List, error) {
	if _, _, err := s.guard.Board(ctx, actorID, boardID); err != nil {
		if errors.Is(err, store.ErrBoardNotFound) {
			return nil, notFound("board")
		}
		return nil, err
	}

	return s.lists.ListByBoard(ctx, boardID)
}

// Create creates a list on the board. When position is absent the list lands
// after the current last one: max(existing positions) + 1, so the first list
// on an empty board gets 1.
func (s *ListService) Create(ctx context.Context, actorID, boardID uuid.UUID, name string, position models.Optional[float64]) (*models.List, error) {
	if _, _, err := s.guard.Board(ctx, actorID, boardID); err != nil {
		if errors.Is(err, store.ErrBoardNotFound) {
			return nil, notFound("board")
		}
		return nil, err
	}

	pos, ok := position.Get()
	if !ok {
		max, err := s.lists.MaxPosition(ctx, boardID)
		if err != nil {
			return nil, err
		}
		pos = max + 1
	}

	listID, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	list := &models.List{
		ListID:    listID,
		BoardID:   boardID,
		Name:      name,
		Position:  pos,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.lists.Create(ctx, list); err != nil {
		return nil, err
	}

	return list, nil
}

// UpdateName renames the list.
func (s *ListService) UpdateName(ctx context.Context, actorID, listID uuid.UUID, name string) (*models.List, error) {
	_, list, err := s.guard.List(ctx, actorID, listID)
	if err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return nil, notFound("list")
		}
		return nil, err
	}

	list.Name = name
	if err := s.lists.Update(ctx, list); err != nil {
		return nil, err
	}

	return list, nil
}

// UpdatePosition sets the list's position to the caller-supplied value as-is.
// No collision resolution or renormalization happens; two lists may end up on
// the same position, in which case reads fall back to id order.
func (s *ListService) UpdatePosition(ctx context.Context, actorID, listID uuid.UUID, position float64) (*models.List, error) {
	_, list, err := s.guard.List(ctx, actorID, listID)
	if err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return nil, notFound("list")
		}
		return nil, err
	}

	list.Position = position
	if err := s.lists.Update(ctx, list); err != nil {
		return nil, err
	}

	return list, nil
}

// Delete removes an empty list. Deleting a list that still holds cards fails
// with ErrConflict; callers move or delete the cards first.
func (s *ListService) Delete(ctx context.Context, actorID, listID uuid.UUID) error {
	_, _, err := s.guard.List(ctx, actorID, listID)
	if err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return notFound("list")
		}
		return err
	}

	count, err := s.cards.CountByList(ctx, listID)
	if err != nil {
		return err
	}
	if count > 0 {
		return conflict(errors.New("list still has cards"))
	}

	if err := s.lists.Delete(ctx, listID); err != nil {
		// a card created between the count and the delete trips the FK
		if errors.Is(err, store.ErrListNotEmpty) {
			return conflict(err)
		}
		return err
	}

	log.Info().
		Str("list_id", listID.String()).
		Msg("Deleted list")

	return nil
}
