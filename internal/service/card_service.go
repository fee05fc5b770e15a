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

// CardService implements the card ledger.
type CardService struct {
	cards store.CardStore
	lists store.ListStore
	guard *auth.Guard
	tx    store.TxRunner
}

// NewCardService creates a new card service.
func NewCardService(cards store.CardStore, lists store.ListStore, guard *auth.Guard, tx store.TxRunner) *CardService {
	return &CardService{
		cards: cards,
		lists: lists,
		guard: guard,
		tx:    tx,
	}
}

// CardUpdate is the partial-update payload for a card. Each field is
// tri-state: absent leaves the stored value alone, an explicit null clears
// it (due date and description only), a value replaces it.
type CardUpdate struct {
	Title       models.Optional[string]
	Description models.Optional[string]
	DueAt       models.Optional[time.Time]
}

// GetByList returns the list's cards sorted ascending by position. Equal
// positions fall back to id order.
func (s *CardService) GetByList(ctx context.Context, actorID, listID uuid.UUID) ([]*models.CardDetail, error) {
	if _, _, err := s.guard.List(ctx, actorID, listID); err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return nil, notFound("list")
		}
		return nil, err
	}

	return s.cards.ListByList(ctx, listID)
}

// GetByBoard returns every list on the board mapped to its ordered card
// sequence. Lists without cards are present with an empty slice, so callers
// can render the whole board from one call.
func (s *CardService) GetByBoard(ctx context.Context, actorID, boardID uuid.UUID) (map[uuid.UUID][]*models.CardDetail, error) {
	if _, _, err := s.guard.Board(ctx, actorID, boardID); err != nil {
		if errors.Is(err, store.ErrBoardNotFound) {
			return nil, notFound("board")
		}
		return nil, err
	}

	lists, err := s.lists.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]*models.CardDetail, len(lists))
	for _, list := range lists {
		grouped[list.ListID] = []*models.CardDetail{}
	}

	cards, err := s.cards.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	// cards arrive position-ordered; appending preserves that per list
	for _, card := range cards {
		grouped[card.ListID] = append(grouped[card.ListID], card)
	}

	return grouped, nil
}

// GetByID retrieves a card with its creator hydrated.
func (s *CardService) GetByID(ctx context.Context, actorID, cardID uuid.UUID) (*models.CardDetail, error) {
	_, card, err := s.guard.Card(ctx, actorID, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, notFound("card")
		}
		return nil, err
	}

	return card, nil
}

// Create creates a card in the list. When position is absent the card lands
// after the current last one: max(existing positions) + 1, so the first card
// in an empty list gets 1. The returned card carries the creator's public
// identity.
func (s *CardService) Create(ctx context.Context, actorID, listID uuid.UUID, title, description string, dueAt *time.Time, position models.Optional[float64]) (*models.CardDetail, error) {
	if _, _, err := s.guard.List(ctx, actorID, listID); err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return nil, notFound("list")
		}
		return nil, err
	}

	pos, ok := position.Get()
	if !ok {
		max, err := s.cards.MaxPosition(ctx, listID)
		if err != nil {
			return nil, err
		}
		pos = max + 1
	}

	cardID, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	card := &models.Card{
		CardID:      cardID,
		ListID:      listID,
		Title:       title,
		Description: description,
		Position:    pos,
		DueAt:       dueAt,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.cards.Create(ctx, card); err != nil {
		return nil, err
	}

	return s.cards.Get(ctx, cardID)
}

// Update applies a partial update. An absent field is untouched; an explicit
// null clears the due date (or empties the description); the title cannot be
// cleared.
func (s *CardService) Update(ctx context.Context, actorID, cardID uuid.UUID, upd CardUpdate) (*models.CardDetail, error) {
	_, detail, err := s.guard.Card(ctx, actorID, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, notFound("card")
		}
		return nil, err
	}

	card := detail.Card

	if upd.Title.Clear() {
		return nil, invalid("card title cannot be cleared")
	}
	if v, ok := upd.Title.Get(); ok {
		card.Title = v
	}
	if upd.Description.Clear() {
		card.Description = ""
	} else if v, ok := upd.Description.Get(); ok {
		card.Description = v
	}
	if upd.DueAt.Clear() {
		card.DueAt = nil
	} else if v, ok := upd.DueAt.Get(); ok {
		card.DueAt = &v
	}

	if err := s.cards.Update(ctx, &card); err != nil {
		return nil, err
	}

	return s.cards.Get(ctx, cardID)
}

// Move moves the card to the target list at the given position. The actor
// must have access to both the card's current list and the target list;
// either check failing leaves the card untouched. The list reference and
// position change in a single write.
func (s *CardService) Move(ctx context.Context, actorID, cardID, targetListID uuid.UUID, position float64) (*models.CardDetail, error) {
	_, detail, err := s.guard.Card(ctx, actorID, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, notFound("card")
		}
		return nil, err
	}

	if _, _, err := s.guard.List(ctx, actorID, targetListID); err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return nil, invalid("no such list %s", targetListID)
		}
		return nil, err
	}

	card := detail.Card
	card.ListID = targetListID
	card.Position = position

	if err := s.cards.Update(ctx, &card); err != nil {
		return nil, err
	}

	log.Debug().
		Str("card_id", cardID.String()).
		Str("list_id", targetListID.String()).
		Float64("position", position).
		Msg("Moved card")

	return s.cards.Get(ctx, cardID)
}

// Delete removes the card and its comments in one transaction.
func (s *CardService) Delete(ctx context.Context, actorID, cardID uuid.UUID) error {
	_, _, err := s.guard.Card(ctx, actorID, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return notFound("card")
		}
		return err
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.cards.Delete(ctx, cardID)
	})
}
