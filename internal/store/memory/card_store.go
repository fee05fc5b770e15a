package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/taskboard/internal/models"
	"github.com/wolfeidau/taskboard/internal/store"
)

// CardStore implements store.CardStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
// It consults the user store to hydrate CardDetail, the list store to resolve
// board membership of lists, and the comment store for the delete cascade --
// the joins and FK cascade the postgres implementation gets from the database.
type CardStore struct {
	mu sync.RWMutex

	cards    map[uuid.UUID]*models.Card // card_id -> Card
	users    *UserStore
	lists    *ListStore
	comments *CommentStore
}

// NewCardStore creates a new in-memory card store.
func NewCardStore(users *UserStore, lists *ListStore, comments *CommentStore) *CardStore {
	return &CardStore{
		cards:    make(map[uuid.UUID]*models.Card),
		users:    users,
		lists:    lists,
		comments: comments,
	}
}

// Create creates a new card in memory.
func (s *CardStore) Create(ctx context.Context, card *models.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *card
	s.cards[card.CardID] = &clone

	return nil
}

// Get retrieves a card by ID with its creator hydrated.
func (s *CardStore) Get(ctx context.Context, cardID uuid.UUID) (*models.CardDetail, error) {
	s.mu.RLock()
	card, exists := s.cards[cardID]
	if !exists {
		s.mu.RUnlock()
		return nil, store.ErrCardNotFound
	}
	clone := *card
	s.mu.RUnlock()

	return s.hydrate(ctx, &clone)
}

// Update updates an existing card, including list reference and position.
func (s *CardStore) Update(ctx context.Context, card *models.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cards[card.CardID]; !exists {
		return store.ErrCardNotFound
	}

	card.UpdatedAt = time.Now()

	clone := *card
	s.cards[card.CardID] = &clone

	return nil
}

// Delete removes the card and its comments.
func (s *CardStore) Delete(ctx context.Context, cardID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cards[cardID]; !exists {
		return store.ErrCardNotFound
	}

	delete(s.cards, cardID)
	s.comments.deleteByCard(cardID)

	return nil
}

// ListByList returns the list's cards ordered by position, ties broken by id.
func (s *CardStore) ListByList(ctx context.Context, listID uuid.UUID) ([]*models.CardDetail, error) {
	s.mu.RLock()
	var cards []*models.Card
	for _, card := range s.cards {
		if card.ListID == listID {
			clone := *card
			cards = append(cards, &clone)
		}
	}
	s.mu.RUnlock()

	return s.hydrateSorted(ctx, cards)
}

// ListByBoard returns every card on the board ordered by position, ties
// broken by id.
func (s *CardStore) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*models.CardDetail, error) {
	lists, err := s.lists.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	onBoard := make(map[uuid.UUID]bool, len(lists))
	for _, list := range lists {
		onBoard[list.ListID] = true
	}

	s.mu.RLock()
	var cards []*models.Card
	for _, card := range s.cards {
		if onBoard[card.ListID] {
			clone := *card
			cards = append(cards, &clone)
		}
	}
	s.mu.RUnlock()

	return s.hydrateSorted(ctx, cards)
}

// MaxPosition returns the highest card position in the list, 0 when empty.
func (s *CardStore) MaxPosition(ctx context.Context, listID uuid.UUID) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max := 0.0
	for _, card := range s.cards {
		if card.ListID == listID && card.Position > max {
			max = card.Position
		}
	}

	return max, nil
}

// CountByList returns how many cards the list holds.
func (s *CardStore) CountByList(ctx context.Context, listID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, card := range s.cards {
		if card.ListID == listID {
			count++
		}
	}

	return count, nil
}

func (s *CardStore) hydrate(ctx context.Context, card *models.Card) (*models.CardDetail, error) {
	creator, err := s.users.Get(ctx, card.CreatedBy)
	if err != nil {
		return nil, err
	}

	return &models.CardDetail{Card: *card, Creator: creator.Public()}, nil
}

func (s *CardStore) hydrateSorted(ctx context.Context, cards []*models.Card) ([]*models.CardDetail, error) {
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Position != cards[j].Position {
			return cards[i].Position < cards[j].Position
		}
		return strings.Compare(cards[i].CardID.String(), cards[j].CardID.String()) < 0
	})

	var result []*models.CardDetail
	for _, card := range cards {
		detail, err := s.hydrate(ctx, card)
		if err != nil {
			return nil, err
		}
		result = append(result, detail)
	}

	return result, nil
}
