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

// BoardStore implements store.BoardStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
type BoardStore struct {
	mu sync.RWMutex

	boards map[uuid.UUID]*models.Board // board_id -> Board
}

// NewBoardStore creates a new in-memory board store.
func NewBoardStore() *BoardStore {
	return &BoardStore{
		boards: make(map[uuid.UUID]*models.Board),
	}
}

// Create creates a new board in memory.
func (s *BoardStore) Create(ctx context.Context, board *models.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *board
	s.boards[board.BoardID] = &clone

	return nil
}

// Get retrieves a board by ID, archived or not.
func (s *BoardStore) Get(ctx context.Context, boardID uuid.UUID) (*models.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	board, exists := s.boards[boardID]
	if !exists {
		return nil, store.ErrBoardNotFound
	}

	clone := *board
	return &clone, nil
}

// Update updates an existing board.
func (s *BoardStore) Update(ctx context.Context, board *models.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.boards[board.BoardID]; !exists {
		return store.ErrBoardNotFound
	}

	board.UpdatedAt = time.Now()

	clone := *board
	s.boards[board.BoardID] = &clone

	return nil
}

// ListByOrganization returns non-archived boards, oldest first.
func (s *BoardStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Board
	for _, board := range s.boards {
		if board.OrgID == orgID && board.ArchivedAt == nil {
			clone := *board
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// ListStore implements store.ListStore using in-memory storage.
type ListStore struct {
	mu sync.RWMutex

	lists map[uuid.UUID]*models.List // list_id -> List
}

// NewListStore creates a new in-memory list store.
func NewListStore() *ListStore {
	return &ListStore{
		lists: make(map[uuid.UUID]*models.List),
	}
}

// Create creates a new list in memory.
func (s *ListStore) Create(ctx context.Context, list *models.List) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *list
	s.lists[list.ListID] = &clone

	return nil
}

// Get retrieves a list by ID.
func (s *ListStore) Get(ctx context.Context, listID uuid.UUID) (*models.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, exists := s.lists[listID]
	if !exists {
		return nil, store.ErrListNotFound
	}

	clone := *list
	return &clone, nil
}

// Update updates an existing list.
func (s *ListStore) Update(ctx context.Context, list *models.List) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.lists[list.ListID]; !exists {
		return store.ErrListNotFound
	}

	list.UpdatedAt = time.Now()

	clone := *list
	s.lists[list.ListID] = &clone

	return nil
}

// Delete removes the list row.
func (s *ListStore) Delete(ctx context.Context, listID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.lists[listID]; !exists {
		return store.ErrListNotFound
	}

	delete(s.lists, listID)

	return nil
}

// ListByBoard returns the board's lists ordered by position, ties broken by id.
func (s *ListStore) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*models.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.List
	for _, list := range s.lists {
		if list.BoardID == boardID {
			clone := *list
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Position != result[j].Position {
			return result[i].Position < result[j].Position
		}
		return strings.Compare(result[i].ListID.String(), result[j].ListID.String()) < 0
	})

	return result, nil
}

// MaxPosition returns the highest list position on the board, 0 when none.
func (s *ListStore) MaxPosition(ctx context.Context, boardID uuid.UUID) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max := 0.0
	for _, list := range s.lists {
		if list.BoardID == boardID && list.Position > max {
			max = list.Position
		}
	}

	return max, nil
}
