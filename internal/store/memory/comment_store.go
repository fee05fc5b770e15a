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

// CommentStore implements store.CommentStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
type CommentStore struct {
	mu sync.RWMutex

	comments map[uuid.UUID]*models.Comment // comment_id -> Comment
}

// NewCommentStore creates a new in-memory comment store.
func NewCommentStore() *CommentStore {
	return &CommentStore{
		comments: make(map[uuid.UUID]*models.Comment),
	}
}

// Create creates a new comment in memory.
func (s *CommentStore) Create(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *comment
	s.comments[comment.CommentID] = &clone

	return nil
}

// Get retrieves a comment by ID.
func (s *CommentStore) Get(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, exists := s.comments[commentID]
	if !exists {
		return nil, store.ErrCommentNotFound
	}

	clone := *comment
	return &clone, nil
}

// Update updates an existing comment.
func (s *CommentStore) Update(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.comments[comment.CommentID]; !exists {
		return store.ErrCommentNotFound
	}

	comment.UpdatedAt = time.Now()

	clone := *comment
	s.comments[comment.CommentID] = &clone

	return nil
}

// Delete removes a comment.
func (s *CommentStore) Delete(ctx context.Context, commentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.comments[commentID]; !exists {
		return store.ErrCommentNotFound
	}

	delete(s.comments, commentID)

	return nil
}

// ListByCard returns the card's comments newest first.
func (s *CommentStore) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Comment
	for _, comment := range s.comments {
		if comment.CardID == cardID {
			clone := *comment
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return strings.Compare(result[i].CommentID.String(), result[j].CommentID.String()) > 0
	})

	return result, nil
}

// deleteByCard removes all comments on a card. Called by the card store's
// Delete to mirror the FK cascade in postgres.
func (s *CommentStore) deleteByCard(cardID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, comment := range s.comments {
		if comment.CardID == cardID {
			delete(s.comments, id)
		}
	}
}
