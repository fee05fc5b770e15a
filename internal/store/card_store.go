package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/taskboard/internal/models"
)

// Sentinel errors for card and comment store operations
var (
	ErrCardNotFound    = errors.New("card not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// CardStore defines the interface for card storage operations. Read methods
// return CardDetail, the card joined with its creator's public identity, so
// callers never need a follow-up user fetch per card.
type CardStore interface {
	// Create creates a new card.
	Create(ctx context.Context, card *models.Card) error

	// Get retrieves a card by ID.
	// Returns ErrCardNotFound if the card doesn't exist.
	Get(ctx context.Context, cardID uuid.UUID) (*models.CardDetail, error)

	// Update updates an existing card. ListID and Position are written along
	// with the rest, which is how cross-list moves land in one statement.
	// Returns ErrCardNotFound if the card doesn't exist.
	Update(ctx context.Context, card *models.Card) error

	// Delete removes the card. Comments on the card are removed with it.
	// Returns ErrCardNotFound if the card doesn't exist.
	Delete(ctx context.Context, cardID uuid.UUID) error

	// ListByList returns the list's cards ordered by position, ties broken
	// by id.
	ListByList(ctx context.Context, listID uuid.UUID) ([]*models.CardDetail, error)

	// ListByBoard returns every card on the board (across all its lists)
	// ordered by position, ties broken by id.
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*models.CardDetail, error)

	// MaxPosition returns the highest card position in the list, 0 when the
	// list is empty.
	MaxPosition(ctx context.Context, listID uuid.UUID) (float64, error)

	// CountByList returns how many cards the list holds.
	CountByList(ctx context.Context, listID uuid.UUID) (int, error)
}

// CommentStore defines the interface for comment storage operations.
type CommentStore interface {
	// Create creates a new comment.
	Create(ctx context.Context, comment *models.Comment) error

	// Get retrieves a comment by ID.
	// Returns ErrCommentNotFound if the comment doesn't exist.
	Get(ctx context.Context, commentID uuid.UUID) (*models.Comment, error)

	// Update updates an existing comment.
	// Returns ErrCommentNotFound if the comment doesn't exist.
	Update(ctx context.Context, comment *models.Comment) error

	// Delete removes a comment.
	// Returns ErrCommentNotFound if the comment doesn't exist.
	Delete(ctx context.Context, commentID uuid.UUID) error

	// ListByCard returns the card's comments newest first.
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.Comment, error)
}
