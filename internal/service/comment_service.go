package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/taskboard/internal/auth"
	"github.com/wolfeidau/taskboard/internal/models"
	"github.com/wolfeidau/taskboard/internal/store"
)

// CommentService implements the comment log. Reads are gated by organization
// membership like everything else; updates and deletes carry a second gate on
// top: the actor must be the comment's author. Role rank does not bypass it -
// an owner cannot edit another member's comment.
type CommentService struct {
	comments store.CommentStore
	guard    *auth.Guard
}

// NewCommentService creates a new comment service.
func NewCommentService(comments store.CommentStore, guard *auth.Guard) *CommentService {
	return &CommentService{
		comments: comments,
		guard:    guard,
	}
}

// GetByCard returns the card's comments newest first.
func (s *CommentService) GetByCard(ctx context.Context, actorID, cardID uuid.UUID) ([]*models.Comment, error) {
	if _, _, err := s.guard.Card(ctx, actorID, cardID); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, notFound("card")
		}
		return nil, err
	}

	return s.comments.ListByCard(ctx, cardID)
}

// Create adds a comment to the card with the actor as author.
func (s *CommentService) Create(ctx context.Context, actorID, cardID uuid.UUID, body string) (*models.Comment, error) {
	if _, _, err := s.guard.Card(ctx, actorID, cardID); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, notFound("card")
		}
		return nil, err
	}

	commentID, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	comment := &models.Comment{
		CommentID: commentID,
		CardID:    cardID,
		AuthorID:  actorID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// Update replaces the comment body. Only the author may do this; a member
// who is not the author gets ErrNotAuthor.
func (s *CommentService) Update(ctx context.Context, actorID, commentID uuid.UUID, body string) (*models.Comment, error) {
	_, comment, err := s.guard.Comment(ctx, actorID, commentID)
	if err != nil {
		if errors.Is(err, store.ErrCommentNotFound) {
			return nil, notFound("comment")
		}
		return nil, err
	}

	if comment.AuthorID != actorID {
		return nil, ErrNotAuthor
	}

	comment.Body = body
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// Delete removes the comment. Only the author may do this.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID uuid.UUID) error {
	_, comment, err := s.guard.Comment(ctx, actorID, commentID)
	if err != nil {
		if errors.Is(err, store.ErrCommentNotFound) {
			return notFound("comment")
		}
		return err
	}

	if comment.AuthorID != actorID {
		return ErrNotAuthor
	}

	return s.comments.Delete(ctx, commentID)
}
