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

// CommentStore implements store.CommentStore using PostgreSQL.
type CommentStore struct {
	db *DB
}

// NewCommentStore creates a new PostgreSQL-backed comment store.
func NewCommentStore(db *DB) *CommentStore {
	return &CommentStore{
		db: db,
	}
}

// Create creates a new comment in the database.
func (s *CommentStore) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (
			comment_id, card_id, author_id, body, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.db.conn(ctx).Exec(ctx, query,
		comment.CommentID,
		comment.CardID,
		comment.AuthorID,
		comment.Body,
		comment.CreatedAt,
		comment.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	log.Debug().
		Str("comment_id", comment.CommentID.String()).
		Str("card_id", comment.CardID.String()).
		Msg("Created comment")

	return nil
}

// Get retrieves a comment by ID.
func (s *CommentStore) Get(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	query := `
		SELECT comment_id, card_id, author_id, body, created_at, updated_at
		FROM comments
		WHERE comment_id = $1
	`

	var comment models.Comment
	err := s.db.conn(ctx).QueryRow(ctx, query, commentID).Scan(
		&comment.CommentID,
		&comment.CardID,
		&comment.AuthorID,
		&comment.Body,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return &comment, nil
}

// Update updates an existing comment.
func (s *CommentStore) Update(ctx context.Context, comment *models.Comment) error {
	comment.UpdatedAt = time.Now()

	query := `
		UPDATE comments SET
			body = $2,
			updated_at = $3
		WHERE comment_id = $1
	`

	result, err := s.db.conn(ctx).Exec(ctx, query,
		comment.CommentID,
		comment.Body,
		comment.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrCommentNotFound
	}

	log.Debug().
		Str("comment_id", comment.CommentID.String()).
		Msg("Updated comment")

	return nil
}

// Delete removes a comment.
func (s *CommentStore) Delete(ctx context.Context, commentID uuid.UUID) error {
	query := `DELETE FROM comments WHERE comment_id = $1`

	result, err := s.db.conn(ctx).Exec(ctx, query, commentID)
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrCommentNotFound
	}

	log.Debug().
		Str("comment_id", commentID.String()).
		Msg("Deleted comment")

	return nil
}

// ListByCard returns the card's comments newest first.
func (s *CommentStore) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.Comment, error) {
	query := `
		SELECT comment_id, card_id, author_id, body, created_at, updated_at
		FROM comments
		WHERE card_id = $1
		ORDER BY created_at DESC, comment_id DESC
	`

	rows, err := s.db.conn(ctx).Query(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.CommentID,
			&comment.CardID,
			&comment.AuthorID,
			&comment.Body,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}
