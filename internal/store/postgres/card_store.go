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

// CardStore implements store.CardStore using PostgreSQL. Reads join the
// creator's public identity so callers get a hydrated CardDetail in one
// round trip.
type CardStore struct {
	db *DB
}

// NewCardStore creates a new PostgreSQL-backed card store.
func NewCardStore(db *DB) *CardStore {
	return &CardStore{
		db: db,
	}
}

const cardDetailColumns = `
	c.card_id, c.list_id, c.title, c.description, c.position, c.due_at,
	c.created_by, c.created_at, c.updated_at,
	u.user_id, u.name, u.email
`

// Create creates a new card in the database.
func (s *CardStore) Create(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO cards (
			card_id, list_id, title, description, position, due_at, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := s.db.conn(ctx).Exec(ctx, query,
		card.CardID,
		card.ListID,
		card.Title,
		card.Description,
		card.Position,
		card.DueAt,
		card.CreatedBy,
		card.CreatedAt,
		card.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	log.Debug().
		Str("card_id", card.CardID.String()).
		Str("list_id", card.ListID.String()).
		Float64("position", card.Position).
		Msg("Created card")

	return nil
}

// Get retrieves a card by ID with its creator hydrated.
func (s *CardStore) Get(ctx context.Context, cardID uuid.UUID) (*models.CardDetail, error) {
	query := `
		SELECT ` + cardDetailColumns + `
		FROM cards c
		JOIN users u ON u.user_id = c.created_by
		WHERE c.card_id = $1
	`

	detail, err := scanCardDetail(s.db.conn(ctx).QueryRow(ctx, query, cardID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	return detail, nil
}

// Update updates an existing card. ListID and Position are written with the
// rest of the row, so a cross-list move is a single statement.
func (s *CardStore) Update(ctx context.Context, card *models.Card) error {
	card.UpdatedAt = time.Now()

	query := `
		UPDATE cards SET
			list_id = $2,
			title = $3,
			description = $4,
			position = $5,
			due_at = $6,
			updated_at = $7
		WHERE card_id = $1
	`

	result, err := s.db.conn(ctx).Exec(ctx, query,
		card.CardID,
		card.ListID,
		card.Title,
		card.Description,
		card.Position,
		card.DueAt,
		card.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrCardNotFound
	}

	log.Debug().
		Str("card_id", card.CardID.String()).
		Str("list_id", card.ListID.String()).
		Msg("Updated card")

	return nil
}

// Delete removes the card. Comments cascade via FK constraint.
func (s *CardStore) Delete(ctx context.Context, cardID uuid.UUID) error {
	query := `DELETE FROM cards WHERE card_id = $1`

	result, err := s.db.conn(ctx).Exec(ctx, query, cardID)
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrCardNotFound
	}

	log.Debug().
		Str("card_id", cardID.String()).
		Msg("Deleted card (and cascade-deleted its comments)")

	return nil
}

// ListByList returns the list's cards ordered by position, ties broken by id.
func (s *CardStore) ListByList(ctx context.Context, listID uuid.UUID) ([]*models.CardDetail, error) {
	query := `
		SELECT ` + cardDetailColumns + `
		FROM cards c
		JOIN users u ON u.user_id = c.created_by
		WHERE c.list_id = $1
		ORDER BY c.position, c.card_id
	`

	return s.queryCards(ctx, query, listID)
}

// ListByBoard returns every card on the board ordered by position, ties
// broken by id.
func (s *CardStore) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*models.CardDetail, error) {
	query := `
		SELECT ` + cardDetailColumns + `
		FROM cards c
		JOIN lists l ON l.list_id = c.list_id
		JOIN users u ON u.user_id = c.created_by
		WHERE l.board_id = $1
		ORDER BY c.position, c.card_id
	`

	return s.queryCards(ctx, query, boardID)
}

// MaxPosition returns the highest card position in the list, 0 when empty.
func (s *CardStore) MaxPosition(ctx context.Context, listID uuid.UUID) (float64, error) {
	query := `SELECT coalesce(max(position), 0) FROM cards WHERE list_id = $1`

	var max float64
	if err := s.db.conn(ctx).QueryRow(ctx, query, listID).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to get max card position: %w", err)
	}

	return max, nil
}

// CountByList returns how many cards the list holds.
func (s *CardStore) CountByList(ctx context.Context, listID uuid.UUID) (int, error) {
	query := `SELECT count(*) FROM cards WHERE list_id = $1`

	var count int
	if err := s.db.conn(ctx).QueryRow(ctx, query, listID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}

	return count, nil
}

func (s *CardStore) queryCards(ctx context.Context, query string, arg any) ([]*models.CardDetail, error) {
	rows, err := s.db.conn(ctx).Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []*models.CardDetail
	for rows.Next() {
		detail, err := scanCardDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}

	return cards, nil
}

func scanCardDetail(row pgx.Row) (*models.CardDetail, error) {
	var detail models.CardDetail
	err := row.Scan(
		&detail.CardID,
		&detail.ListID,
		&detail.Title,
		&detail.Description,
		&detail.Position,
		&detail.DueAt,
		&detail.CreatedBy,
		&detail.CreatedAt,
		&detail.UpdatedAt,
		&detail.Creator.UserID,
		&detail.Creator.Name,
		&detail.Creator.Email,
	)
	if err != nil {
		return nil, err
	}

	return &detail, nil
}
