package models

import (
	"time"

	"github.com/google/uuid"
)

// Card is an ordered task within a list. Moving a card updates ListID and
// Position together.
type Card struct {
	CardID      uuid.UUID // UUIDv7
	ListID      uuid.UUID // FK to lists
	Title       string
	Description string
	Position    float64
	DueAt       *time.Time
	CreatedBy   uuid.UUID // FK to users
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CardDetail is the hydrated read model for a card: the card plus the public
// identity of its creator, joined in a single read so callers avoid a second
// fetch per card.
type CardDetail struct {
	Card
	Creator PublicUser
}

// Comment is a remark on a card. Any organization member may read it; only
// the author may update or delete it.
type Comment struct {
	CommentID uuid.UUID // UUIDv7
	CardID    uuid.UUID // FK to cards
	AuthorID  uuid.UUID // FK to users
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
