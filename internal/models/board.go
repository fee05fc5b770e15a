package models

import (
	"time"

	"github.com/google/uuid"
)

// Board is a kanban board owned by exactly one organization. Boards are
// soft-archived rather than deleted: ArchivedAt is set and the board stops
// surfacing through organization-scoped listing.
type Board struct {
	BoardID     uuid.UUID // UUIDv7
	OrgID       uuid.UUID // FK to organizations
	Name        string
	Description string
	CreatedBy   uuid.UUID // FK to users
	ArchivedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Archived reports whether the board has been soft-archived.
func (b *Board) Archived() bool {
	return b.ArchivedAt != nil
}

// List is an ordered column within a board. Position is a floating-point sort
// key; uniqueness is not enforced, ties fall back to id order.
type List struct {
	ListID    uuid.UUID // UUIDv7
	BoardID   uuid.UUID // FK to boards
	Name      string
	Position  float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Names and positions of the lists created alongside every new board.
var DefaultLists = []struct {
	Name     string
	Position float64
}{
	{Name: "To Do", Position: 1},
	{Name: "In Progress", Position: 2},
	{Name: "Done", Position: 3},
}
