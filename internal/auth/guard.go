// Package auth implements the access guard: the single authorization
// predicate applied before every read and write in the board hierarchy.
// A resource is resolved up its ownership chain (comment -> card -> list ->
// board -> organization) and the actor must hold a membership on the owning
// organization. The check runs fresh on every call; nothing is cached, so a
// revoked membership takes effect on the next operation.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wolfeidau/taskboard/internal/models"
	"github.com/wolfeidau/taskboard/internal/store"
)

// Sentinel errors for authorization failures
var (
	// ErrAccessDenied means the actor holds no membership on the resource's
	// organization.
	ErrAccessDenied = errors.New("access denied")

	// ErrInsufficientRole means the actor is a member but below the minimum
	// role the operation requires.
	ErrInsufficientRole = errors.New("insufficient role")
)

// Grant is the result of a successful authorization check: the actor's role
// on the organization that owns the resource.
type Grant struct {
	OrgID   uuid.UUID
	ActorID uuid.UUID
	Role    models.Role
}

// Require applies the role-rank gate (owner > admin > member > viewer) on top
// of the membership check.
func (g Grant) Require(min models.Role) error {
	if !g.Role.AtLeast(min) {
		return fmt.Errorf("%w: %s requires at least %s", ErrInsufficientRole, g.Role, min)
	}
	return nil
}

// Guard resolves ownership chains and membership rows. It is stateless; every
// method hits the stores directly.
type Guard struct {
	memberships store.MembershipStore
	boards      store.BoardStore
	lists       store.ListStore
	cards       store.CardStore
	comments    store.CommentStore
}

// NewGuard creates a new access guard over the given stores.
func NewGuard(memberships store.MembershipStore, boards store.BoardStore, lists store.ListStore, cards store.CardStore, comments store.CommentStore) *Guard {
	return &Guard{
		memberships: memberships,
		boards:      boards,
		lists:       lists,
		cards:       cards,
		comments:    comments,
	}
}

// Organization checks the actor's membership on the organization.
// Returns ErrAccessDenied when no membership row exists.
func (g *Guard) Organization(ctx context.Context, actorID, orgID uuid.UUID) (Grant, error) {
	m, err := g.memberships.Get(ctx, orgID, actorID)
	if err != nil {
		if errors.Is(err, store.ErrMembershipNotFound) {
			return Grant{}, ErrAccessDenied
		}
		return Grant{}, err
	}

	return Grant{OrgID: orgID, ActorID: actorID, Role: m.Role}, nil
}

// Board resolves the board and checks the actor's membership on its
// organization. Store not-found errors pass through untouched; callers decide
// whether to surface or mask them.
func (g *Guard) Board(ctx context.Context, actorID, boardID uuid.UUID) (Grant, *models.Board, error) {
	board, err := g.boards.Get(ctx, boardID)
	if err != nil {
		return Grant{}, nil, err
	}

	grant, err := g.Organization(ctx, actorID, board.OrgID)
	if err != nil {
		return Grant{}, nil, err
	}

	return grant, board, nil
}

// List resolves the list through its board and checks membership.
func (g *Guard) List(ctx context.Context, actorID, listID uuid.UUID) (Grant, *models.List, error) {
	list, err := g.lists.Get(ctx, listID)
	if err != nil {
		return Grant{}, nil, err
	}

	grant, _, err := g.Board(ctx, actorID, list.BoardID)
	if err != nil {
		return Grant{}, nil, err
	}

	return grant, list, nil
}

// Card resolves the card through its list and board and checks membership.
func (g *Guard) Card(ctx context.Context, actorID, cardID uuid.UUID) (Grant, *models.CardDetail, error) {
	card, err := g.cards.Get(ctx, cardID)
	if err != nil {
		return Grant{}, nil, err
	}

	grant, _, err := g.List(ctx, actorID, card.ListID)
	if err != nil {
		return Grant{}, nil, err
	}

	return grant, card, nil
}

// Comment resolves the comment through its card, list and board and checks
// membership. Authorship is not checked here; that is the comment service's
// second gate.
func (g *Guard) Comment(ctx context.Context, actorID, commentID uuid.UUID) (Grant, *models.Comment, error) {
	comment, err := g.comments.Get(ctx, commentID)
	if err != nil {
		return Grant{}, nil, err
	}

	grant, _, err := g.Card(ctx, actorID, comment.CardID)
	if err != nil {
		return Grant{}, nil, err
	}

	return grant, comment, nil
}
