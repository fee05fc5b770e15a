// Package service implements the component operations of the task-board
// core: identity and membership, board registry, list ledger, card ledger
// and comment log. Every operation takes the acting user's id and runs the
// access guard before touching data.
//
// Operations fail with one of the error kinds below (or with
// auth.ErrAccessDenied / auth.ErrInsufficientRole from the guard). The
// transport layer maps these kinds to status codes; nothing is retried here.
package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for the operation error taxonomy
var (
	// ErrNotFound covers a missing resource. At the board read boundary it
	// deliberately also covers archived and inaccessible boards, so callers
	// cannot probe for the existence of boards they cannot see.
	ErrNotFound = errors.New("not found")

	// ErrNotAuthor means the actor is a member but not the author of the
	// comment they are trying to modify.
	ErrNotAuthor = errors.New("not the comment author")

	// ErrValidation covers malformed or referentially-broken input, e.g.
	// moving a card to a nonexistent list.
	ErrValidation = errors.New("validation failed")

	// ErrConflict covers uniqueness violations such as a duplicate email or
	// organization slug.
	ErrConflict = errors.New("conflict")
)

func notFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

func conflict(err error) error {
	return fmt.Errorf("%w: %v", ErrConflict, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
