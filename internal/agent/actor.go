// Package agent resolves the system actor used by automation integrations.
// The actor is resolved once at startup and handed to whatever needs it,
// replacing the lazily-populated process-wide "first user" cache this design
// grew out of.
package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/taskboard/internal/models"
	"github.com/wolfeidau/taskboard/internal/store"
)

// Actor identifies the user that automated operations run as.
type Actor struct {
	UserID uuid.UUID
	Email  string
}

// Resolve returns the system actor. When email is set the matching user is
// required to exist; when it is empty, the earliest-created user is used.
func Resolve(ctx context.Context, users store.UserStore, email string) (Actor, error) {
	var (
		user *models.User
		err  error
	)

	if email != "" {
		user, err = users.GetByEmail(ctx, email)
		if err != nil {
			return Actor{}, fmt.Errorf("failed to resolve system actor %q: %w", email, err)
		}
	} else {
		user, err = users.First(ctx)
		if err != nil {
			return Actor{}, fmt.Errorf("failed to resolve default system actor: %w", err)
		}
	}

	log.Info().
		Str("user_id", user.UserID.String()).
		Str("email", user.Email).
		Msg("Resolved system actor")

	return Actor{UserID: user.UserID, Email: user.Email}, nil
}
