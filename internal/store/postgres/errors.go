package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wolfeidau/taskboard/internal/store"
)

// mapPostgresError maps PostgreSQL-specific errors to sentinel errors.
// Returns the original error if it's not a PostgreSQL error or doesn't match
// known constraints.
func mapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case "users_email_key":
			return store.ErrEmailTaken
		case "organizations_slug_key":
			return store.ErrSlugTaken
		case "memberships_pkey":
			return store.ErrMembershipExists
		}
		return fmt.Errorf("unique constraint violation: %s: %w", pgErr.ConstraintName, err)

	case pgerrcode.ForeignKeyViolation:
		// Referenced parent row is missing. The restrict direction of
		// cards_list_id_fkey is handled in the list store's Delete.
		switch pgErr.ConstraintName {
		case "boards_org_id_fkey":
			return fmt.Errorf("%w: %s", store.ErrOrganizationNotFound, pgErr.Detail)
		case "lists_board_id_fkey":
			return fmt.Errorf("%w: %s", store.ErrBoardNotFound, pgErr.Detail)
		case "cards_list_id_fkey":
			return fmt.Errorf("%w: %s", store.ErrListNotFound, pgErr.Detail)
		case "comments_card_id_fkey":
			return fmt.Errorf("%w: %s", store.ErrCardNotFound, pgErr.Detail)
		case "memberships_user_id_fkey", "organizations_created_by_fkey",
			"cards_created_by_fkey", "comments_author_id_fkey":
			return fmt.Errorf("%w: %s", store.ErrUserNotFound, pgErr.Detail)
		case "memberships_org_id_fkey":
			return fmt.Errorf("%w: %s", store.ErrOrganizationNotFound, pgErr.Detail)
		}
		return fmt.Errorf("foreign key violation: %s: %w", pgErr.ConstraintName, err)

	case pgerrcode.CheckViolation:
		return fmt.Errorf("check constraint violation: %s: %w", pgErr.ConstraintName, err)

	default:
		return fmt.Errorf("postgres error [%s]: %s: %w", pgErr.Code, pgErr.Message, err)
	}
}
