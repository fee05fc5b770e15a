package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/taskboard/internal/models"
	"github.com/wolfeidau/taskboard/internal/store"
)

// MembershipStore implements store.MembershipStore using PostgreSQL.
type MembershipStore struct {
	db *DB
}

// NewMembershipStore creates a new PostgreSQL-backed membership store.
func NewMembershipStore(db *DB) *MembershipStore {
	return &MembershipStore{
		db: db,
	}
}

// Create creates a membership row.
func (s *MembershipStore) Create(ctx context.Context, m *models.Membership) error {
	query := `
		INSERT INTO memberships (
			org_id, user_id, role, invited_by, joined_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err := s.db.conn(ctx).Exec(ctx, query,
		m.OrgID,
		m.UserID,
		m.Role,
		m.InvitedBy,
		m.JoinedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	log.Debug().
		Str("org_id", m.OrgID.String()).
		Str("user_id", m.UserID.String()).
		Str("role", string(m.Role)).
		Msg("Created membership")

	return nil
}

// Get retrieves the membership for a (organization, user) pair.
func (s *MembershipStore) Get(ctx context.Context, orgID, userID uuid.UUID) (*models.Membership, error) {
	query := `
		SELECT org_id, user_id, role, invited_by, joined_at
		FROM memberships
		WHERE org_id = $1 AND user_id = $2
	`

	var m models.Membership
	err := s.db.conn(ctx).QueryRow(ctx, query, orgID, userID).Scan(
		&m.OrgID,
		&m.UserID,
		&m.Role,
		&m.InvitedBy,
		&m.JoinedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return &m, nil
}

// Update updates the role on an existing membership.
func (s *MembershipStore) Update(ctx context.Context, m *models.Membership) error {
	query := `
		UPDATE memberships SET
			role = $3
		WHERE org_id = $1 AND user_id = $2
	`

	result, err := s.db.conn(ctx).Exec(ctx, query, m.OrgID, m.UserID, m.Role)
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrMembershipNotFound
	}

	log.Debug().
		Str("org_id", m.OrgID.String()).
		Str("user_id", m.UserID.String()).
		Str("role", string(m.Role)).
		Msg("Updated membership role")

	return nil
}

// Delete removes a membership.
func (s *MembershipStore) Delete(ctx context.Context, orgID, userID uuid.UUID) error {
	query := `DELETE FROM memberships WHERE org_id = $1 AND user_id = $2`

	result, err := s.db.conn(ctx).Exec(ctx, query, orgID, userID)
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrMembershipNotFound
	}

	log.Debug().
		Str("org_id", orgID.String()).
		Str("user_id", userID.String()).
		Msg("Deleted membership")

	return nil
}

// ListByOrganization returns all memberships on an organization, oldest first.
func (s *MembershipStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.Membership, error) {
	query := `
		SELECT org_id, user_id, role, invited_by, joined_at
		FROM memberships
		WHERE org_id = $1
		ORDER BY joined_at, user_id
	`

	rows, err := s.db.conn(ctx).Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []*models.Membership
	for rows.Next() {
		var m models.Membership
		err := rows.Scan(
			&m.OrgID,
			&m.UserID,
			&m.Role,
			&m.InvitedBy,
			&m.JoinedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memberships: %w", err)
	}

	return memberships, nil
}

// CountByRole returns how many members of the organization hold the role.
func (s *MembershipStore) CountByRole(ctx context.Context, orgID uuid.UUID, role models.Role) (int, error) {
	query := `SELECT count(*) FROM memberships WHERE org_id = $1 AND role = $2`

	var count int
	if err := s.db.conn(ctx).QueryRow(ctx, query, orgID, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count memberships: %w", err)
	}

	return count, nil
}
