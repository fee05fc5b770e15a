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

// OrganizationStore implements store.OrganizationStore using PostgreSQL.
type OrganizationStore struct {
	db *DB
}

// NewOrganizationStore creates a new PostgreSQL-backed organization store.
func NewOrganizationStore(db *DB) *OrganizationStore {
	return &OrganizationStore{
		db: db,
	}
}

// Create creates a new organization in the database.
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (
			org_id, name, slug, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.db.conn(ctx).Exec(ctx, query,
		org.OrgID,
		org.Name,
		org.Slug,
		org.CreatedBy,
		org.CreatedAt,
		org.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	log.Debug().
		Str("org_id", org.OrgID.String()).
		Str("slug", org.Slug).
		Msg("Created organization")

	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	query := `
		SELECT org_id, name, slug, created_by, created_at, updated_at
		FROM organizations
		WHERE org_id = $1
	`

	var org models.Organization
	err := s.db.conn(ctx).QueryRow(ctx, query, orgID).Scan(
		&org.OrgID,
		&org.Name,
		&org.Slug,
		&org.CreatedBy,
		&org.CreatedAt,
		&org.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return &org, nil
}

// Update updates an existing organization. The slug column is never written.
func (s *OrganizationStore) Update(ctx context.Context, org *models.Organization) error {
	org.UpdatedAt = time.Now()

	query := `
		UPDATE organizations SET
			name = $2,
			updated_at = $3
		WHERE org_id = $1
	`

	result, err := s.db.conn(ctx).Exec(ctx, query,
		org.OrgID,
		org.Name,
		org.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrOrganizationNotFound
	}

	log.Debug().
		Str("org_id", org.OrgID.String()).
		Msg("Updated organization")

	return nil
}

// ListByMember returns all organizations the user holds a membership on.
func (s *OrganizationStore) ListByMember(ctx context.Context, userID uuid.UUID) ([]*models.Organization, error) {
	query := `
		SELECT o.org_id, o.name, o.slug, o.created_by, o.created_at, o.updated_at
		FROM organizations o
		JOIN memberships m ON m.org_id = o.org_id
		WHERE m.user_id = $1
		ORDER BY o.created_at, o.org_id
	`

	rows, err := s.db.conn(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		var org models.Organization
		err := rows.Scan(
			&org.OrgID,
			&org.Name,
			&org.Slug,
			&org.CreatedBy,
			&org.CreatedAt,
			&org.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, &org)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organizations: %w", err)
	}

	return orgs, nil
}
