package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/taskboard/internal/models"
)

// Sentinel errors for organization and membership store operations
var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrSlugTaken            = errors.New("organization slug already taken")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrMembershipExists     = errors.New("membership already exists")
)

// OrganizationStore defines the interface for organization storage operations.
// Organizations are the tenant boundary; everything below them is authorized
// through memberships.
type OrganizationStore interface {
	// Create creates a new organization.
	// Returns ErrSlugTaken if the slug is already in use.
	Create(ctx context.Context, org *models.Organization) error

	// Get retrieves an organization by ID.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error)

	// Update updates an existing organization. The slug is immutable;
	// implementations do not write it.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	Update(ctx context.Context, org *models.Organization) error

	// ListByMember returns all organizations the user holds a membership on,
	// oldest first.
	ListByMember(ctx context.Context, userID uuid.UUID) ([]*models.Organization, error)
}

// MembershipStore defines the interface for membership storage operations.
type MembershipStore interface {
	// Create creates a membership row.
	// Returns ErrMembershipExists if the user already has a membership on
	// the organization.
	Create(ctx context.Context, m *models.Membership) error

	// Get retrieves the membership for a (organization, user) pair.
	// Returns ErrMembershipNotFound if none exists.
	Get(ctx context.Context, orgID, userID uuid.UUID) (*models.Membership, error)

	// Update updates the role on an existing membership.
	// Returns ErrMembershipNotFound if none exists.
	Update(ctx context.Context, m *models.Membership) error

	// Delete removes a membership.
	// Returns ErrMembershipNotFound if none exists.
	Delete(ctx context.Context, orgID, userID uuid.UUID) error

	// ListByOrganization returns all memberships on an organization, oldest
	// first.
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.Membership, error)

	// CountByRole returns how many members of the organization hold the role.
	CountByRole(ctx context.Context, orgID uuid.UUID, role models.Role) (int, error)
}
