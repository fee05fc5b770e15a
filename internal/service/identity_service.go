package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/taskboard/internal/auth"
	"github.com/wolfeidau/taskboard/internal/models"
	"github.com/wolfeidau/taskboard/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// IdentityService implements user registration, authentication and
// organization membership management.
type IdentityService struct {
	users       store.UserStore
	orgs        store.OrganizationStore
	memberships store.MembershipStore
	guard       *auth.Guard
	tx          store.TxRunner
}

// NewIdentityService creates a new identity service.
func NewIdentityService(users store.UserStore, orgs store.OrganizationStore, memberships store.MembershipStore, guard *auth.Guard, tx store.TxRunner) *IdentityService {
	return &IdentityService{
		users:       users,
		orgs:        orgs,
		memberships: memberships,
		guard:       guard,
		tx:          tx,
	}
}

// Register creates a user, their personal organization and the founding owner
// membership in one transaction. A crash cannot leave a user without an
// organization to land in.
// Returns ErrConflict if the email is already registered.
func (s *IdentityService) Register(ctx context.Context, email, password, name string) (*models.User, *models.Organization, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()

	userID, err := uuid.NewV7()
	if err != nil {
		return nil, nil, err
	}
	orgID, err := uuid.NewV7()
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		UserID:       userID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	org := &models.Organization{
		OrgID:     orgID,
		Name:      name + "'s organization",
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// A slug collision aborts the whole transaction; postgres rejects any
	// further statement in it. Retry once with a fresh suffix in a new
	// transaction.
	for attempt := 0; ; attempt++ {
		org.Slug = personalSlug(name)

		err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.users.Create(ctx, user); err != nil {
				if errors.Is(err, store.ErrEmailTaken) {
					return conflict(err)
				}
				return err
			}

			if err := s.orgs.Create(ctx, org); err != nil {
				return err
			}

			return s.memberships.Create(ctx, &models.Membership{
				OrgID:    orgID,
				UserID:   userID,
				Role:     models.RoleOwner,
				JoinedAt: now,
			})
		})
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrSlugTaken) {
			if attempt == 0 {
				continue
			}
			return nil, nil, conflict(err)
		}
		return nil, nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("org_id", orgID.String()).
		Msg("Registered user")

	return user, org, nil
}

// Authenticate verifies the email/password pair. A missing user and a wrong
// password both return ErrNotFound so callers cannot probe for accounts.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, notFound("user")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, notFound("user")
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *IdentityService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, notFound("user")
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial update to the actor's own profile. An
// explicit null avatar clears it; the display name cannot be cleared.
func (s *IdentityService) UpdateProfile(ctx context.Context, actorID uuid.UUID, name, avatarURL models.Optional[string]) (*models.User, error) {
	user, err := s.GetUser(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if name.Clear() {
		return nil, invalid("display name cannot be cleared")
	}
	if v, ok := name.Get(); ok {
		user.Name = v
	}
	if avatarURL.Clear() {
		user.AvatarURL = nil
	} else if v, ok := avatarURL.Get(); ok {
		user.AvatarURL = &v
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// CreateOrganization creates an organization with the actor as founding
// owner, in one transaction. An empty slug is derived from the name.
// Returns ErrConflict if the slug is already taken.
func (s *IdentityService) CreateOrganization(ctx context.Context, actorID uuid.UUID, name, slug string) (*models.Organization, error) {
	if _, err := s.GetUser(ctx, actorID); err != nil {
		return nil, err
	}

	if slug == "" {
		slug = slugify(name) + "-" + slugSuffix()
	}

	orgID, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	org := &models.Organization{
		OrgID:     orgID,
		Name:      name,
		Slug:      slug,
		CreatedBy: actorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.orgs.Create(ctx, org); err != nil {
			if errors.Is(err, store.ErrSlugTaken) {
				return conflict(err)
			}
			return err
		}

		return s.memberships.Create(ctx, &models.Membership{
			OrgID:    orgID,
			UserID:   actorID,
			Role:     models.RoleOwner,
			JoinedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	return org, nil
}

// RenameOrganization renames an organization. Requires at least admin.
func (s *IdentityService) RenameOrganization(ctx context.Context, actorID, orgID uuid.UUID, name string) (*models.Organization, error) {
	grant, err := s.guard.Organization(ctx, actorID, orgID)
	if err != nil {
		return nil, err
	}
	if err := grant.Require(models.RoleAdmin); err != nil {
		return nil, err
	}

	org, err := s.orgs.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}

	org.Name = name
	if err := s.orgs.Update(ctx, org); err != nil {
		return nil, err
	}

	return org, nil
}

// ListOrganizations returns the organizations the actor belongs to.
func (s *IdentityService) ListOrganizations(ctx context.Context, actorID uuid.UUID) ([]*models.Organization, error) {
	return s.orgs.ListByMember(ctx, actorID)
}

// ListMembers returns the memberships of an organization. Any member may
// look.
func (s *IdentityService) ListMembers(ctx context.Context, actorID, orgID uuid.UUID) ([]*models.Membership, error) {
	if _, err := s.guard.Organization(ctx, actorID, orgID); err != nil {
		return nil, err
	}
	return s.memberships.ListByOrganization(ctx, orgID)
}

// AddMember adds a user to the organization with the given role, recording
// the actor as inviter. Requires at least admin, and an admin cannot grant a
// role above their own.
// Returns ErrValidation for an unknown role or user, ErrConflict when the
// user is already a member.
func (s *IdentityService) AddMember(ctx context.Context, actorID, orgID, userID uuid.UUID, role models.Role) (*models.Membership, error) {
	grant, err := s.guard.Organization(ctx, actorID, orgID)
	if err != nil {
		return nil, err
	}
	if err := grant.Require(models.RoleAdmin); err != nil {
		return nil, err
	}

	if !role.Valid() {
		return nil, invalid("unknown role %q", role)
	}
	if role.Rank() > grant.Role.Rank() {
		return nil, fmt.Errorf("%w: cannot grant %s", auth.ErrInsufficientRole, role)
	}

	if _, err := s.users.Get(ctx, userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, invalid("no such user %s", userID)
		}
		return nil, err
	}

	m := &models.Membership{
		OrgID:     orgID,
		UserID:    userID,
		Role:      role,
		InvitedBy: &actorID,
		JoinedAt:  time.Now(),
	}

	if err := s.memberships.Create(ctx, m); err != nil {
		if errors.Is(err, store.ErrMembershipExists) {
			return nil, conflict(err)
		}
		return nil, err
	}

	return m, nil
}

// RemoveMember removes a user from the organization. Members may remove
// themselves; removing anyone else requires at least admin and a rank no
// lower than the target's. The last owner cannot be removed.
func (s *IdentityService) RemoveMember(ctx context.Context, actorID, orgID, userID uuid.UUID) error {
	grant, err := s.guard.Organization(ctx, actorID, orgID)
	if err != nil {
		return err
	}

	target, err := s.memberships.Get(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, store.ErrMembershipNotFound) {
			return notFound("membership")
		}
		return err
	}

	if actorID != userID {
		if err := grant.Require(models.RoleAdmin); err != nil {
			return err
		}
		if target.Role.Rank() > grant.Role.Rank() {
			return fmt.Errorf("%w: cannot remove a %s", auth.ErrInsufficientRole, target.Role)
		}
	}

	if target.Role == models.RoleOwner {
		owners, err := s.memberships.CountByRole(ctx, orgID, models.RoleOwner)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return invalid("organization must retain at least one owner")
		}
	}

	return s.memberships.Delete(ctx, orgID, userID)
}

// ChangeRole changes a member's role. Requires at least admin; the actor
// cannot grant a role above their own, and the last owner cannot be demoted.
func (s *IdentityService) ChangeRole(ctx context.Context, actorID, orgID, userID uuid.UUID, role models.Role) (*models.Membership, error) {
	grant, err := s.guard.Organization(ctx, actorID, orgID)
	if err != nil {
		return nil, err
	}
	if err := grant.Require(models.RoleAdmin); err != nil {
		return nil, err
	}

	if !role.Valid() {
		return nil, invalid("unknown role %q", role)
	}
	if role.Rank() > grant.Role.Rank() {
		return nil, fmt.Errorf("%w: cannot grant %s", auth.ErrInsufficientRole, role)
	}

	target, err := s.memberships.Get(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, store.ErrMembershipNotFound) {
			return nil, notFound("membership")
		}
		return nil, err
	}

	if target.Role == models.RoleOwner && role != models.RoleOwner {
		owners, err := s.memberships.CountByRole(ctx, orgID, models.RoleOwner)
		if err != nil {
			return nil, err
		}
		if owners <= 1 {
			return nil, invalid("organization must retain at least one owner")
		}
	}

	target.Role = role
	if err := s.memberships.Update(ctx, target); err != nil {
		return nil, err
	}

	return target, nil
}
