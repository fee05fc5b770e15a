package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/taskboard/internal/models"
	"github.com/wolfeidau/taskboard/internal/store"
)

// OrganizationStore implements store.OrganizationStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
type OrganizationStore struct {
	mu sync.RWMutex

	organizations map[uuid.UUID]*models.Organization // org_id -> Organization
	memberships   *MembershipStore
}

// NewOrganizationStore creates a new in-memory organization store. The
// membership store is consulted for ListByMember.
func NewOrganizationStore(memberships *MembershipStore) *OrganizationStore {
	return &OrganizationStore{
		organizations: make(map[uuid.UUID]*models.Organization),
		memberships:   memberships,
	}
}

// Create creates a new organization in memory.
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.organizations {
		if existing.Slug == org.Slug {
			return store.ErrSlugTaken
		}
	}

	// Clone to avoid external modifications
	clone := *org
	s.organizations[org.OrgID] = &clone

	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, exists := s.organizations[orgID]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	clone := *org
	return &clone, nil
}

// Update updates an existing organization. The slug is left untouched.
func (s *OrganizationStore) Update(ctx context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.organizations[org.OrgID]
	if !exists {
		return store.ErrOrganizationNotFound
	}

	org.UpdatedAt = time.Now()

	clone := *org
	clone.Slug = current.Slug
	s.organizations[org.OrgID] = &clone

	return nil
}

// ListByMember returns organizations the user holds a membership on, oldest
// first.
func (s *OrganizationStore) ListByMember(ctx context.Context, userID uuid.UUID) ([]*models.Organization, error) {
	memberships, err := s.memberships.listByUser(userID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Organization
	for _, m := range memberships {
		if org, exists := s.organizations[m.OrgID]; exists {
			clone := *org
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// MembershipStore implements store.MembershipStore using in-memory storage.
type MembershipStore struct {
	mu sync.RWMutex

	memberships map[membershipKey]*models.Membership
}

type membershipKey struct {
	orgID  uuid.UUID
	userID uuid.UUID
}

// NewMembershipStore creates a new in-memory membership store.
func NewMembershipStore() *MembershipStore {
	return &MembershipStore{
		memberships: make(map[membershipKey]*models.Membership),
	}
}

// Create creates a membership row.
func (s *MembershipStore) Create(ctx context.Context, m *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := membershipKey{orgID: m.OrgID, userID: m.UserID}
	if _, exists := s.memberships[key]; exists {
		return store.ErrMembershipExists
	}

	clone := *m
	s.memberships[key] = &clone

	return nil
}

// Get retrieves the membership for a (organization, user) pair.
func (s *MembershipStore) Get(ctx context.Context, orgID, userID uuid.UUID) (*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.memberships[membershipKey{orgID: orgID, userID: userID}]
	if !exists {
		return nil, store.ErrMembershipNotFound
	}

	clone := *m
	return &clone, nil
}

// Update updates the role on an existing membership.
func (s *MembershipStore) Update(ctx context.Context, m *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := membershipKey{orgID: m.OrgID, userID: m.UserID}
	if _, exists := s.memberships[key]; !exists {
		return store.ErrMembershipNotFound
	}

	clone := *m
	s.memberships[key] = &clone

	return nil
}

// Delete removes a membership.
func (s *MembershipStore) Delete(ctx context.Context, orgID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := membershipKey{orgID: orgID, userID: userID}
	if _, exists := s.memberships[key]; !exists {
		return store.ErrMembershipNotFound
	}

	delete(s.memberships, key)

	return nil
}

// ListByOrganization returns all memberships on an organization, oldest first.
func (s *MembershipStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Membership
	for _, m := range s.memberships {
		if m.OrgID == orgID {
			clone := *m
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].JoinedAt.Before(result[j].JoinedAt)
	})

	return result, nil
}

// CountByRole returns how many members of the organization hold the role.
func (s *MembershipStore) CountByRole(ctx context.Context, orgID uuid.UUID, role models.Role) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, m := range s.memberships {
		if m.OrgID == orgID && m.Role == role {
			count++
		}
	}

	return count, nil
}

func (s *MembershipStore) listByUser(userID uuid.UUID) ([]*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Membership
	for _, m := range s.memberships {
		if m.UserID == userID {
			clone := *m
			result = append(result, &clone)
		}
	}

	return result, nil
}
