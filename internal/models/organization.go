package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant. All boards, lists, cards and comments are
// scoped to exactly one organization, and access to any of them is decided by
// the actor's membership on that organization.
type Organization struct {
	OrgID     uuid.UUID // UUIDv7
	Name      string
	Slug      string    // globally unique, immutable once created
	CreatedBy uuid.UUID // FK to users
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role is the level of access a member holds within an organization.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

// roleRanks orders roles for minimum-privilege checks.
var roleRanks = map[Role]int{
	RoleOwner:  3,
	RoleAdmin:  2,
	RoleMember: 1,
	RoleViewer: 0,
}

// Rank returns the numeric rank of the role. Unknown roles rank below viewer.
func (r Role) Rank() int {
	rank, ok := roleRanks[r]
	if !ok {
		return -1
	}
	return rank
}

// AtLeast reports whether the role meets the given minimum role.
func (r Role) AtLeast(min Role) bool {
	return r.Rank() >= min.Rank()
}

// Valid reports whether the role is one of the four known roles.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Membership joins a user to an organization with a role. At most one
// membership exists per (organization, user) pair.
type Membership struct {
	OrgID     uuid.UUID
	UserID    uuid.UUID
	Role      Role
	InvitedBy *uuid.UUID // nil for founding owners
	JoinedAt  time.Time
}
