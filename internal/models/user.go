package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. Users are never hard-deleted; every
// other entity in the system is reached from a user through organization
// memberships.
type User struct {
	UserID       uuid.UUID // UUIDv7
	Email        string    // unique, matched case-insensitively
	PasswordHash string    // bcrypt
	Name         string    // display name
	AvatarURL    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the subset of User safe to embed in read models returned to
// other members (no credential material).
type PublicUser struct {
	UserID uuid.UUID
	Name   string
	Email  string
}

// Public returns the member-visible projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{UserID: u.UserID, Name: u.Name, Email: u.Email}
}
