package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is a user's authorization level within their tenant.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
)

// ParseRole validates a raw role value from storage or input.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleMember:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User represents an account within a tenant. Email is unique across the
// whole system, not per tenant. A user belongs to exactly one tenant for its
// lifetime and its role is immutable after creation.
type User struct {
	UserID       uuid.UUID // UUIDv7
	Email        string
	PasswordHash string // bcrypt digest, never serialized
	Role         Role
	TenantID     uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the projection of a user returned to clients. It must never
// carry the password hash.
type PublicUser struct {
	UserID   uuid.UUID `json:"userId"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	TenantID uuid.UUID `json:"tenantId"`
}

// Public returns the client-facing projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{UserID: u.UserID, Email: u.Email, Role: u.Role, TenantID: u.TenantID}
}
