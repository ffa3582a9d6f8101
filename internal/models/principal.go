package models

import "github.com/google/uuid"

// Principal is the verified identity derived from a request's token. It is
// built only from verified claims and is the sole source of identity for a
// request's lifetime; handlers must never re-derive identity from body fields.
type Principal struct {
	UserID   uuid.UUID `json:"userId"`
	TenantID uuid.UUID `json:"tenantId"`
	Role     Role      `json:"role"`
	Email    string    `json:"email"`
}
