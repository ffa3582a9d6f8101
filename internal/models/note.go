package models

import (
	"time"

	"github.com/google/uuid"
)

// Note is a document owned by a tenant. Ownership is by tenant, not by the
// individual creator: any member of the tenant may edit or delete it.
type Note struct {
	NoteID    uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	TenantID  uuid.UUID `json:"tenantId"`
	UserID    uuid.UUID `json:"userId"` // creator
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
