package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/notable/internal/models"
)

// Sentinel errors for note store operations
var (
	// ErrNoteNotFound is returned when a note doesn't exist in the given
	// tenant. A note that exists in a different tenant is reported
	// identically, so callers cannot probe for cross-tenant existence.
	ErrNoteNotFound = errors.New("note not found")

	// ErrNoteQuotaExceeded is returned when creating a note would exceed
	// the tenant's plan quota.
	ErrNoteQuotaExceeded = errors.New("note quota exceeded")
)

// NoteStore defines the interface for note storage operations.
//
// Every method takes the tenant ID as a mandatory parameter; update and
// delete conjunct the note ID with the tenant ID so a row in another tenant
// is indistinguishable from a missing row.
type NoteStore interface {
	// Create creates a new note, enforcing the tenant's plan quota. The
	// quota check and the insert are a single atomic unit: two concurrent
	// creates for the same free tenant at the limit cannot both succeed.
	// Returns ErrTenantNotFound if the note's tenant doesn't exist, and
	// ErrNoteQuotaExceeded if the plan quota is reached.
	Create(ctx context.Context, note *models.Note) error

	// Get retrieves a note by ID within a tenant.
	// Returns ErrNoteNotFound if the note doesn't exist in that tenant.
	Get(ctx context.Context, tenantID, noteID uuid.UUID) (*models.Note, error)

	// ListByTenant returns all notes belonging to a tenant, newest first.
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Note, error)

	// Update replaces the title and content of a note within a tenant.
	// Returns ErrNoteNotFound if the note doesn't exist in that tenant.
	Update(ctx context.Context, tenantID, noteID uuid.UUID, title, content string) (*models.Note, error)

	// Delete removes a note within a tenant.
	// Returns ErrNoteNotFound if the note doesn't exist in that tenant.
	Delete(ctx context.Context, tenantID, noteID uuid.UUID) error
}
