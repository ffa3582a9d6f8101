package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/notable/internal/models"
	"github.com/wolfeidau/notable/internal/quota"
	"github.com/wolfeidau/notable/internal/store"
)

// NoteStore implements store.NoteStore using in-memory storage.
// This implementation is for testing and development - data is lost on restart.
//
// The tenant store is consulted for the plan during Create; the quota check
// and the insert both happen under the store's write lock, so concurrent
// creates for the same tenant cannot race past the limit.
type NoteStore struct {
	mu sync.Mutex

	notes   map[uuid.UUID]*models.Note // note_id -> Note
	tenants store.TenantStore
}

// NewNoteStore creates a new in-memory note store backed by the given tenant
// store for plan lookups.
func NewNoteStore(tenants store.TenantStore) *NoteStore {
	return &NoteStore{
		notes:   make(map[uuid.UUID]*models.Note),
		tenants: tenants,
	}
}

// Create creates a new note, enforcing the tenant's plan quota atomically.
func (s *NoteStore) Create(ctx context.Context, note *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, err := s.tenants.Get(ctx, note.TenantID)
	if err != nil {
		return err
	}

	count := 0
	for _, n := range s.notes {
		if n.TenantID == note.TenantID {
			count++
		}
	}

	if !quota.CanCreateNote(tenant.Plan, count) {
		return store.ErrNoteQuotaExceeded
	}

	// Clone to avoid external modifications
	clone := *note
	s.notes[note.NoteID] = &clone

	return nil
}

// Get retrieves a note by ID within a tenant. A note in a different tenant
// is reported as not found.
func (s *NoteStore) Get(ctx context.Context, tenantID, noteID uuid.UUID) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, exists := s.notes[noteID]
	if !exists || note.TenantID != tenantID {
		return nil, store.ErrNoteNotFound
	}

	clone := *note
	return &clone, nil
}

// ListByTenant returns all notes belonging to a tenant, newest first.
func (s *NoteStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*models.Note
	for _, note := range s.notes {
		if note.TenantID == tenantID {
			clone := *note
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// Update replaces the title and content of a note within a tenant.
func (s *NoteStore) Update(ctx context.Context, tenantID, noteID uuid.UUID, title, content string) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, exists := s.notes[noteID]
	if !exists || note.TenantID != tenantID {
		return nil, store.ErrNoteNotFound
	}

	note.Title = title
	note.Content = content
	note.UpdatedAt = time.Now()

	clone := *note
	return &clone, nil
}

// Delete removes a note within a tenant.
func (s *NoteStore) Delete(ctx context.Context, tenantID, noteID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, exists := s.notes[noteID]
	if !exists || note.TenantID != tenantID {
		return store.ErrNoteNotFound
	}

	delete(s.notes, noteID)

	return nil
}
