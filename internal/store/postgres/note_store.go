package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/notable/internal/models"
	"github.com/wolfeidau/notable/internal/quota"
	"github.com/wolfeidau/notable/internal/store"
)

// NoteStore implements store.NoteStore using PostgreSQL.
//
// Every query conjuncts note_id with tenant_id, so a note in another tenant
// is indistinguishable from a missing note.
type NoteStore struct {
	pool *pgxpool.Pool
}

// NewNoteStore creates a new PostgreSQL-backed note store.
// It shares the connection pool with the other stores.
func NewNoteStore(pool *pgxpool.Pool) *NoteStore {
	return &NoteStore{
		pool: pool,
	}
}

// Create creates a new note, enforcing the tenant's plan quota. The tenant
// row is locked for the duration of the transaction, which serializes
// concurrent creates for the same tenant: the count-check and the insert are
// one atomic unit, so two requests cannot both pass the check at the limit.
func (s *NoteStore) Create(ctx context.Context, note *models.Note) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return wrapPostgresError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	var plan models.Plan
	err = tx.QueryRow(ctx, `
		SELECT plan FROM tenants WHERE tenant_id = $1 FOR UPDATE
	`, note.TenantID).Scan(&plan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrTenantNotFound
		}
		return wrapPostgresError("failed to lock tenant", err)
	}

	if limit := quota.NoteLimit(plan); limit != quota.Unlimited {
		var count int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM notes WHERE tenant_id = $1
		`, note.TenantID).Scan(&count)
		if err != nil {
			return wrapPostgresError("failed to count notes", err)
		}

		if count >= limit {
			return store.ErrNoteQuotaExceeded
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO notes (
			note_id, title, content, tenant_id, user_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`,
		note.NoteID,
		note.Title,
		note.Content,
		note.TenantID,
		note.UserID,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return wrapPostgresError("failed to create note", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapPostgresError("failed to commit note create", err)
	}

	log.Debug().
		Str("note_id", note.NoteID.String()).
		Str("tenant_id", note.TenantID.String()).
		Msg("Created note")

	return nil
}

// Get retrieves a note by ID within a tenant.
func (s *NoteStore) Get(ctx context.Context, tenantID, noteID uuid.UUID) (*models.Note, error) {
	query := `
		SELECT note_id, title, content, tenant_id, user_id, created_at, updated_at
		FROM notes
		WHERE note_id = $1 AND tenant_id = $2
	`

	return s.scanNote(s.pool.QueryRow(ctx, query, noteID, tenantID))
}

// ListByTenant returns all notes belonging to a tenant, newest first.
func (s *NoteStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Note, error) {
	query := `
		SELECT note_id, title, content, tenant_id, user_id, created_at, updated_at
		FROM notes
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, wrapPostgresError("failed to list notes", err)
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		var note models.Note
		err := rows.Scan(
			&note.NoteID,
			&note.Title,
			&note.Content,
			&note.TenantID,
			&note.UserID,
			&note.CreatedAt,
			&note.UpdatedAt,
		)
		if err != nil {
			return nil, wrapPostgresError("failed to scan note", err)
		}
		notes = append(notes, &note)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapPostgresError("error iterating notes", err)
	}

	return notes, nil
}

// Update replaces the title and content of a note within a tenant.
func (s *NoteStore) Update(ctx context.Context, tenantID, noteID uuid.UUID, title, content string) (*models.Note, error) {
	query := `
		UPDATE notes SET
			title = $3,
			content = $4,
			updated_at = now()
		WHERE note_id = $1 AND tenant_id = $2
		RETURNING note_id, title, content, tenant_id, user_id, created_at, updated_at
	`

	return s.scanNote(s.pool.QueryRow(ctx, query, noteID, tenantID, title, content))
}

// Delete removes a note within a tenant.
func (s *NoteStore) Delete(ctx context.Context, tenantID, noteID uuid.UUID) error {
	query := `DELETE FROM notes WHERE note_id = $1 AND tenant_id = $2`

	result, err := s.pool.Exec(ctx, query, noteID, tenantID)
	if err != nil {
		return wrapPostgresError("failed to delete note", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrNoteNotFound
	}

	return nil
}

func (s *NoteStore) scanNote(row pgx.Row) (*models.Note, error) {
	var note models.Note
	err := row.Scan(
		&note.NoteID,
		&note.Title,
		&note.Content,
		&note.TenantID,
		&note.UserID,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNoteNotFound
		}
		return nil, wrapPostgresError("failed to get note", err)
	}

	return &note, nil
}
