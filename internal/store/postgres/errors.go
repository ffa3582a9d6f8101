package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation reports whether the error is a PostgreSQL unique
// constraint violation. Stores map this to their already-exists sentinel.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// isForeignKeyViolation reports whether the error is a PostgreSQL foreign key
// violation, e.g. inserting a note for a tenant that doesn't exist.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}

// wrapPostgresError annotates unexpected database errors with the PostgreSQL
// error code and detail for diagnosis, without leaking them to clients.
func wrapPostgresError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: postgres error [%s]: %s (detail: %s): %w", op, pgErr.Code, pgErr.Message, pgErr.Detail, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
