package dbx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	// uniqueViolation is the Postgres SQLSTATE for unique_violation.
	uniqueViolation = "23505"
	// invalidTextRepresentation is raised when a value does not parse as
	// the column type, e.g. "abc" compared against a uuid column.
	invalidTextRepresentation = "22P02"
)

// IsUniqueViolation reports whether err (or anything it wraps) is a Postgres
// unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// IsInvalidTextRepresentation reports whether err is a Postgres 22P02 error.
func IsInvalidTextRepresentation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}
