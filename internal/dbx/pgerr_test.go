package dbx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "admins_email_key"}

	assert.True(t, IsUniqueViolation(dup))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", dup)))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("23505")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsInvalidTextRepresentation(t *testing.T) {
	bad := &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}

	assert.True(t, IsInvalidTextRepresentation(bad))
	assert.True(t, IsInvalidTextRepresentation(fmt.Errorf("select: %w", bad)))
	assert.False(t, IsInvalidTextRepresentation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsInvalidTextRepresentation(nil))
}
