// Package admins provides the PostgreSQL-backed credential store for admin
// accounts.
package admins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bytonbyte/internal/common"
	"github.com/dmitrijs2005/bytonbyte/internal/dbx"
	"github.com/dmitrijs2005/bytonbyte/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts admin, assigning an ID when empty, and fills
// CreatedAt/UpdatedAt from the database.
// A duplicate email, rejected by the admins_email_key constraint, yields
// common.ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
	query :=
		`INSERT INTO admins (id, email, password, active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at
		 `

	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}

	err := r.db.QueryRowContext(ctx, query,
		admin.ID, admin.Email, admin.PasswordHash, admin.Active).Scan(&admin.CreatedAt, &admin.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return admin, nil
}

// GetByEmail looks an admin up by its (already lowercased) email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query :=
		`SELECT id, email, password, active, created_at, updated_at FROM admins
		 WHERE email = $1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	query :=
		`SELECT id, email, password, active, created_at, updated_at FROM admins
		 WHERE id = $1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// UpdatePassword stores a new hash and bumps updated_at.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	query :=
		`UPDATE admins SET password = $2, updated_at = now()
		 WHERE id = $1
		 `
	res, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		if dbx.IsInvalidTextRepresentation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// SetActive flips the active flag and returns the updated admin.
func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool) (*models.Admin, error) {
	query :=
		`UPDATE admins SET active = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING id, email, password, active, created_at, updated_at
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, active))
}

// List returns every admin, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Admin, error) {
	query :=
		`SELECT id, email, password, active, created_at, updated_at FROM admins
		 ORDER BY created_at DESC
		 `
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Admin
	for rows.Next() {
		var a models.Admin
		if err := rows.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Admin, error) {
	a := &models.Admin{}
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidTextRepresentation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}
