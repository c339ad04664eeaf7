// Package images stores metadata for uploaded gallery objects.
package images

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bytonbyte/internal/common"
	"github.com/dmitrijs2005/bytonbyte/internal/dbx"
	"github.com/dmitrijs2005/bytonbyte/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, image *models.Image) (*models.Image, error) {
	if image.ID == "" {
		image.ID = uuid.NewString()
	}
	query := `
		INSERT INTO images (id, url, path, filename, size, mime_type, album_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	if err := r.db.QueryRowContext(ctx, query,
		image.ID, image.URL, image.Path, image.Filename, image.Size, image.MimeType, image.AlbumID,
	).Scan(&image.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return image, nil
}

// List returns images newest first; a non-empty albumID restricts the
// result to that album.
func (r *PostgresRepository) List(ctx context.Context, albumID string) ([]*models.Image, error) {
	query := `SELECT id, url, path, filename, size, mime_type, album_id, created_at FROM images`
	var args []any
	if albumID != "" {
		query += ` WHERE album_id = $1`
		args = append(args, albumID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if dbx.IsInvalidTextRepresentation(err) {
			return nil, fmt.Errorf("%w: invalid album id", common.ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to select images: %w", err)
	}
	defer rows.Close()

	result := []*models.Image{}
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(&img.ID, &img.URL, &img.Path, &img.Filename, &img.Size, &img.MimeType, &img.AlbumID, &img.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &img)
	}
	return result, rows.Err()
}
