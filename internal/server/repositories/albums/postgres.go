// Package albums provides PostgreSQL-backed storage for gallery albums.
package albums

import (
	"context"
	"fmt"

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

// Create inserts album, assigning a UUID when ID is empty.
func (r *PostgresRepository) Create(ctx context.Context, album *models.Album) (*models.Album, error) {
	if album.ID == "" {
		album.ID = uuid.NewString()
	}
	query := `
		INSERT INTO albums (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`
	if err := r.db.QueryRowContext(ctx, query, album.ID, album.Name, album.Description).
		Scan(&album.CreatedAt, &album.UpdatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	album.Images = []models.Image{}
	return album, nil
}

// List returns albums newest first, each with its images (newest first).
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Album, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM albums ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to select albums: %w", err)
	}
	defer rows.Close()

	var result []*models.Album
	byID := make(map[string]*models.Album)
	for rows.Next() {
		a := &models.Album{Images: []models.Image{}}
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
		byID[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	imgRows, err := r.db.QueryContext(ctx, `
		SELECT id, url, path, filename, size, mime_type, album_id, created_at
		FROM images WHERE album_id IS NOT NULL ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to select album images: %w", err)
	}
	defer imgRows.Close()

	for imgRows.Next() {
		var img models.Image
		if err := imgRows.Scan(&img.ID, &img.URL, &img.Path, &img.Filename, &img.Size, &img.MimeType, &img.AlbumID, &img.CreatedAt); err != nil {
			return nil, err
		}
		if img.AlbumID == nil {
			continue
		}
		if a, ok := byID[*img.AlbumID]; ok {
			a.Images = append(a.Images, img)
		}
	}
	if err := imgRows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM albums WHERE id = $1)`, id).Scan(&ok); err != nil {
		if dbx.IsInvalidTextRepresentation(err) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}
