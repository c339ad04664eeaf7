package images

import (
	"context"

	"github.com/dmitrijs2005/bytonbyte/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, image *models.Image) (*models.Image, error)
	List(ctx context.Context, albumID string) ([]*models.Image, error)
}
