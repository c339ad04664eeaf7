package albums

import (
	"context"

	"github.com/dmitrijs2005/bytonbyte/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, album *models.Album) (*models.Album, error)
	List(ctx context.Context) ([]*models.Album, error)
	Exists(ctx context.Context, id string) (bool, error)
}
