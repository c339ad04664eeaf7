package jobs

import (
	"context"
	"time"

	"github.com/dmitrijs2005/bytonbyte/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	GetByID(ctx context.Context, id int64) (*models.Job, error)
	List(ctx context.Context) ([]*models.Job, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, statuses ...string) (int, error)
	CreatedBetween(ctx context.Context, start, end time.Time) ([]time.Time, error)
}
