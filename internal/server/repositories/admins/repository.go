package admins

import (
	"context"

	"github.com/dmitrijs2005/bytonbyte/internal/server/models"
)

// Repository is the credential store. It is the only layer that reads or
// writes password hashes.
type Repository interface {
	Create(ctx context.Context, admin *models.Admin) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetByID(ctx context.Context, id string) (*models.Admin, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	SetActive(ctx context.Context, id string, active bool) (*models.Admin, error)
	List(ctx context.Context) ([]*models.Admin, error)
}
