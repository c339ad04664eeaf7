package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bytonbyte/internal/dbx"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/admins"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/albums"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/images"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/jobs"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Admins(db dbx.DBTX) admins.Repository
	Jobs(db dbx.DBTX) jobs.Repository
	Albums(db dbx.DBTX) albums.Repository
	Images(db dbx.DBTX) images.Repository
}
