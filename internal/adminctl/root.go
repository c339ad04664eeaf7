// Package adminctl implements the operator command line: applying
// migrations, seeding the first admin and hashing passwords offline.
package adminctl

import (
	"context"
	"database/sql"
	"os"

	"github.com/dmitrijs2005/bytonbyte/internal/logging"
	"github.com/dmitrijs2005/bytonbyte/internal/server"
	"github.com/dmitrijs2005/bytonbyte/internal/server/auth"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/repomanager"
	"github.com/spf13/cobra"
)

var (
	openDatabase = server.OpenDatabase
	newRepos     = repomanager.NewPostgresRepositoryManager
	newHasher    = func() auth.PasswordHasher { return auth.NewPasswordHasher() }
)

type options struct {
	databaseURL   string
	logLevel      string
	email         string
	passwordStdin bool
}

// NewRootCmd builds the adminctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "adminctl",
		Short:         "Byton Byte admin backend operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.databaseURL, "database-url", "d", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	root.PersistentFlags().StringVarP(&opts.logLevel, "log-level", "l", "info", "log level")

	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newSeedAdminCmd(opts))
	root.AddCommand(newHashPasswordCmd(opts))
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *options) logger(cmd *cobra.Command) logging.Logger {
	return logging.NewJSONLogger(cmd.ErrOrStderr(), o.logLevel)
}

func (o *options) open(ctx context.Context) (*sql.DB, error) {
	if o.databaseURL == "" {
		return nil, errDatabaseURL
	}
	return openDatabase(ctx, o.databaseURL)
}
