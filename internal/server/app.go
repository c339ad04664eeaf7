// Package server wires the admin backend together: it opens the database,
// applies migrations, builds the services and serves the HTTP API until the
// process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/bytonbyte/internal/dbx"
	"github.com/dmitrijs2005/bytonbyte/internal/logging"
	"github.com/dmitrijs2005/bytonbyte/internal/server/auth"
	"github.com/dmitrijs2005/bytonbyte/internal/server/config"
	"github.com/dmitrijs2005/bytonbyte/internal/server/httpapi"
	"github.com/dmitrijs2005/bytonbyte/internal/server/metrics"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bytonbyte/internal/server/services"
	"github.com/dmitrijs2005/bytonbyte/internal/server/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const shutdownTimeout = 10 * time.Second

var sqlOpen = sql.Open

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	api    *httpapi.Server
}

// OpenDatabase normalizes dsn, opens a pgx-backed pool and checks that the
// database answers.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sqlOpen("pgx", dbx.NormalizePostgresDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := OpenDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "database connected", "dsn", dbx.MaskDSN(c.DatabaseDSN))

	app, err := newApp(ctx, c, logger, db, repomanager.NewPostgresRepositoryManager())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	sessions, err := auth.NewSessionIssuer([]byte(c.SecretKey), c.SessionTTL)
	if err != nil {
		return nil, err
	}

	registry, m := metrics.NewRegistry()

	uploader, err := newUploader(ctx, c, logger, m)
	if err != nil {
		return nil, err
	}

	api := httpapi.NewServer(httpapi.Deps{
		Admins:         services.NewAdminService(db, rm, auth.NewPasswordHasher(), logger, m),
		Sessions:       sessions,
		Jobs:           services.NewJobService(db, rm),
		Gallery:        services.NewGalleryService(db, rm, uploader, logger),
		Dashboard:      services.NewDashboardService(db, rm),
		DB:             db,
		Logger:         logger,
		Metrics:        m,
		Gatherer:       registry,
		CookieSecure:   c.CookieSecure,
		MaxUploadBytes: c.MaxUploadBytes,
		LoginRateLimit: c.LoginRateLimit,
	})

	return &App{config: c, logger: logger, db: db, api: api}, nil
}

// newUploader chains the configured storage backends, S3 first.
func newUploader(ctx context.Context, c *config.Config, logger logging.Logger, m *metrics.Metrics) (*storage.FallbackUploader, error) {
	var backends []storage.Uploader
	if c.S3Enabled() {
		s3u, err := storage.NewS3Uploader(ctx, storage.S3Options{
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Region:       c.S3Region,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
			PublicURL:    c.S3PublicURL,
		})
		if err != nil {
			return nil, err
		}
		backends = append(backends, s3u)
	}
	if c.StorageRESTEnabled() {
		backends = append(backends, storage.NewRESTUploader(c.StorageRESTURL, c.StorageRESTKey, c.StorageBucket))
	}

	u := storage.NewFallbackUploader(logger.With("module", "storage"), m, backends...)
	if !u.Configured() {
		logger.Warn(ctx, "no storage backend configured; gallery uploads will fail with 503")
	}
	return u, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives,
// then drains in-flight requests and closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:              app.config.HTTPAddr,
		Handler:           app.api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting app...", "addr", app.config.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		runErr = err
	}

	app.logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "http shutdown", "error", err)
	}

	app.api.Close()
	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "close database", "error", err)
	}
	return runErr
}
