// Package httpapi exposes the admin backend as a JSON HTTP API. Every route
// except login, logout and the operational endpoints requires a session.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/bytonbyte/internal/logging"
	"github.com/dmitrijs2005/bytonbyte/internal/server/metrics"
	"github.com/dmitrijs2005/bytonbyte/internal/server/models"
	"github.com/dmitrijs2005/bytonbyte/internal/server/services"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultMaxUploadBytes = 10 << 20
	defaultLoginLimit     = 10
	loginWindow           = time.Minute
)

type AdminService interface {
	Authenticate(ctx context.Context, email, password string) (*models.Principal, error)
	ChangePassword(ctx context.Context, p models.Principal, current, next, confirm string) error
	ProvisionAdmin(ctx context.Context, email, password, confirm string) (*models.AdminView, error)
	SetActive(ctx context.Context, id string, active bool) (*models.AdminView, error)
	ListAdmins(ctx context.Context) ([]models.AdminView, error)
}

type SessionIssuer interface {
	Issue(p models.Principal) (string, time.Time, error)
	Verify(token string) (*models.Principal, error)
}

type JobService interface {
	List(ctx context.Context) ([]*models.Job, error)
	Get(ctx context.Context, id int64) (*models.Job, error)
	Create(ctx context.Context, in services.CreateJobInput) (*models.Job, error)
}

type GalleryService interface {
	ListAlbums(ctx context.Context) ([]*models.Album, error)
	CreateAlbum(ctx context.Context, in services.CreateAlbumInput) (*models.Album, error)
	ListImages(ctx context.Context, albumID string) ([]*models.Image, error)
	Upload(ctx context.Context, in services.UploadInput) (*models.Image, error)
}

type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
	JobsByDate(ctx context.Context, days int) ([]models.JobsOnDate, error)
}

// Pinger reports database reachability for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Admins    AdminService
	Sessions  SessionIssuer
	Jobs      JobService
	Gallery   GalleryService
	Dashboard DashboardService
	DB        Pinger

	Logger   logging.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	CookieSecure   bool
	MaxUploadBytes int64
	LoginRateLimit int
}

type Server struct {
	admins    AdminService
	sessions  SessionIssuer
	jobs      JobService
	gallery   GalleryService
	dashboard DashboardService
	db        Pinger

	log      logging.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer

	cookieSecure   bool
	maxUploadBytes int64
	loginLimiter   *keyedLimiter
}

func NewServer(d Deps) *Server {
	log := d.Logger
	if log == nil {
		log = logging.Nop()
	}
	m := d.Metrics
	if m == nil {
		m = metrics.New(nil)
	}
	maxUpload := d.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	limit := d.LoginRateLimit
	if limit <= 0 {
		limit = defaultLoginLimit
	}

	return &Server{
		admins:         d.Admins,
		sessions:       d.Sessions,
		jobs:           d.Jobs,
		gallery:        d.Gallery,
		dashboard:      d.Dashboard,
		db:             d.DB,
		log:            log.With("module", "httpapi"),
		metrics:        m,
		gatherer:       d.Gatherer,
		cookieSecure:   d.CookieSecure,
		maxUploadBytes: maxUpload,
		loginLimiter:   newKeyedLimiter(limit, loginWindow),
	}
}

// Handler builds the router wrapped in the recover and request-log
// middleware.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.withMetrics)
	r.NotFoundHandler = http.HandlerFunc(handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = http.HandlerFunc(handleNotFound)
	api.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)

	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/auth/session", s.requireSession(s.handleSession)).Methods(http.MethodGet)

	api.HandleFunc("/admins", s.requireSession(s.handleListAdmins)).Methods(http.MethodGet)
	api.HandleFunc("/admins", s.requireSession(s.handleCreateAdmin)).Methods(http.MethodPost)
	api.HandleFunc("/admins/{id}", s.requireSession(s.handleSetAdminActive)).Methods(http.MethodPatch)
	api.HandleFunc("/settings/change-password", s.requireSession(s.handleChangePassword)).Methods(http.MethodPost)

	api.HandleFunc("/jobs", s.requireSession(s.handleListJobs)).Methods(http.MethodGet)
	api.HandleFunc("/jobs", s.requireSession(s.handleCreateJob)).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id}", s.requireSession(s.handleGetJob)).Methods(http.MethodGet)

	api.HandleFunc("/albums", s.requireSession(s.handleListAlbums)).Methods(http.MethodGet)
	api.HandleFunc("/albums", s.requireSession(s.handleCreateAlbum)).Methods(http.MethodPost)
	api.HandleFunc("/gallery", s.requireSession(s.handleListImages)).Methods(http.MethodGet)
	api.HandleFunc("/gallery/upload", s.requireSession(s.handleUpload)).Methods(http.MethodPost)

	api.HandleFunc("/dashboard/stats", s.requireSession(s.handleStats)).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/jobs-by-date", s.requireSession(s.handleJobsByDate)).Methods(http.MethodGet)

	return s.withRecover(s.withRequestLog(withSecurityHeaders(r)))
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.loginLimiter.Stop()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.log.Warn(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-content-type-options", "nosniff")
		w.Header().Set("x-frame-options", "DENY")
		w.Header().Set("referrer-policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
