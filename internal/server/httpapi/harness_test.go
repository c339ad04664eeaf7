package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/bytonbyte/internal/common"
	"github.com/dmitrijs2005/bytonbyte/internal/dbx"
	"github.com/dmitrijs2005/bytonbyte/internal/logging"
	"github.com/dmitrijs2005/bytonbyte/internal/server/auth"
	"github.com/dmitrijs2005/bytonbyte/internal/server/metrics"
	"github.com/dmitrijs2005/bytonbyte/internal/server/models"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/admins"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/albums"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/images"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/bytonbyte/internal/server/services"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// memAdmins is an in-memory credential store with a unique email index.
type memAdmins struct {
	mu   sync.Mutex
	rows map[string]*models.Admin
}

func (m *memAdmins) Create(ctx context.Context, a *models.Admin) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == a.Email {
			return nil, common.ErrConflict
		}
	}
	cp := *a
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memAdmins) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == email {
			cp := *r
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memAdmins) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memAdmins) UpdatePassword(ctx context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return common.ErrorNotFound
	}
	r.PasswordHash = hash
	r.UpdatedAt = time.Now()
	return nil
}

func (m *memAdmins) SetActive(ctx context.Context, id string, active bool) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	r.Active = active
	cp := *r
	return &cp, nil
}

func (m *memAdmins) List(ctx context.Context) ([]*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Admin
	for _, r := range m.rows {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memRepoManager struct{ admins *memAdmins }

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Admins(dbx.DBTX) admins.Repository            { return m.admins }
func (m *memRepoManager) Jobs(dbx.DBTX) jobs.Repository                { return nil }
func (m *memRepoManager) Albums(dbx.DBTX) albums.Repository            { return nil }
func (m *memRepoManager) Images(dbx.DBTX) images.Repository            { return nil }

type stubJobs struct {
	jobs    []*models.Job
	created *services.CreateJobInput
	err     error
}

func (s *stubJobs) List(ctx context.Context) ([]*models.Job, error) { return s.jobs, s.err }

func (s *stubJobs) Get(ctx context.Context, id int64) (*models.Job, error) {
	for _, j := range s.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (s *stubJobs) Create(ctx context.Context, in services.CreateJobInput) (*models.Job, error) {
	s.created = &in
	if in.Title == "" {
		return nil, common.ErrInvalidInput
	}
	return &models.Job{ID: 7, Title: in.Title, JobStatus: models.JobStatusPublished}, nil
}

type stubGallery struct {
	upload    *services.UploadInput
	uploadErr error
	albumArg  string
}

func (s *stubGallery) ListAlbums(ctx context.Context) ([]*models.Album, error) {
	return []*models.Album{{ID: "a1", Name: "Office", Images: []models.Image{}}}, nil
}

func (s *stubGallery) CreateAlbum(ctx context.Context, in services.CreateAlbumInput) (*models.Album, error) {
	return &models.Album{ID: "a2", Name: in.Name, Images: []models.Image{}}, nil
}

func (s *stubGallery) ListImages(ctx context.Context, albumID string) ([]*models.Image, error) {
	s.albumArg = albumID
	return []*models.Image{}, nil
}

func (s *stubGallery) Upload(ctx context.Context, in services.UploadInput) (*models.Image, error) {
	s.upload = &in
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	return &models.Image{ID: "img", Filename: in.Filename, Size: int64(len(in.Data))}, nil
}

type stubDashboard struct {
	days int
}

func (s *stubDashboard) Stats(ctx context.Context) (*models.DashboardStats, error) {
	return &models.DashboardStats{TotalJobs: 3, PublishedJobs: 2, DraftJobs: 1}, nil
}

func (s *stubDashboard) JobsByDate(ctx context.Context, days int) ([]models.JobsOnDate, error) {
	s.days = days
	return []models.JobsOnDate{{Date: "2026-01-02", Jobs: 1}}, nil
}

type testEnv struct {
	t         *testing.T
	srv       *Server
	handler   http.Handler
	admins    *memAdmins
	adminSvc  *services.AdminService
	sessions  *auth.SessionIssuer
	jobs      *stubJobs
	gallery   *stubGallery
	dashboard *stubDashboard
	metrics   *metrics.Metrics
}

type envOption func(*Deps)

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := &memAdmins{rows: map[string]*models.Admin{}}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	adminSvc := services.NewAdminService(db, &memRepoManager{admins: store}, hasher, logging.Nop(), m)

	sessions, err := auth.NewSessionIssuer([]byte("test-secret-0123456789"), time.Hour)
	require.NoError(t, err)

	env := &testEnv{
		t:         t,
		admins:    store,
		adminSvc:  adminSvc,
		sessions:  sessions,
		jobs:      &stubJobs{},
		gallery:   &stubGallery{},
		dashboard: &stubDashboard{},
		metrics:   m,
	}
	deps := Deps{
		Admins:         adminSvc,
		Sessions:       sessions,
		Jobs:           env.jobs,
		Gallery:        env.gallery,
		Dashboard:      env.dashboard,
		DB:             db,
		Logger:         logging.Nop(),
		Metrics:        m,
		Gatherer:       reg,
		MaxUploadBytes: 1 << 10,
		LoginRateLimit: 100,
	}
	for _, o := range opts {
		o(&deps)
	}
	env.srv = NewServer(deps)
	t.Cleanup(env.srv.Close)
	env.handler = env.srv.Handler()
	return env
}

func (e *testEnv) provision(email, password string) models.AdminView {
	e.t.Helper()
	v, err := e.adminSvc.ProvisionAdmin(context.Background(), email, password, password)
	require.NoError(e.t, err)
	return *v
}

func (e *testEnv) token(email, password string) string {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, "")
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp loginResponse
	require.NoError(e.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

// do sends a JSON request, authenticating with a bearer token when set.
func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
