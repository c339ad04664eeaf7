package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bytonbyte/internal/common"
	"github.com/dmitrijs2005/bytonbyte/internal/dbx"
	"github.com/dmitrijs2005/bytonbyte/internal/server/models"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/admins"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/albums"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/images"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/jobs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// fakeAdminsRepo is an in-memory credential store keyed by email.
type fakeAdminsRepo struct {
	mu       sync.Mutex
	byEmail  map[string]*models.Admin
	getErr   error
	createEr error
	updErr   error
}

func newFakeAdminsRepo() *fakeAdminsRepo {
	return &fakeAdminsRepo{byEmail: map[string]*models.Admin{}}
}

func (f *fakeAdminsRepo) put(a *models.Admin) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	f.byEmail[a.Email] = &cp
}

func (f *fakeAdminsRepo) Create(ctx context.Context, a *models.Admin) (*models.Admin, error) {
	if f.createEr != nil {
		return nil, f.createEr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[a.Email]; ok {
		return nil, common.ErrConflict
	}
	cp := *a
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.byEmail[a.Email] = &cp
	out := cp
	return &out, nil
}

func (f *fakeAdminsRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAdminsRepo) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byEmail {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAdminsRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	if f.updErr != nil {
		return f.updErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byEmail {
		if a.ID == id {
			a.PasswordHash = hash
			a.UpdatedAt = time.Now()
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeAdminsRepo) SetActive(ctx context.Context, id string, active bool) (*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byEmail {
		if a.ID == id {
			a.Active = active
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAdminsRepo) List(ctx context.Context) ([]*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Admin
	for _, a := range f.byEmail {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeJobsRepo struct {
	jobs      []*models.Job
	counts    map[string]int
	created   []time.Time
	countErr  error
	gotStart  time.Time
	gotEnd    time.Time
	createdIn *models.Job
}

func (f *fakeJobsRepo) Create(ctx context.Context, j *models.Job) (*models.Job, error) {
	f.createdIn = j
	j.ID = int64(len(f.jobs) + 1)
	f.jobs = append(f.jobs, j)
	return j, nil
}

func (f *fakeJobsRepo) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	for _, j := range f.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeJobsRepo) List(ctx context.Context) ([]*models.Job, error) { return f.jobs, nil }

func (f *fakeJobsRepo) Count(ctx context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.counts["*"], nil
}

func (f *fakeJobsRepo) CountByStatus(ctx context.Context, statuses ...string) (int, error) {
	return f.counts[strings.Join(statuses, ",")], nil
}

func (f *fakeJobsRepo) CreatedBetween(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	f.gotStart, f.gotEnd = start, end
	return f.created, nil
}

type fakeAlbumsRepo struct {
	albums []*models.Album
	exists map[string]bool
}

func (f *fakeAlbumsRepo) Create(ctx context.Context, a *models.Album) (*models.Album, error) {
	a.ID = uuid.NewString()
	f.albums = append(f.albums, a)
	return a, nil
}

func (f *fakeAlbumsRepo) List(ctx context.Context) ([]*models.Album, error) { return f.albums, nil }

func (f *fakeAlbumsRepo) Exists(ctx context.Context, id string) (bool, error) {
	return f.exists[id], nil
}

type fakeImagesRepo struct {
	created   []*models.Image
	createErr error
	listArg   string
}

func (f *fakeImagesRepo) Create(ctx context.Context, img *models.Image) (*models.Image, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	img.ID = uuid.NewString()
	f.created = append(f.created, img)
	return img, nil
}

func (f *fakeImagesRepo) List(ctx context.Context, albumID string) ([]*models.Image, error) {
	f.listArg = albumID
	return f.created, nil
}

type fakeRepoManager struct {
	admins *fakeAdminsRepo
	jobs   *fakeJobsRepo
	albums *fakeAlbumsRepo
	images *fakeImagesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Admins(db dbx.DBTX) admins.Repository        { return m.admins }
func (m *fakeRepoManager) Jobs(db dbx.DBTX) jobs.Repository            { return m.jobs }
func (m *fakeRepoManager) Albums(db dbx.DBTX) albums.Repository        { return m.albums }
func (m *fakeRepoManager) Images(db dbx.DBTX) images.Repository        { return m.images }
