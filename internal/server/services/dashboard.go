package services

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/dmitrijs2005/bytonbyte/internal/server/models"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/repomanager"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultJobsByDateDays = 30
	MaxJobsByDateDays     = 90
)

type DashboardService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewDashboardService(db *sql.DB, m repomanager.RepositoryManager) *DashboardService {
	return &DashboardService{db: db, repomanager: m, now: time.Now}
}

// Stats counts jobs in total and per status group. The counts run
// concurrently.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	repo := s.repomanager.Jobs(s.db)
	var out models.DashboardStats

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalJobs, err = repo.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.PublishedJobs, err = repo.CountByStatus(ctx, models.JobStatusOpen, models.JobStatusPublished)
		return err
	})
	g.Go(func() (err error) {
		out.DraftJobs, err = repo.CountByStatus(ctx, models.JobStatusDraft)
		return err
	})
	g.Go(func() (err error) {
		out.ClosedJobs, err = repo.CountByStatus(ctx, models.JobStatusClosed)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClampDays bounds the jobs-by-date window to [1, MaxJobsByDateDays].
func ClampDays(days int) int {
	if days < 1 {
		return 1
	}
	if days > MaxJobsByDateDays {
		return MaxJobsByDateDays
	}
	return days
}

// JobsByDate returns per-day job creation counts for the last days days in
// UTC, ascending by date. Days without jobs are omitted.
func (s *DashboardService) JobsByDate(ctx context.Context, days int) ([]models.JobsOnDate, error) {
	days = ClampDays(days)

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -days)
	end := today.AddDate(0, 0, 1).Add(-time.Millisecond)

	created, err := s.repomanager.Jobs(s.db).CreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, t := range created {
		counts[t.UTC().Format(time.DateOnly)]++
	}

	out := make([]models.JobsOnDate, 0, len(counts))
	for d, n := range counts {
		out = append(out, models.JobsOnDate{Date: d, Jobs: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
