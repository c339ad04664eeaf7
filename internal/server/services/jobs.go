package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bytonbyte/internal/common"
	"github.com/dmitrijs2005/bytonbyte/internal/server/models"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/repomanager"
)

// CreateJobInput is the payload accepted when posting a job.
type CreateJobInput struct {
	Title          string  `json:"title"`
	JobDescription string  `json:"jobDescription"`
	JobType        string  `json:"jobType"`
	Location       string  `json:"location"`
	Salary         *string `json:"salary"`
	JobTime        string  `json:"jobTime"`
	JobStatus      string  `json:"jobStatus"`
}

type JobService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewJobService(db *sql.DB, m repomanager.RepositoryManager) *JobService {
	return &JobService{db: db, repomanager: m}
}

func (s *JobService) List(ctx context.Context) ([]*models.Job, error) {
	return s.repomanager.Jobs(s.db).List(ctx)
}

func (s *JobService) Get(ctx context.Context, id int64) (*models.Job, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid job id", common.ErrInvalidInput)
	}
	return s.repomanager.Jobs(s.db).GetByID(ctx, id)
}

// Create validates in and stores a new job. The status defaults to
// published.
func (s *JobService) Create(ctx context.Context, in CreateJobInput) (*models.Job, error) {
	required := []struct{ name, value string }{
		{"title", in.Title},
		{"jobDescription", in.JobDescription},
		{"jobType", in.JobType},
		{"location", in.Location},
		{"jobTime", in.JobTime},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, fmt.Errorf("%w: %s is required", common.ErrInvalidInput, f.name)
		}
	}

	status := strings.TrimSpace(in.JobStatus)
	if status == "" {
		status = models.JobStatusPublished
	}

	var salary *string
	if in.Salary != nil && strings.TrimSpace(*in.Salary) != "" {
		v := strings.TrimSpace(*in.Salary)
		salary = &v
	}

	return s.repomanager.Jobs(s.db).Create(ctx, &models.Job{
		Title:          strings.TrimSpace(in.Title),
		JobDescription: in.JobDescription,
		JobType:        strings.TrimSpace(in.JobType),
		Location:       strings.TrimSpace(in.Location),
		Salary:         salary,
		JobTime:        strings.TrimSpace(in.JobTime),
		JobStatus:      status,
	})
}
