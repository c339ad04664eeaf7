// Package jobs provides PostgreSQL-backed storage for job postings and the
// aggregate queries behind the dashboard.
package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/bytonbyte/internal/common"
	"github.com/dmitrijs2005/bytonbyte/internal/dbx"
	"github.com/dmitrijs2005/bytonbyte/internal/server/models"
)

const selectJob = `SELECT j.id, j.title, j.job_description, j.job_type, j.location, j.salary,
		j.job_time, j.job_status, j.created_at, j.updated_at,
		(SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id) AS application_count
		FROM jobs j`

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts job and fills its ID and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	query := `
		INSERT INTO jobs (title, job_description, job_type, location, salary, job_time, job_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		job.Title, job.JobDescription, job.JobType, job.Location, job.Salary, job.JobTime, job.JobStatus,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return job, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	row := r.db.QueryRowContext(ctx, selectJob+` WHERE j.id = $1`, id)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return job, nil
}

// List returns all jobs with their application counts, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Job, error) {
	rows, err := r.db.QueryContext(ctx, selectJob+` ORDER BY j.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select jobs: %w", err)
	}
	defer rows.Close()

	var result []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// CountByStatus counts jobs whose status matches any of statuses,
// ignoring case.
func (r *PostgresRepository) CountByStatus(ctx context.Context, statuses ...string) (int, error) {
	if len(statuses) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, s := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = strings.ToLower(s)
	}
	query := `SELECT COUNT(*) FROM jobs WHERE lower(job_status) IN (` + strings.Join(placeholders, ", ") + `)`

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// CreatedBetween returns the creation times of jobs created in [start, end].
func (r *PostgresRepository) CreatedBetween(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	query := `SELECT created_at FROM jobs WHERE created_at >= $1 AND created_at <= $2`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		result = append(result, ts)
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*models.Job, error) {
	var (
		job    models.Job
		salary sql.NullString
	)
	if err := s.Scan(
		&job.ID, &job.Title, &job.JobDescription, &job.JobType, &job.Location, &salary,
		&job.JobTime, &job.JobStatus, &job.CreatedAt, &job.UpdatedAt, &job.ApplicationCount,
	); err != nil {
		return nil, err
	}
	if salary.Valid {
		job.Salary = &salary.String
	}
	return &job, nil
}
