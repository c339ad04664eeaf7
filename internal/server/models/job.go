package models

import "time"

// Job is a job posting. ApplicationCount is computed on read.
type Job struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	JobDescription   string    `json:"jobDescription"`
	JobType          string    `json:"jobType"`
	Location         string    `json:"location"`
	Salary           *string   `json:"salary"`
	JobTime          string    `json:"jobTime"`
	JobStatus        string    `json:"jobStatus"`
	ApplicationCount int       `json:"applicationCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Job statuses as written by the dashboard. Stored values are free text and
// matched case-insensitively.
const (
	JobStatusPublished = "published"
	JobStatusOpen      = "open"
	JobStatusDraft     = "draft"
	JobStatusClosed    = "closed"
)

// DashboardStats aggregates job counts by status.
type DashboardStats struct {
	TotalJobs     int `json:"totalJobs"`
	PublishedJobs int `json:"publishedJobs"`
	DraftJobs     int `json:"draftJobs"`
	ClosedJobs    int `json:"closedJobs"`
}

// JobsOnDate is one point of the jobs-by-date series.
type JobsOnDate struct {
	Date string `json:"date"`
	Jobs int    `json:"jobs"`
}
