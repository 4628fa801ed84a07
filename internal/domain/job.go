package domain

import (
	"context"
	"time"
)

// Job status values. Applications are only accepted against open jobs.
const (
	JobStatusDraft  = "draft"
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

// Job is read-only from this service's perspective; it is owned by the
// job-management collaborator and consulted for submission checks and the
// employer ownership chain.
type Job struct {
	ID                string    `json:"id"`
	EmployerProfileID string    `json:"employer_profile_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Location          *string   `json:"location,omitempty"`
	SalaryMin         *float64  `json:"salary_min,omitempty"`
	SalaryMax         *float64  `json:"salary_max,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsOpen reports whether the job publicly accepts applications.
func (j *Job) IsOpen() bool {
	return j.Status == JobStatusOpen
}

// EmployerProfile links a user account to the jobs it owns
// (User 1:1 EmployerProfile 1:N Job).
type EmployerProfile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CompanyName string    `json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// JobRepository is the read-only view of the jobs table.
type JobRepository interface {
	GetByID(ctx context.Context, id string) (*Job, error)
}

// EmployerProfileRepository is the read-only view of employer profiles.
type EmployerProfileRepository interface {
	GetByID(ctx context.Context, id string) (*EmployerProfile, error)
	GetByUserID(ctx context.Context, userID string) (*EmployerProfile, error)
}
