package postgres

import (
	"context"
	"errors"

	"go-jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

// The jobs and employer_profiles tables are owned by the job-management
// collaborators; this service only ever reads them for submission checks and
// ownership resolution.

type jobRepo struct {
	db Querier
}

func NewJobRepository(db Querier) domain.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `
		SELECT id, employer_profile_id, title, description, location, salary_min, salary_max, status, created_at, updated_at
		FROM jobs
		WHERE id = $1`

	var job domain.Job
	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.EmployerProfileID, &job.Title, &job.Description,
		&job.Location, &job.SalaryMin, &job.SalaryMax, &job.Status,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

type employerProfileRepo struct {
	db Querier
}

func NewEmployerProfileRepository(db Querier) domain.EmployerProfileRepository {
	return &employerProfileRepo{db: db}
}

func (r *employerProfileRepo) GetByID(ctx context.Context, id string) (*domain.EmployerProfile, error) {
	return r.get(ctx, `SELECT id, user_id, company_name, created_at FROM employer_profiles WHERE id = $1`, id)
}

func (r *employerProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.EmployerProfile, error) {
	return r.get(ctx, `SELECT id, user_id, company_name, created_at FROM employer_profiles WHERE user_id = $1`, userID)
}

func (r *employerProfileRepo) get(ctx context.Context, query, arg string) (*domain.EmployerProfile, error) {
	var profile domain.EmployerProfile
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&profile.ID, &profile.UserID, &profile.CompanyName, &profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}
