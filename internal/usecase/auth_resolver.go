package usecase

import (
	"context"
	"errors"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

type authResolver struct {
	employerRepo domain.EmployerProfileRepository
	jobRepo      domain.JobRepository
	appRepo      domain.ApplicationRepository
}

// NewAuthResolver creates the authorization resolver used as the first step of
// every mutating pipeline operation.
func NewAuthResolver(
	employerRepo domain.EmployerProfileRepository,
	jobRepo domain.JobRepository,
	appRepo domain.ApplicationRepository,
) domain.AuthorizationResolver {
	return &authResolver{
		employerRepo: employerRepo,
		jobRepo:      jobRepo,
		appRepo:      appRepo,
	}
}

// ResolveEmployerOwnership walks User → EmployerProfile → Job. The caller
// always passes a user id; the employer-profile id used for the ownership
// comparison is resolved here, never trusted from the request.
func (r *authResolver) ResolveEmployerOwnership(ctx context.Context, userID, jobID string) (*domain.EmployerProfile, error) {
	profile, err := r.employerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Employer profile not found")
		}
		return nil, apperror.Internal(err)
	}

	job, err := r.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}

	if job.EmployerProfileID != profile.ID {
		// Generic message: never leak which link of the chain failed
		return nil, apperror.Forbidden("You do not have permission to manage this job")
	}

	return profile, nil
}

// ResolveEmployerProfile maps a user id to its employer profile, passing
// domain.ErrNotFound through untouched.
func (r *authResolver) ResolveEmployerProfile(ctx context.Context, userID string) (*domain.EmployerProfile, error) {
	return r.employerRepo.GetByUserID(ctx, userID)
}

// ResolveCandidateOwnership verifies that userID is the candidate behind the
// application. Candidate identity sits directly on the row, no profile hop.
func (r *authResolver) ResolveCandidateOwnership(ctx context.Context, userID, applicationID string) (*domain.Application, error) {
	app, err := r.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}

	if app.CandidateID != userID {
		return nil, apperror.Forbidden("You do not have permission to access this application")
	}

	return app, nil
}
