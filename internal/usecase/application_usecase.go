package usecase

import (
	"context"
	"errors"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

type applicationUsecase struct {
	appRepo   domain.ApplicationRepository
	jobRepo   domain.JobRepository
	authz     domain.AuthorizationResolver
	publisher domain.EventPublisher
}

// NewApplicationUsecase creates the application lifecycle manager
func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	authz domain.AuthorizationResolver,
	publisher domain.EventPublisher,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		appRepo:   appRepo,
		jobRepo:   jobRepo,
		authz:     authz,
		publisher: publisher,
	}
}

// Submit creates an application in the applied state for an open job
func (uc *applicationUsecase) Submit(ctx context.Context, candidateID, jobID, coverLetter string) (*domain.Application, error) {
	// 1. Validate job exists and is publicly open
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}
	if !job.IsOpen() {
		return nil, apperror.NotFound("Job is not open for applications")
	}

	// 2. Check for duplicate application
	exists, err := uc.appRepo.CheckExists(ctx, jobID, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("You have already applied to this job")
	}

	// 3. Create application
	var coverLetterPtr *string
	if coverLetter != "" {
		coverLetterPtr = &coverLetter
	}

	app := &domain.Application{
		JobID:       jobID,
		CandidateID: candidateID,
		CoverLetter: coverLetterPtr,
		Status:      domain.ApplicationStatusApplied,
	}

	if err := uc.appRepo.Create(ctx, app); err != nil {
		return nil, apperror.Internal(err)
	}

	uc.publisher.Emit(domain.EventApplicationSubmitted, domain.ApplicationEventPayload{
		ApplicationID: app.ID,
		JobID:         jobID,
		CandidateID:   candidateID,
		NewStatus:     app.Status,
		ChangedBy:     candidateID,
	})

	return app, nil
}

// Transition applies a bare lifecycle edge requested by an actor. Edges that
// belong to the interview or offer flow are refused here regardless of caller.
func (uc *applicationUsecase) Transition(ctx context.Context, actorID, actorRole, applicationID, targetStatus, note string) error {
	// 1. Validate target status
	if !domain.IsValidApplicationStatus(targetStatus) {
		return apperror.BadRequest("Unknown application status: " + targetStatus)
	}
	if domain.IsMediatedTarget(targetStatus) {
		return apperror.Conflict("This status can only be reached through the interview or offer flow")
	}

	// 2. Load current state
	app, err := uc.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Application not found")
		}
		return apperror.Internal(err)
	}

	// 3. Check the edge is legal from the current status
	if !domain.CanTransition(app.Status, targetStatus) {
		return apperror.Conflict("Cannot move application from " + app.Status + " to " + targetStatus)
	}

	// 4. Authorize the actor. withdrawn belongs to the candidate; every other
	// edge is employer-initiated and walks the job ownership chain.
	if targetStatus == domain.ApplicationStatusWithdrawn {
		if actorRole != domain.RoleCandidate || actorID != app.CandidateID {
			return apperror.Forbidden("Only the candidate can withdraw an application")
		}
	} else {
		if actorRole != domain.RoleEmployer {
			return apperror.Forbidden("Only the employer can update application status")
		}
		if _, err := uc.authz.ResolveEmployerOwnership(ctx, actorID, app.JobID); err != nil {
			return err
		}
	}

	// 5. Guarded write + history row in one transaction. A concurrent writer
	// that moved the row first surfaces as a conflict, never an overwrite.
	var notePtr *string
	if note != "" {
		notePtr = &note
	}
	err = uc.appRepo.TransitionStatus(ctx, domain.StatusTransition{
		ApplicationID: applicationID,
		FromStatus:    app.Status,
		ToStatus:      targetStatus,
		ChangedBy:     actorID,
		Comment:       notePtr,
	})
	if err != nil {
		return mapTransitionError(err)
	}

	uc.publisher.Emit(domain.EventApplicationStatusChanged, domain.ApplicationEventPayload{
		ApplicationID:  applicationID,
		JobID:          app.JobID,
		CandidateID:    app.CandidateID,
		PreviousStatus: app.Status,
		NewStatus:      targetStatus,
		ChangedBy:      actorID,
	})

	return nil
}

// Withdraw is the candidate-only convenience wrapper around Transition
func (uc *applicationUsecase) Withdraw(ctx context.Context, candidateID, applicationID, note string) error {
	return uc.Transition(ctx, candidateID, domain.RoleCandidate, applicationID, domain.ApplicationStatusWithdrawn, note)
}

// GetMyApplications returns the candidate's applications, optionally filtered by status
func (uc *applicationUsecase) GetMyApplications(ctx context.Context, candidateID, status string) ([]domain.Application, error) {
	if status != "" && !domain.IsValidApplicationStatus(status) {
		return nil, apperror.BadRequest("Unknown application status: " + status)
	}
	apps, err := uc.appRepo.GetByCandidateID(ctx, candidateID, status)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return apps, nil
}

// ListByJobID returns all applications for a job the caller owns
func (uc *applicationUsecase) ListByJobID(ctx context.Context, userID, jobID string) ([]domain.Application, error) {
	if _, err := uc.authz.ResolveEmployerOwnership(ctx, userID, jobID); err != nil {
		return nil, err
	}
	apps, err := uc.appRepo.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return apps, nil
}

// GetHistory returns the audit trail. Candidates see their own applications,
// employers the applications on jobs they own.
func (uc *applicationUsecase) GetHistory(ctx context.Context, actorID, actorRole, applicationID string) ([]domain.ApplicationStatusHistory, error) {
	switch actorRole {
	case domain.RoleCandidate:
		if _, err := uc.authz.ResolveCandidateOwnership(ctx, actorID, applicationID); err != nil {
			return nil, err
		}
	case domain.RoleEmployer:
		app, err := uc.appRepo.GetByID(ctx, applicationID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.NotFound("Application not found")
			}
			return nil, apperror.Internal(err)
		}
		if _, err := uc.authz.ResolveEmployerOwnership(ctx, actorID, app.JobID); err != nil {
			return nil, err
		}
	default:
		return nil, apperror.BadRequest("Unknown role: " + actorRole)
	}

	history, err := uc.appRepo.GetHistory(ctx, applicationID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return history, nil
}

// mapTransitionError translates repository sentinels from a guarded status
// write into the error taxonomy.
func mapTransitionError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound("Application not found")
	case errors.Is(err, domain.ErrStatusConflict):
		return apperror.Conflict("Application status changed, please re-check and retry")
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.Transient(err)
	default:
		return apperror.Internal(err)
	}
}
