package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type interviewUsecase struct {
	interviewRepo domain.InterviewRepository
	appRepo       domain.ApplicationRepository
	authz         domain.AuthorizationResolver
	publisher     domain.EventPublisher
	validate      *validator.Validate
}

// NewInterviewUsecase creates the interview scheduler
func NewInterviewUsecase(
	interviewRepo domain.InterviewRepository,
	appRepo domain.ApplicationRepository,
	authz domain.AuthorizationResolver,
	publisher domain.EventPublisher,
	validate *validator.Validate,
) domain.InterviewUsecase {
	return &interviewUsecase{
		interviewRepo: interviewRepo,
		appRepo:       appRepo,
		authz:         authz,
		publisher:     publisher,
		validate:      validate,
	}
}

// Schedule creates the interview, both participant rows and the application
// transition to interview_scheduled as one atomic unit.
func (uc *interviewUsecase) Schedule(ctx context.Context, employerUserID string, in domain.ScheduleInterviewInput) (*domain.Interview, error) {
	// 1. Validate input
	if err := uc.validate.Struct(in); err != nil {
		msgs := validation.FormatValidationErrors(err)
		return nil, apperror.BadRequest(fmt.Sprintf("Invalid interview request: %v", msgs))
	}

	// 2. Look up the application by (job, candidate)
	app, err := uc.appRepo.GetByJobAndCandidate(ctx, in.JobID, in.CandidateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found for this candidate and job")
		}
		return nil, apperror.Internal(err)
	}

	// 3. Resolve employer ownership of the job (also validates the job exists)
	profile, err := uc.authz.ResolveEmployerOwnership(ctx, employerUserID, in.JobID)
	if err != nil {
		return nil, err
	}

	// 4. Pre-check the lifecycle edge; the transactional compare-and-swap
	// below still guards against races.
	if app.Status != domain.ApplicationStatusShortlisted {
		return nil, apperror.Conflict("Application must be shortlisted before an interview can be scheduled")
	}

	iv := &domain.Interview{
		ApplicationID:   app.ID,
		JobID:           in.JobID,
		EmployerID:      profile.ID,
		CandidateID:     in.CandidateID,
		ScheduledAt:     in.ScheduledAt,
		DurationMinutes: in.DurationMinutes,
		MeetingType:     in.MeetingType,
		MeetingTool:     in.MeetingTool,
		MeetingLink:     in.MeetingLink,
		Location:        in.Location,
		Notes:           in.Notes,
		Status:          domain.InterviewStatusScheduled,
	}

	// Participants carry user ids on both sides; the interview row carries the
	// employer profile id.
	participants := []domain.InterviewParticipant{
		{UserID: employerUserID, Role: domain.ParticipantRoleEmployer},
		{UserID: in.CandidateID, Role: domain.ParticipantRoleCandidate},
	}

	comment := fmt.Sprintf("Interview scheduled for %s", in.ScheduledAt.Format(time.RFC3339))
	err = uc.interviewRepo.CreateScheduled(ctx, iv, participants, domain.StatusTransition{
		ApplicationID: app.ID,
		FromStatus:    domain.ApplicationStatusShortlisted,
		ToStatus:      domain.ApplicationStatusInterviewScheduled,
		ChangedBy:     employerUserID,
		Comment:       &comment,
	})
	if err != nil {
		return nil, mapTransitionError(err)
	}

	// Post-commit, best effort: a failed emit never rolls the schedule back
	uc.publisher.Emit(domain.EventInterviewScheduled, domain.InterviewEventPayload{
		InterviewID:     iv.ID,
		ApplicationID:   app.ID,
		JobID:           in.JobID,
		EmployerID:      profile.ID,
		CandidateID:     in.CandidateID,
		ScheduledAt:     in.ScheduledAt,
		DurationMinutes: in.DurationMinutes,
	})

	return iv, nil
}

// GetInterviews lists interviews visible to the caller. An employer without a
// profile yet simply has none; an unrecognized role is a caller bug and is
// rejected rather than silently returning nothing.
func (uc *interviewUsecase) GetInterviews(ctx context.Context, userID, role string) ([]domain.Interview, error) {
	switch role {
	case domain.RoleEmployer:
		profile, err := uc.authz.ResolveEmployerProfile(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return []domain.Interview{}, nil
			}
			return nil, apperror.Internal(err)
		}
		interviews, err := uc.interviewRepo.GetByEmployerID(ctx, profile.ID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		return interviews, nil
	case domain.RoleCandidate:
		interviews, err := uc.interviewRepo.GetByCandidateID(ctx, userID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		return interviews, nil
	default:
		return nil, apperror.BadRequest("Unknown role: " + role)
	}
}

// GetByID returns an interview to one of its participants
func (uc *interviewUsecase) GetByID(ctx context.Context, userID, interviewID string) (*domain.Interview, error) {
	iv, err := uc.loadInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}

	if iv.CandidateID == userID {
		return iv, nil
	}
	if _, err := uc.authz.ResolveEmployerOwnership(ctx, userID, iv.JobID); err != nil {
		return nil, apperror.Forbidden("You do not have permission to view this interview")
	}
	return iv, nil
}

// Reschedule moves an upcoming interview to a new slot
func (uc *interviewUsecase) Reschedule(ctx context.Context, employerUserID, interviewID string, scheduledAt time.Time, durationMinutes int) (*domain.Interview, error) {
	iv, err := uc.ownedInterview(ctx, employerUserID, interviewID)
	if err != nil {
		return nil, err
	}

	if iv.Status != domain.InterviewStatusScheduled && iv.Status != domain.InterviewStatusRescheduled {
		return nil, apperror.Conflict("Only upcoming interviews can be rescheduled")
	}
	if !scheduledAt.After(time.Now()) {
		return nil, apperror.BadRequest("Scheduled time must be in the future")
	}
	if durationMinutes <= 0 {
		return nil, apperror.BadRequest("Duration must be positive")
	}

	if err := uc.interviewRepo.Reschedule(ctx, interviewID, scheduledAt, durationMinutes); err != nil {
		return nil, apperror.Internal(err)
	}

	uc.publisher.Emit(domain.EventInterviewRescheduled, domain.InterviewEventPayload{
		InterviewID:     iv.ID,
		ApplicationID:   iv.ApplicationID,
		JobID:           iv.JobID,
		EmployerID:      iv.EmployerID,
		CandidateID:     iv.CandidateID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: durationMinutes,
	})

	return uc.loadInterview(ctx, interviewID)
}

// Complete marks an interview as done and records interviewer notes. The
// application itself stays at interview_scheduled; advancing it is the offer
// flow's job.
func (uc *interviewUsecase) Complete(ctx context.Context, employerUserID, interviewID, notes string) error {
	iv, err := uc.ownedInterview(ctx, employerUserID, interviewID)
	if err != nil {
		return err
	}

	if iv.Status != domain.InterviewStatusScheduled && iv.Status != domain.InterviewStatusRescheduled {
		return apperror.Conflict("Only upcoming interviews can be completed")
	}

	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}
	if err := uc.interviewRepo.UpdateStatus(ctx, interviewID, domain.InterviewStatusCompleted, notesPtr); err != nil {
		return apperror.Internal(err)
	}

	uc.publisher.Emit(domain.EventInterviewCompleted, domain.InterviewEventPayload{
		InterviewID:   iv.ID,
		ApplicationID: iv.ApplicationID,
		JobID:         iv.JobID,
		EmployerID:    iv.EmployerID,
		CandidateID:   iv.CandidateID,
		ScheduledAt:   iv.ScheduledAt,
	})

	return nil
}

// Cancel calls off an upcoming interview; the row persists for audit
func (uc *interviewUsecase) Cancel(ctx context.Context, employerUserID, interviewID, reason string) error {
	iv, err := uc.ownedInterview(ctx, employerUserID, interviewID)
	if err != nil {
		return err
	}

	if iv.Status == domain.InterviewStatusCompleted || iv.Status == domain.InterviewStatusCanceled {
		return apperror.Conflict("Interview is already " + iv.Status)
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	if err := uc.interviewRepo.UpdateStatus(ctx, interviewID, domain.InterviewStatusCanceled, reasonPtr); err != nil {
		return apperror.Internal(err)
	}

	uc.publisher.Emit(domain.EventInterviewCancelled, domain.InterviewEventPayload{
		InterviewID:   iv.ID,
		ApplicationID: iv.ApplicationID,
		JobID:         iv.JobID,
		EmployerID:    iv.EmployerID,
		CandidateID:   iv.CandidateID,
		ScheduledAt:   iv.ScheduledAt,
	})

	return nil
}

// SubmitFeedback records the candidate's feedback on their own interview
func (uc *interviewUsecase) SubmitFeedback(ctx context.Context, candidateID, interviewID, feedback string) error {
	iv, err := uc.loadInterview(ctx, interviewID)
	if err != nil {
		return err
	}
	if iv.CandidateID != candidateID {
		return apperror.Forbidden("You do not have permission to access this interview")
	}
	if feedback == "" {
		return apperror.BadRequest("Feedback must not be empty")
	}

	if err := uc.interviewRepo.SetCandidateFeedback(ctx, interviewID, feedback); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *interviewUsecase) loadInterview(ctx context.Context, interviewID string) (*domain.Interview, error) {
	iv, err := uc.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Interview not found")
		}
		return nil, apperror.Internal(err)
	}
	return iv, nil
}

// ownedInterview loads the interview and verifies the caller owns the job it
// belongs to.
func (uc *interviewUsecase) ownedInterview(ctx context.Context, employerUserID, interviewID string) (*domain.Interview, error) {
	iv, err := uc.loadInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.authz.ResolveEmployerOwnership(ctx, employerUserID, iv.JobID); err != nil {
		return nil, err
	}
	return iv, nil
}
