package domain

import (
	"context"
	"time"
)

// Interview status values
const (
	InterviewStatusScheduled   = "scheduled"
	InterviewStatusRescheduled = "rescheduled"
	InterviewStatusCompleted   = "completed"
	InterviewStatusCanceled    = "canceled"
	InterviewStatusNoShow      = "no_show"
)

// Interview meeting types
const (
	MeetingTypeOnline  = "online"
	MeetingTypeOffline = "offline"
)

// Participant roles
const (
	ParticipantRoleEmployer  = "employer"
	ParticipantRoleCandidate = "candidate"
)

// Interview is a scheduled meeting tied to exactly one application. Interviews
// are updatable but never deleted; cancellation is a status change.
type Interview struct {
	ID                string    `json:"id"`
	ApplicationID     string    `json:"application_id"`
	JobID             string    `json:"job_id"`
	EmployerID        string    `json:"employer_id"` // employer profile id, not user id
	CandidateID       string    `json:"candidate_id"`
	ScheduledAt       time.Time `json:"scheduled_at"`
	DurationMinutes   int       `json:"duration_minutes"`
	MeetingType       string    `json:"meeting_type"` // online | offline
	MeetingTool       *string   `json:"meeting_tool,omitempty"`
	MeetingLink       *string   `json:"meeting_link,omitempty"`
	Location          *string   `json:"location,omitempty"`
	Notes             *string   `json:"notes,omitempty"`
	InterviewerNotes  *string   `json:"interviewer_notes,omitempty"`
	CandidateFeedback *string   `json:"candidate_feedback,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// InterviewParticipant is the join row between an interview and a user.
// Created together with the interview, never independently mutated.
type InterviewParticipant struct {
	InterviewID string `json:"interview_id"`
	UserID      string `json:"user_id"`
	Role        string `json:"role"` // employer | candidate
}

// ScheduleInterviewInput carries the validated payload for scheduling.
type ScheduleInterviewInput struct {
	CandidateID     string    `json:"candidate_id" validate:"required,uuid4"`
	JobID           string    `json:"job_id" validate:"required,uuid4"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required,future_time"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,gt=0,lte=480"`
	MeetingType     string    `json:"meeting_type" validate:"required,oneof=online offline"`
	MeetingTool     *string   `json:"meeting_tool,omitempty" validate:"omitempty,max=50"`
	MeetingLink     *string   `json:"meeting_link,omitempty" validate:"omitempty,url"`
	Location        *string   `json:"location,omitempty" validate:"omitempty,max=255"`
	Notes           *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// InterviewRepository defines data access for interviews and their participants.
type InterviewRepository interface {
	// CreateScheduled inserts the interview, both participant rows and the
	// guarded application transition as one transaction. Partial writes must
	// never be observable.
	CreateScheduled(ctx context.Context, iv *Interview, participants []InterviewParticipant, t StatusTransition) error

	GetByID(ctx context.Context, id string) (*Interview, error)
	GetByEmployerID(ctx context.Context, employerProfileID string) ([]Interview, error)
	GetByCandidateID(ctx context.Context, candidateID string) ([]Interview, error)
	GetParticipants(ctx context.Context, interviewID string) ([]InterviewParticipant, error)

	Reschedule(ctx context.Context, id string, scheduledAt time.Time, durationMinutes int) error
	UpdateStatus(ctx context.Context, id, status string, interviewerNotes *string) error
	SetCandidateFeedback(ctx context.Context, id, feedback string) error
}

// InterviewUsecase drives interview scheduling and follow-up updates.
type InterviewUsecase interface {
	Schedule(ctx context.Context, employerUserID string, in ScheduleInterviewInput) (*Interview, error)
	GetInterviews(ctx context.Context, userID, role string) ([]Interview, error)
	GetByID(ctx context.Context, userID, interviewID string) (*Interview, error)
	Reschedule(ctx context.Context, employerUserID, interviewID string, scheduledAt time.Time, durationMinutes int) (*Interview, error)
	Complete(ctx context.Context, employerUserID, interviewID, notes string) error
	Cancel(ctx context.Context, employerUserID, interviewID, reason string) error
	SubmitFeedback(ctx context.Context, candidateID, interviewID, feedback string) error
}
