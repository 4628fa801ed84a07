package domain

import (
	"context"
	"errors"
	"time"
)

// Common repository sentinels. Usecases translate these into apperror kinds;
// repositories never decide business outcomes themselves.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrStatusConflict = errors.New("status changed concurrently")
)

// Application status values.
// Lifecycle: applied → viewed → shortlisted → interview_scheduled → offered → hired,
// with rejected (employer) and withdrawn (candidate) reachable from any non-terminal state.
const (
	ApplicationStatusApplied            = "applied"
	ApplicationStatusViewed             = "viewed"
	ApplicationStatusShortlisted        = "shortlisted"
	ApplicationStatusInterviewScheduled = "interview_scheduled"
	ApplicationStatusOffered            = "offered"
	ApplicationStatusHired              = "hired"
	ApplicationStatusRejected           = "rejected"
	ApplicationStatusWithdrawn          = "withdrawn"
)

// legalTransitions is the fixed edge set of the application state machine.
// rejected and withdrawn are handled separately (legal from any non-terminal source).
var legalTransitions = map[string]map[string]bool{
	ApplicationStatusApplied: {
		ApplicationStatusViewed:      true,
		ApplicationStatusShortlisted: true,
	},
	ApplicationStatusViewed: {
		ApplicationStatusShortlisted: true,
	},
	ApplicationStatusShortlisted: {
		ApplicationStatusInterviewScheduled: true,
	},
	ApplicationStatusInterviewScheduled: {
		ApplicationStatusOffered: true,
	},
	ApplicationStatusOffered: {
		ApplicationStatusHired: true,
	},
}

// mediatedTargets are statuses only reachable as a side effect of the interview
// or offer flow, never through a bare transition call.
var mediatedTargets = map[string]bool{
	ApplicationStatusInterviewScheduled: true,
	ApplicationStatusOffered:            true,
	ApplicationStatusHired:              true,
}

var applicationStatuses = map[string]bool{
	ApplicationStatusApplied:            true,
	ApplicationStatusViewed:             true,
	ApplicationStatusShortlisted:        true,
	ApplicationStatusInterviewScheduled: true,
	ApplicationStatusOffered:            true,
	ApplicationStatusHired:              true,
	ApplicationStatusRejected:           true,
	ApplicationStatusWithdrawn:          true,
}

// IsValidApplicationStatus reports whether s is a known status value.
func IsValidApplicationStatus(s string) bool {
	return applicationStatuses[s]
}

// IsTerminalStatus reports whether an application in status s can never move again.
func IsTerminalStatus(s string) bool {
	return s == ApplicationStatusHired || s == ApplicationStatusRejected || s == ApplicationStatusWithdrawn
}

// CanTransition reports whether from → to is a legal lifecycle edge.
func CanTransition(from, to string) bool {
	if IsTerminalStatus(from) {
		return false
	}
	if to == ApplicationStatusRejected || to == ApplicationStatusWithdrawn {
		return true
	}
	return legalTransitions[from][to]
}

// IsMediatedTarget reports whether to may only be reached through the interview
// scheduling or offer flow.
func IsMediatedTarget(to string) bool {
	return mediatedTargets[to]
}

// Application represents a candidate's bid for a job, the root entity of the
// hiring pipeline. Rows are never hard-deleted; terminal states persist for audit.
type Application struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	CandidateID string    `json:"candidate_id"`
	Status      string    `json:"status"`
	CoverLetter *string   `json:"cover_letter,omitempty"`
	AppliedAt   time.Time `json:"applied_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined data for list responses
	JobTitle      *string `json:"job_title,omitempty"`
	CandidateName *string `json:"candidate_name,omitempty"`
}

// ApplicationStatusHistory is one row of the append-only audit trail, written
// once per transition and never mutated.
type ApplicationStatusHistory struct {
	ID             string    `json:"id"`
	ApplicationID  string    `json:"application_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ChangedBy      string    `json:"changed_by"`
	Comment        *string   `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// StatusTransition describes a guarded status write. The update only applies
// while the application is still in FromStatus; a concurrent writer that moved
// it first makes this write fail with ErrStatusConflict instead of overwriting.
type StatusTransition struct {
	ApplicationID string
	FromStatus    string
	ToStatus      string
	ChangedBy     string
	Comment       *string
}

// ApplicationRepository defines data access for applications and their audit trail.
type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	GetByJobAndCandidate(ctx context.Context, jobID, candidateID string) (*Application, error)
	GetByJobID(ctx context.Context, jobID string) ([]Application, error)
	GetByCandidateID(ctx context.Context, candidateID, status string) ([]Application, error)
	CheckExists(ctx context.Context, jobID, candidateID string) (bool, error)

	// TransitionStatus performs the compare-and-swap status write plus the
	// history insert in a single transaction.
	TransitionStatus(ctx context.Context, t StatusTransition) error
	GetHistory(ctx context.Context, applicationID string) ([]ApplicationStatusHistory, error)
}

// ApplicationUsecase owns the application state machine.
type ApplicationUsecase interface {
	// Candidate operations
	Submit(ctx context.Context, candidateID, jobID, coverLetter string) (*Application, error)
	Withdraw(ctx context.Context, candidateID, applicationID, note string) error
	GetMyApplications(ctx context.Context, candidateID, status string) ([]Application, error)

	// Employer operations
	Transition(ctx context.Context, actorID, actorRole, applicationID, targetStatus, note string) error
	ListByJobID(ctx context.Context, userID, jobID string) ([]Application, error)

	// Shared
	GetHistory(ctx context.Context, actorID, actorRole, applicationID string) ([]ApplicationStatusHistory, error)
}
