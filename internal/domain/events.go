package domain

import "time"

// Lifecycle event names consumed by the notification pipeline.
const (
	EventApplicationSubmitted     = "APPLICATION_SUBMITTED"
	EventApplicationStatusChanged = "APPLICATION_STATUS_CHANGED"
	EventInterviewScheduled       = "INTERVIEW_SCHEDULED"
	EventInterviewRescheduled     = "INTERVIEW_RESCHEDULED"
	EventInterviewCompleted       = "INTERVIEW_COMPLETED"
	EventInterviewCancelled       = "INTERVIEW_CANCELLED"
	EventOfferExtended            = "OFFER_EXTENDED"
	EventOfferAccepted            = "OFFER_ACCEPTED"
	EventOfferDeclined            = "OFFER_DECLINED"
	EventOfferWithdrawn           = "OFFER_WITHDRAWN"
)

// ApplicationEventPayload accompanies application lifecycle events.
type ApplicationEventPayload struct {
	ApplicationID  string `json:"application_id"`
	JobID          string `json:"job_id"`
	CandidateID    string `json:"candidate_id"`
	PreviousStatus string `json:"previous_status,omitempty"`
	NewStatus      string `json:"new_status"`
	ChangedBy      string `json:"changed_by"`
}

// InterviewEventPayload accompanies interview lifecycle events.
type InterviewEventPayload struct {
	InterviewID     string    `json:"interview_id"`
	ApplicationID   string    `json:"application_id"`
	JobID           string    `json:"job_id"`
	EmployerID      string    `json:"employer_id"`
	CandidateID     string    `json:"candidate_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
}

// OfferEventPayload accompanies offer lifecycle events.
type OfferEventPayload struct {
	OfferID       string  `json:"offer_id"`
	ApplicationID string  `json:"application_id"`
	CandidateID   string  `json:"candidate_id"`
	Status        string  `json:"status"`
	Reason        *string `json:"reason,omitempty"`
}

// EventPublisher hands lifecycle events to the downstream notification
// collaborator. Emission is at-most-once and fire-and-forget: implementations
// must never surface delivery failures to the caller. The relational
// transaction is the consistency boundary, notification is not.
type EventPublisher interface {
	Emit(event string, payload any)
}
