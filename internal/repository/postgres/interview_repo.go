package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-jobboard-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type interviewRepo struct {
	db        Querier
	txTimeout time.Duration
}

// NewInterviewRepository creates a new interview repository
func NewInterviewRepository(db Querier, txTimeout time.Duration) domain.InterviewRepository {
	return &interviewRepo{db: db, txTimeout: txTimeout}
}

// CreateScheduled inserts the interview, its participants and the guarded
// application transition atomically. All three writes commit or none do.
func (r *interviewRepo) CreateScheduled(ctx context.Context, iv *domain.Interview, participants []domain.InterviewParticipant, t domain.StatusTransition) error {
	ctx, cancel := context.WithTimeout(ctx, r.txTimeout)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	iv.ID = uuid.New().String()
	iv.CreatedAt = now
	iv.UpdatedAt = now
	if iv.Status == "" {
		iv.Status = domain.InterviewStatusScheduled
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO interviews (
			id, application_id, job_id, employer_id, candidate_id,
			scheduled_at, duration_minutes, meeting_type, meeting_tool, meeting_link,
			location, notes, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		iv.ID, iv.ApplicationID, iv.JobID, iv.EmployerID, iv.CandidateID,
		iv.ScheduledAt, iv.DurationMinutes, iv.MeetingType, iv.MeetingTool, iv.MeetingLink,
		iv.Location, iv.Notes, iv.Status, iv.CreatedAt, iv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert interview: %w", err)
	}

	for i := range participants {
		participants[i].InterviewID = iv.ID
		_, err = tx.Exec(ctx, `
			INSERT INTO interview_participants (interview_id, user_id, role)
			VALUES ($1, $2, $3)`,
			participants[i].InterviewID, participants[i].UserID, participants[i].Role,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant %s: %w", participants[i].Role, err)
		}
	}

	if err := applyTransition(ctx, tx, t); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const interviewColumns = `
	id, application_id, job_id, employer_id, candidate_id,
	scheduled_at, duration_minutes, meeting_type, meeting_tool, meeting_link,
	location, notes, interviewer_notes, candidate_feedback, status, created_at, updated_at`

func scanInterview(row pgx.Row) (*domain.Interview, error) {
	var iv domain.Interview
	err := row.Scan(
		&iv.ID, &iv.ApplicationID, &iv.JobID, &iv.EmployerID, &iv.CandidateID,
		&iv.ScheduledAt, &iv.DurationMinutes, &iv.MeetingType, &iv.MeetingTool, &iv.MeetingLink,
		&iv.Location, &iv.Notes, &iv.InterviewerNotes, &iv.CandidateFeedback,
		&iv.Status, &iv.CreatedAt, &iv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &iv, nil
}

// GetByID retrieves an interview by ID
func (r *interviewRepo) GetByID(ctx context.Context, id string) (*domain.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE id = $1`
	return scanInterview(r.db.QueryRow(ctx, query, id))
}

// GetByEmployerID retrieves interviews owned by an employer profile, soonest first
func (r *interviewRepo) GetByEmployerID(ctx context.Context, employerProfileID string) ([]domain.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE employer_id = $1 ORDER BY scheduled_at ASC`
	return r.queryInterviews(ctx, query, employerProfileID)
}

// GetByCandidateID retrieves interviews for a candidate, soonest first
func (r *interviewRepo) GetByCandidateID(ctx context.Context, candidateID string) ([]domain.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE candidate_id = $1 ORDER BY scheduled_at ASC`
	return r.queryInterviews(ctx, query, candidateID)
}

func (r *interviewRepo) queryInterviews(ctx context.Context, query string, args ...any) ([]domain.Interview, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interviews []domain.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		interviews = append(interviews, *iv)
	}
	return interviews, rows.Err()
}

// GetParticipants returns the participant rows for an interview
func (r *interviewRepo) GetParticipants(ctx context.Context, interviewID string) ([]domain.InterviewParticipant, error) {
	rows, err := r.db.Query(ctx,
		`SELECT interview_id, user_id, role FROM interview_participants WHERE interview_id = $1`,
		interviewID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []domain.InterviewParticipant
	for rows.Next() {
		var p domain.InterviewParticipant
		if err := rows.Scan(&p.InterviewID, &p.UserID, &p.Role); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// Reschedule moves the interview to a new slot and marks it rescheduled
func (r *interviewRepo) Reschedule(ctx context.Context, id string, scheduledAt time.Time, durationMinutes int) error {
	result, err := r.db.Exec(ctx, `
		UPDATE interviews
		SET scheduled_at = $2, duration_minutes = $3, status = $4, updated_at = NOW()
		WHERE id = $1`,
		id, scheduledAt, durationMinutes, domain.InterviewStatusRescheduled,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus sets the interview status, optionally recording interviewer notes
func (r *interviewRepo) UpdateStatus(ctx context.Context, id, status string, interviewerNotes *string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE interviews
		SET status = $2, interviewer_notes = COALESCE($3, interviewer_notes), updated_at = NOW()
		WHERE id = $1`,
		id, status, interviewerNotes,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetCandidateFeedback records the candidate's post-interview feedback
func (r *interviewRepo) SetCandidateFeedback(ctx context.Context, id, feedback string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE interviews SET candidate_feedback = $2, updated_at = NOW() WHERE id = $1`,
		id, feedback,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
