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

// PostgreSQL error codes
const pgUniqueViolation = "23505"

type applicationRepo struct {
	db Querier
	// Upper bound for multi-statement transactions so a stalled connection
	// cannot hold row locks open indefinitely.
	txTimeout time.Duration
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db Querier, txTimeout time.Duration) domain.ApplicationRepository {
	return &applicationRepo{db: db, txTimeout: txTimeout}
}

// Create inserts a new application
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (id, job_id, candidate_id, cover_letter, status, applied_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	app.ID = uuid.New().String()
	app.AppliedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = domain.ApplicationStatusApplied
	}

	_, err := r.db.Exec(ctx, query,
		app.ID,
		app.JobID,
		app.CandidateID,
		app.CoverLetter,
		app.Status,
		app.AppliedAt,
		app.UpdatedAt,
	)
	return err
}

const applicationColumns = `
	a.id, a.job_id, a.candidate_id, a.cover_letter, a.status, a.applied_at, a.updated_at,
	j.title AS job_title,
	u.email AS candidate_name`

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	err := row.Scan(
		&app.ID, &app.JobID, &app.CandidateID, &app.CoverLetter,
		&app.Status, &app.AppliedAt, &app.UpdatedAt,
		&app.JobTitle, &app.CandidateName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// GetByID retrieves an application by ID with joined job and candidate data
func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications a
		LEFT JOIN jobs j ON a.job_id = j.id
		LEFT JOIN users u ON a.candidate_id = u.id
		WHERE a.id = $1`

	return scanApplication(r.db.QueryRow(ctx, query, id))
}

// GetByJobAndCandidate retrieves the application a candidate holds against a job
func (r *applicationRepo) GetByJobAndCandidate(ctx context.Context, jobID, candidateID string) (*domain.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications a
		LEFT JOIN jobs j ON a.job_id = j.id
		LEFT JOIN users u ON a.candidate_id = u.id
		WHERE a.job_id = $1 AND a.candidate_id = $2`

	return scanApplication(r.db.QueryRow(ctx, query, jobID, candidateID))
}

// GetByJobID retrieves all applications for a job, newest first
func (r *applicationRepo) GetByJobID(ctx context.Context, jobID string) ([]domain.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications a
		LEFT JOIN jobs j ON a.job_id = j.id
		LEFT JOIN users u ON a.candidate_id = u.id
		WHERE a.job_id = $1
		ORDER BY a.applied_at DESC`

	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectApplications(rows)
}

// GetByCandidateID retrieves all applications for a candidate, optionally
// filtered by status, newest first
func (r *applicationRepo) GetByCandidateID(ctx context.Context, candidateID, status string) ([]domain.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications a
		LEFT JOIN jobs j ON a.job_id = j.id
		LEFT JOIN users u ON a.candidate_id = u.id
		WHERE a.candidate_id = $1 AND ($2 = '' OR a.status = $2)
		ORDER BY a.applied_at DESC`

	rows, err := r.db.Query(ctx, query, candidateID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectApplications(rows)
}

func collectApplications(rows pgx.Rows) ([]domain.Application, error) {
	var applications []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, *app)
	}
	return applications, rows.Err()
}

// CheckExists checks if an application already exists for the job/candidate combination
func (r *applicationRepo) CheckExists(ctx context.Context, jobID, candidateID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND candidate_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, jobID, candidateID).Scan(&exists)
	return exists, err
}

// TransitionStatus applies the guarded status write and the audit row in one
// transaction. The UPDATE only matches while the row still holds FromStatus;
// a concurrent writer that moved the row first surfaces as ErrStatusConflict.
func (r *applicationRepo) TransitionStatus(ctx context.Context, t domain.StatusTransition) error {
	ctx, cancel := context.WithTimeout(ctx, r.txTimeout)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := applyTransition(ctx, tx, t); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// applyTransition runs the compare-and-swap status update plus the history
// insert inside the caller's transaction. Shared with the interview and offer
// repositories so their multi-table writes carry the same guard.
func applyTransition(ctx context.Context, tx pgx.Tx, t domain.StatusTransition) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE applications SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3`,
		t.ApplicationID, t.ToStatus, t.FromStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Distinguish a missing row from a lost race
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM applications WHERE id = $1)`,
			t.ApplicationID,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrStatusConflict
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO application_status_history (id, application_id, previous_status, new_status, changed_by, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		uuid.New().String(), t.ApplicationID, t.FromStatus, t.ToStatus, t.ChangedBy, t.Comment,
	)
	if err != nil {
		return fmt.Errorf("failed to insert status history: %w", err)
	}
	return nil
}

// GetHistory returns the append-only audit trail for an application, oldest first
func (r *applicationRepo) GetHistory(ctx context.Context, applicationID string) ([]domain.ApplicationStatusHistory, error) {
	query := `
		SELECT id, application_id, previous_status, new_status, changed_by, comment, created_at
		FROM application_status_history
		WHERE application_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []domain.ApplicationStatusHistory
	for rows.Next() {
		var h domain.ApplicationStatusHistory
		if err := rows.Scan(
			&h.ID, &h.ApplicationID, &h.PreviousStatus, &h.NewStatus,
			&h.ChangedBy, &h.Comment, &h.CreatedAt,
		); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
