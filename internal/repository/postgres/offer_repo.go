package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-jobboard-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

type offerRepo struct {
	db        Querier
	txTimeout time.Duration
}

// NewOfferRepository creates a new offer repository
func NewOfferRepository(db Querier, txTimeout time.Duration) domain.OfferRepository {
	return &offerRepo{db: db, txTimeout: txTimeout}
}

// CreatePending inserts the offer and the guarded application transition in
// one transaction. The pending re-check runs inside the transaction; as a
// second line of defense, a partial unique index on (application_id) WHERE
// status = 'pending' turns a racing insert into a unique violation.
func (r *offerRepo) CreatePending(ctx context.Context, offer *domain.Offer, t domain.StatusTransition) error {
	ctx, cancel := context.WithTimeout(ctx, r.txTimeout)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var pending bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM offers WHERE application_id = $1 AND status = $2)`,
		offer.ApplicationID, domain.OfferStatusPending,
	).Scan(&pending)
	if err != nil {
		return err
	}
	if pending {
		return domain.ErrPendingOfferExists
	}

	now := time.Now()
	offer.ID = uuid.New().String()
	offer.Status = domain.OfferStatusPending
	offer.CreatedAt = now
	offer.UpdatedAt = now

	_, err = tx.Exec(ctx, `
		INSERT INTO offers (
			id, application_id, salary, currency, joining_date, expires_at,
			additional_benefits, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		offer.ID, offer.ApplicationID, offer.Salary, offer.Currency,
		offer.JoiningDate, offer.ExpiresAt, pq.Array(offer.AdditionalBenefits),
		offer.Status, offer.CreatedAt, offer.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrPendingOfferExists
		}
		return fmt.Errorf("failed to insert offer: %w", err)
	}

	if err := applyTransition(ctx, tx, t); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const offerColumns = `
	id, application_id, salary, currency, joining_date, expires_at,
	additional_benefits, status, reason, responded_at, created_at, updated_at`

func scanOffer(row pgx.Row) (*domain.Offer, error) {
	var o domain.Offer
	err := row.Scan(
		&o.ID, &o.ApplicationID, &o.Salary, &o.Currency, &o.JoiningDate, &o.ExpiresAt,
		pq.Array(&o.AdditionalBenefits), &o.Status, &o.Reason, &o.RespondedAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// GetByID retrieves an offer by ID
func (r *offerRepo) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`
	return scanOffer(r.db.QueryRow(ctx, query, id))
}

// GetByApplicationID retrieves all offers for an application, newest first
func (r *offerRepo) GetByApplicationID(ctx context.Context, applicationID string) ([]domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE application_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []domain.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, *o)
	}
	return offers, rows.Err()
}

// HasPending checks whether the application already holds a pending offer
func (r *offerRepo) HasPending(ctx context.Context, applicationID string) (bool, error) {
	var pending bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM offers WHERE application_id = $1 AND status = $2)`,
		applicationID, domain.OfferStatusPending,
	).Scan(&pending)
	return pending, err
}

// Accept flips a pending offer to accepted and advances the application to
// hired in the same transaction. The offer update is itself a compare-and-swap
// on the pending status so a concurrent resolution loses cleanly.
func (r *offerRepo) Accept(ctx context.Context, id string, t domain.StatusTransition) error {
	ctx, cancel := context.WithTimeout(ctx, r.txTimeout)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx, `
		UPDATE offers SET status = $2, responded_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $3`,
		id, domain.OfferStatusAccepted, domain.OfferStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to accept offer: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM offers WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrStatusConflict
	}

	if err := applyTransition(ctx, tx, t); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Resolve flips a pending offer to declined, withdrawn or expired. The
// application row is deliberately untouched: the employer may extend a new
// offer or reject from the current state.
func (r *offerRepo) Resolve(ctx context.Context, id, status string, reason *string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE offers SET status = $2, reason = $3, responded_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $4`,
		id, status, reason, domain.OfferStatusPending,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM offers WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrStatusConflict
	}
	return nil
}
