package domain

import (
	"context"
	"errors"
	"time"
)

// ErrPendingOfferExists guards the single-pending-offer invariant at the store
// level (duplicate pending insert raced past the usecase pre-check).
var ErrPendingOfferExists = errors.New("application already has a pending offer")

// Offer status values
const (
	OfferStatusPending   = "pending"
	OfferStatusAccepted  = "accepted"
	OfferStatusDeclined  = "declined"
	OfferStatusWithdrawn = "withdrawn"
	OfferStatusExpired   = "expired"
)

// Offer is a compensation proposal tied to exactly one application.
// Invariant: at most one offer with status pending per application at any time.
type Offer struct {
	ID                 string     `json:"id"`
	ApplicationID      string     `json:"application_id"`
	Salary             float64    `json:"salary"`
	Currency           string     `json:"currency"`
	JoiningDate        *time.Time `json:"joining_date,omitempty"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	AdditionalBenefits []string   `json:"additional_benefits,omitempty"`
	Status             string     `json:"status"`
	Reason             *string    `json:"reason,omitempty"` // decline / withdrawal reason
	RespondedAt        *time.Time `json:"responded_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsExpired reports whether the offer's response window has closed.
func (o *Offer) IsExpired(now time.Time) bool {
	return o.ExpiresAt != nil && o.ExpiresAt.Before(now)
}

// CreateOfferInput carries the validated payload for extending an offer.
type CreateOfferInput struct {
	ApplicationID      string     `json:"application_id" validate:"required,uuid4"`
	Salary             float64    `json:"salary" validate:"required,gt=0"`
	Currency           string     `json:"currency" validate:"required,currency_code"`
	JoiningDate        *time.Time `json:"joining_date,omitempty"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty" validate:"omitempty,future_time"`
	AdditionalBenefits []string   `json:"additional_benefits,omitempty" validate:"omitempty,dive,max=255"`
}

// OfferRepository defines data access for offers.
type OfferRepository interface {
	// CreatePending inserts the offer and applies the guarded application
	// transition to offered in one transaction. Returns ErrPendingOfferExists
	// if another pending offer slipped in concurrently.
	CreatePending(ctx context.Context, offer *Offer, t StatusTransition) error

	GetByID(ctx context.Context, id string) (*Offer, error)
	GetByApplicationID(ctx context.Context, applicationID string) ([]Offer, error)
	HasPending(ctx context.Context, applicationID string) (bool, error)

	// Accept flips a pending offer to accepted and applies the guarded
	// application transition to hired in one transaction.
	Accept(ctx context.Context, id string, t StatusTransition) error

	// Resolve flips a pending offer to declined, withdrawn or expired without
	// touching the application.
	Resolve(ctx context.Context, id, status string, reason *string) error
}

// OfferUsecase drives the offer half of the pipeline.
type OfferUsecase interface {
	Create(ctx context.Context, employerUserID string, in CreateOfferInput) (*Offer, error)
	Accept(ctx context.Context, candidateID, offerID string) (*Offer, error)
	Decline(ctx context.Context, candidateID, offerID, reason string) (*Offer, error)
	Withdraw(ctx context.Context, employerUserID, offerID, reason string) (*Offer, error)
	GetByApplication(ctx context.Context, userID, role, applicationID string) ([]Offer, error)
}
