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

type offerUsecase struct {
	offerRepo domain.OfferRepository
	appRepo   domain.ApplicationRepository
	authz     domain.AuthorizationResolver
	publisher domain.EventPublisher
	validate  *validator.Validate
}

// NewOfferUsecase creates the offer manager
func NewOfferUsecase(
	offerRepo domain.OfferRepository,
	appRepo domain.ApplicationRepository,
	authz domain.AuthorizationResolver,
	publisher domain.EventPublisher,
	validate *validator.Validate,
) domain.OfferUsecase {
	return &offerUsecase{
		offerRepo: offerRepo,
		appRepo:   appRepo,
		authz:     authz,
		publisher: publisher,
		validate:  validate,
	}
}

// Create extends an offer on an application that has reached the interview
// stage, moving it to offered in the same transaction. An application left at
// offered by a declined or withdrawn offer may receive a fresh one, as long as
// none is still pending.
func (uc *offerUsecase) Create(ctx context.Context, employerUserID string, in domain.CreateOfferInput) (*domain.Offer, error) {
	if err := uc.validate.Struct(in); err != nil {
		msgs := validation.FormatValidationErrors(err)
		return nil, apperror.BadRequest(fmt.Sprintf("Invalid offer request: %v", msgs))
	}

	app, err := uc.appRepo.GetByID(ctx, in.ApplicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}

	if _, err := uc.authz.ResolveEmployerOwnership(ctx, employerUserID, app.JobID); err != nil {
		return nil, err
	}

	if app.Status != domain.ApplicationStatusInterviewScheduled && app.Status != domain.ApplicationStatusOffered {
		return nil, apperror.Conflict("Offers can only be extended after an interview has been scheduled")
	}

	// Pre-check for readability of the error; the transactional EXISTS guard
	// and the partial unique index still hold under races.
	pending, err := uc.offerRepo.HasPending(ctx, in.ApplicationID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if pending {
		return nil, apperror.Conflict("Application already has a pending offer")
	}

	offer := &domain.Offer{
		ApplicationID:      in.ApplicationID,
		Salary:             in.Salary,
		Currency:           in.Currency,
		JoiningDate:        in.JoiningDate,
		ExpiresAt:          in.ExpiresAt,
		AdditionalBenefits: in.AdditionalBenefits,
		Status:             domain.OfferStatusPending,
	}

	comment := "Offer extended"
	// The CAS still runs on a re-offer (offered to offered) so a concurrent
	// hire or withdrawal loses cleanly, and the history keeps a row per offer.
	err = uc.offerRepo.CreatePending(ctx, offer, domain.StatusTransition{
		ApplicationID: app.ID,
		FromStatus:    app.Status,
		ToStatus:      domain.ApplicationStatusOffered,
		ChangedBy:     employerUserID,
		Comment:       &comment,
	})
	if err != nil {
		if errors.Is(err, domain.ErrPendingOfferExists) {
			return nil, apperror.Conflict("Application already has a pending offer")
		}
		return nil, mapTransitionError(err)
	}

	uc.publisher.Emit(domain.EventOfferExtended, domain.OfferEventPayload{
		OfferID:       offer.ID,
		ApplicationID: app.ID,
		CandidateID:   app.CandidateID,
		Status:        domain.OfferStatusPending,
	})

	return offer, nil
}

// Accept lets the candidate take a pending offer, moving the application to
// hired in the same transaction. Accepting an already accepted offer is a
// Conflict, not a silent success: the caller must observe the first outcome.
func (uc *offerUsecase) Accept(ctx context.Context, candidateID, offerID string) (*domain.Offer, error) {
	offer, app, err := uc.candidateOffer(ctx, candidateID, offerID)
	if err != nil {
		return nil, err
	}

	if offer.Status != domain.OfferStatusPending {
		return nil, apperror.Conflict("Offer is already " + offer.Status)
	}

	if offer.IsExpired(time.Now()) {
		// Lazily flip the row; a lost race here just means someone else
		// already resolved it.
		if rerr := uc.offerRepo.Resolve(ctx, offerID, domain.OfferStatusExpired, nil); rerr != nil && !errors.Is(rerr, domain.ErrNotFound) && !errors.Is(rerr, domain.ErrStatusConflict) {
			return nil, apperror.Internal(rerr)
		}
		return nil, apperror.Conflict("Offer has expired")
	}

	comment := "Offer accepted"
	err = uc.offerRepo.Accept(ctx, offerID, domain.StatusTransition{
		ApplicationID: app.ID,
		FromStatus:    domain.ApplicationStatusOffered,
		ToStatus:      domain.ApplicationStatusHired,
		ChangedBy:     candidateID,
		Comment:       &comment,
	})
	if err != nil {
		return nil, mapTransitionError(err)
	}

	uc.publisher.Emit(domain.EventOfferAccepted, domain.OfferEventPayload{
		OfferID:       offer.ID,
		ApplicationID: app.ID,
		CandidateID:   candidateID,
		Status:        domain.OfferStatusAccepted,
	})

	return uc.offerRepo.GetByID(ctx, offerID)
}

// Decline lets the candidate turn down a pending offer. The application stays
// at offered; the employer decides the follow-up.
func (uc *offerUsecase) Decline(ctx context.Context, candidateID, offerID, reason string) (*domain.Offer, error) {
	offer, app, err := uc.candidateOffer(ctx, candidateID, offerID)
	if err != nil {
		return nil, err
	}

	if offer.Status != domain.OfferStatusPending {
		return nil, apperror.Conflict("Offer is already " + offer.Status)
	}

	reasonPtr := optionalString(reason)
	if err := uc.offerRepo.Resolve(ctx, offerID, domain.OfferStatusDeclined, reasonPtr); err != nil {
		return nil, mapTransitionError(err)
	}

	uc.publisher.Emit(domain.EventOfferDeclined, domain.OfferEventPayload{
		OfferID:       offer.ID,
		ApplicationID: app.ID,
		CandidateID:   candidateID,
		Status:        domain.OfferStatusDeclined,
		Reason:        reasonPtr,
	})

	return uc.offerRepo.GetByID(ctx, offerID)
}

// Withdraw lets the employer pull back a pending offer
func (uc *offerUsecase) Withdraw(ctx context.Context, employerUserID, offerID, reason string) (*domain.Offer, error) {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Offer not found")
		}
		return nil, apperror.Internal(err)
	}

	app, err := uc.appRepo.GetByID(ctx, offer.ApplicationID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if _, err := uc.authz.ResolveEmployerOwnership(ctx, employerUserID, app.JobID); err != nil {
		return nil, err
	}

	if offer.Status != domain.OfferStatusPending {
		return nil, apperror.Conflict("Offer is already " + offer.Status)
	}

	reasonPtr := optionalString(reason)
	if err := uc.offerRepo.Resolve(ctx, offerID, domain.OfferStatusWithdrawn, reasonPtr); err != nil {
		return nil, mapTransitionError(err)
	}

	uc.publisher.Emit(domain.EventOfferWithdrawn, domain.OfferEventPayload{
		OfferID:       offer.ID,
		ApplicationID: app.ID,
		CandidateID:   app.CandidateID,
		Status:        domain.OfferStatusWithdrawn,
		Reason:        reasonPtr,
	})

	return uc.offerRepo.GetByID(ctx, offerID)
}

// GetByApplication lists an application's offers for either side of the table
func (uc *offerUsecase) GetByApplication(ctx context.Context, userID, role, applicationID string) ([]domain.Offer, error) {
	switch role {
	case domain.RoleCandidate:
		if _, err := uc.authz.ResolveCandidateOwnership(ctx, userID, applicationID); err != nil {
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
		if _, err := uc.authz.ResolveEmployerOwnership(ctx, userID, app.JobID); err != nil {
			return nil, err
		}
	default:
		return nil, apperror.BadRequest("Unknown role: " + role)
	}

	offers, err := uc.offerRepo.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return offers, nil
}

// candidateOffer loads the offer and its application, verifying the caller is
// the application's candidate.
func (uc *offerUsecase) candidateOffer(ctx context.Context, candidateID, offerID string) (*domain.Offer, *domain.Application, error) {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, apperror.NotFound("Offer not found")
		}
		return nil, nil, apperror.Internal(err)
	}

	app, err := uc.authz.ResolveCandidateOwnership(ctx, candidateID, offer.ApplicationID)
	if err != nil {
		return nil, nil, err
	}

	return offer, app, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
