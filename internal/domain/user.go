package domain

import (
	"context"
	"time"
)

// User roles
const (
	RoleCandidate = "candidate"
	RoleEmployer  = "employer"
)

// User is the authenticated identity behind every actor. Authentication itself
// is handled upstream; this service only reads the row to resolve the role.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// AuthUsecase resolves the authenticated user for the request pipeline.
type AuthUsecase interface {
	GetCurrentUser(ctx context.Context, userID string) (*User, error)
}

// AuthorizationResolver answers "does actor X control job J" by walking the
// User → EmployerProfile → Job ownership chain, and "is candidate Y the subject
// of application A". Results are never cached across calls: ownership can
// change between requests.
type AuthorizationResolver interface {
	// ResolveEmployerOwnership returns the caller's employer profile when the
	// job belongs to it; NotFound when profile or job is missing, Forbidden on
	// ownership mismatch.
	ResolveEmployerOwnership(ctx context.Context, userID, jobID string) (*EmployerProfile, error)

	// ResolveCandidateOwnership returns the application when userID is its
	// candidate; Forbidden otherwise.
	ResolveCandidateOwnership(ctx context.Context, userID, applicationID string) (*Application, error)

	// ResolveEmployerProfile maps a user id to its employer profile. Returns
	// ErrNotFound unwrapped so callers can treat a missing profile as an
	// empty result set rather than an HTTP error.
	ResolveEmployerProfile(ctx context.Context, userID string) (*EmployerProfile, error)
}
