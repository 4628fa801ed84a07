package usecase_test

import (
	"context"
	"time"

	"go-jobboard-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// Mock repositories and collaborators shared across the usecase tests.

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) GetByJobAndCandidate(ctx context.Context, jobID, candidateID string) (*domain.Application, error) {
	args := m.Called(ctx, jobID, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) GetByJobID(ctx context.Context, jobID string) ([]domain.Application, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) GetByCandidateID(ctx context.Context, candidateID, status string) ([]domain.Application, error) {
	args := m.Called(ctx, candidateID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) CheckExists(ctx context.Context, jobID, candidateID string) (bool, error) {
	args := m.Called(ctx, jobID, candidateID)
	return args.Bool(0), args.Error(1)
}

func (m *MockApplicationRepo) TransitionStatus(ctx context.Context, t domain.StatusTransition) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockApplicationRepo) GetHistory(ctx context.Context, applicationID string) ([]domain.ApplicationStatusHistory, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApplicationStatusHistory), args.Error(1)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

type MockEmployerProfileRepo struct {
	mock.Mock
}

func (m *MockEmployerProfileRepo) GetByID(ctx context.Context, id string) (*domain.EmployerProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployerProfile), args.Error(1)
}

func (m *MockEmployerProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.EmployerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployerProfile), args.Error(1)
}

type MockInterviewRepo struct {
	mock.Mock
}

func (m *MockInterviewRepo) CreateScheduled(ctx context.Context, iv *domain.Interview, participants []domain.InterviewParticipant, t domain.StatusTransition) error {
	return m.Called(ctx, iv, participants, t).Error(0)
}

func (m *MockInterviewRepo) GetByID(ctx context.Context, id string) (*domain.Interview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interview), args.Error(1)
}

func (m *MockInterviewRepo) GetByEmployerID(ctx context.Context, employerProfileID string) ([]domain.Interview, error) {
	args := m.Called(ctx, employerProfileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Interview), args.Error(1)
}

func (m *MockInterviewRepo) GetByCandidateID(ctx context.Context, candidateID string) ([]domain.Interview, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Interview), args.Error(1)
}

func (m *MockInterviewRepo) GetParticipants(ctx context.Context, interviewID string) ([]domain.InterviewParticipant, error) {
	args := m.Called(ctx, interviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InterviewParticipant), args.Error(1)
}

func (m *MockInterviewRepo) Reschedule(ctx context.Context, id string, scheduledAt time.Time, durationMinutes int) error {
	return m.Called(ctx, id, scheduledAt, durationMinutes).Error(0)
}

func (m *MockInterviewRepo) UpdateStatus(ctx context.Context, id, status string, interviewerNotes *string) error {
	return m.Called(ctx, id, status, interviewerNotes).Error(0)
}

func (m *MockInterviewRepo) SetCandidateFeedback(ctx context.Context, id, feedback string) error {
	return m.Called(ctx, id, feedback).Error(0)
}

type MockOfferRepo struct {
	mock.Mock
}

func (m *MockOfferRepo) CreatePending(ctx context.Context, offer *domain.Offer, t domain.StatusTransition) error {
	return m.Called(ctx, offer, t).Error(0)
}

func (m *MockOfferRepo) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}

func (m *MockOfferRepo) GetByApplicationID(ctx context.Context, applicationID string) ([]domain.Offer, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}

func (m *MockOfferRepo) HasPending(ctx context.Context, applicationID string) (bool, error) {
	args := m.Called(ctx, applicationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOfferRepo) Accept(ctx context.Context, id string, t domain.StatusTransition) error {
	return m.Called(ctx, id, t).Error(0)
}

func (m *MockOfferRepo) Resolve(ctx context.Context, id, status string, reason *string) error {
	return m.Called(ctx, id, status, reason).Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockPublisher records emitted events so tests can assert what fired.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Emit(event string, payload any) {
	m.Called(event, payload)
}
