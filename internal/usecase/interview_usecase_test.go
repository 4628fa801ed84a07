package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newValidator() *validator.Validate {
	v := validator.New()
	validation.RegisterValidators(v)
	return v
}

func validScheduleInput() domain.ScheduleInterviewInput {
	return domain.ScheduleInterviewInput{
		CandidateID:     "6f1e1ed0-08ba-4b72-a3a1-6d2e0f6f2a11",
		JobID:           "7a2f2fe1-19cb-4c83-b4b2-7e3f1a7a3b22",
		ScheduledAt:     time.Now().Add(48 * time.Hour),
		DurationMinutes: 60,
		MeetingType:     domain.MeetingTypeOnline,
	}
}

type interviewFixture struct {
	interviewRepo *MockInterviewRepo
	appRepo       *MockApplicationRepo
	jobRepo       *MockJobRepo
	empRepo       *MockEmployerProfileRepo
	pub           *MockPublisher
	uc            domain.InterviewUsecase
}

func newInterviewFixture() *interviewFixture {
	f := &interviewFixture{
		interviewRepo: new(MockInterviewRepo),
		appRepo:       new(MockApplicationRepo),
		jobRepo:       new(MockJobRepo),
		empRepo:       new(MockEmployerProfileRepo),
		pub:           new(MockPublisher),
	}
	authz := usecase.NewAuthResolver(f.empRepo, f.jobRepo, f.appRepo)
	f.uc = usecase.NewInterviewUsecase(f.interviewRepo, f.appRepo, authz, f.pub, newValidator())
	return f
}

func TestInterviewSchedule(t *testing.T) {
	ctx := context.Background()

	t.Run("Should schedule and carry the application transition atomically", func(t *testing.T) {
		f := newInterviewFixture()
		in := validScheduleInput()

		f.appRepo.On("GetByJobAndCandidate", ctx, in.JobID, in.CandidateID).Return(&domain.Application{
			ID: "app1", JobID: in.JobID, CandidateID: in.CandidateID, Status: domain.ApplicationStatusShortlisted,
		}, nil)
		f.empRepo.On("GetByUserID", ctx, "user_emp").Return(&domain.EmployerProfile{ID: "emp1", UserID: "user_emp"}, nil)
		f.jobRepo.On("GetByID", ctx, in.JobID).Return(&domain.Job{ID: in.JobID, EmployerProfileID: "emp1", Status: domain.JobStatusOpen}, nil)

		f.interviewRepo.On("CreateScheduled", ctx,
			mock.AnythingOfType("*domain.Interview"),
			mock.MatchedBy(func(ps []domain.InterviewParticipant) bool {
				return len(ps) == 2 &&
					ps[0].Role == domain.ParticipantRoleEmployer && ps[0].UserID == "user_emp" &&
					ps[1].Role == domain.ParticipantRoleCandidate && ps[1].UserID == in.CandidateID
			}),
			mock.MatchedBy(func(tr domain.StatusTransition) bool {
				return tr.ApplicationID == "app1" &&
					tr.FromStatus == domain.ApplicationStatusShortlisted &&
					tr.ToStatus == domain.ApplicationStatusInterviewScheduled
			}),
		).Return(nil)
		f.pub.On("Emit", domain.EventInterviewScheduled, mock.Anything).Return()

		iv, err := f.uc.Schedule(ctx, "user_emp", in)
		assert.NoError(t, err)
		assert.Equal(t, domain.InterviewStatusScheduled, iv.Status)
		assert.Equal(t, "emp1", iv.EmployerID)
		f.pub.AssertCalled(t, "Emit", domain.EventInterviewScheduled, mock.Anything)
	})

	t.Run("Should reject a past scheduled time before touching the store", func(t *testing.T) {
		f := newInterviewFixture()
		in := validScheduleInput()
		in.ScheduledAt = time.Now().Add(-time.Hour)

		_, err := f.uc.Schedule(ctx, "user_emp", in)
		assertCode(t, err, http.StatusBadRequest)
		f.appRepo.AssertNotCalled(t, "GetByJobAndCandidate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should return 404 when no application links candidate and job", func(t *testing.T) {
		f := newInterviewFixture()
		in := validScheduleInput()

		f.appRepo.On("GetByJobAndCandidate", ctx, in.JobID, in.CandidateID).Return(nil, domain.ErrNotFound)

		_, err := f.uc.Schedule(ctx, "user_emp", in)
		assertCode(t, err, http.StatusNotFound)
	})

	t.Run("Should forbid scheduling on someone else's job", func(t *testing.T) {
		f := newInterviewFixture()
		in := validScheduleInput()

		f.appRepo.On("GetByJobAndCandidate", ctx, in.JobID, in.CandidateID).Return(&domain.Application{
			ID: "app1", JobID: in.JobID, CandidateID: in.CandidateID, Status: domain.ApplicationStatusShortlisted,
		}, nil)
		f.empRepo.On("GetByUserID", ctx, "user_other").Return(&domain.EmployerProfile{ID: "emp2"}, nil)
		f.jobRepo.On("GetByID", ctx, in.JobID).Return(&domain.Job{ID: in.JobID, EmployerProfileID: "emp1"}, nil)

		_, err := f.uc.Schedule(ctx, "user_other", in)
		assertCode(t, err, http.StatusForbidden)
		f.interviewRepo.AssertNotCalled(t, "CreateScheduled", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should refuse applications that are not shortlisted", func(t *testing.T) {
		f := newInterviewFixture()
		in := validScheduleInput()

		f.appRepo.On("GetByJobAndCandidate", ctx, in.JobID, in.CandidateID).Return(&domain.Application{
			ID: "app1", JobID: in.JobID, CandidateID: in.CandidateID, Status: domain.ApplicationStatusApplied,
		}, nil)
		f.empRepo.On("GetByUserID", ctx, "user_emp").Return(&domain.EmployerProfile{ID: "emp1"}, nil)
		f.jobRepo.On("GetByID", ctx, in.JobID).Return(&domain.Job{ID: in.JobID, EmployerProfileID: "emp1"}, nil)

		_, err := f.uc.Schedule(ctx, "user_emp", in)
		assertCode(t, err, http.StatusConflict)
	})

	t.Run("Should surface a lost race from the transactional guard", func(t *testing.T) {
		f := newInterviewFixture()
		in := validScheduleInput()

		f.appRepo.On("GetByJobAndCandidate", ctx, in.JobID, in.CandidateID).Return(&domain.Application{
			ID: "app1", JobID: in.JobID, CandidateID: in.CandidateID, Status: domain.ApplicationStatusShortlisted,
		}, nil)
		f.empRepo.On("GetByUserID", ctx, "user_emp").Return(&domain.EmployerProfile{ID: "emp1"}, nil)
		f.jobRepo.On("GetByID", ctx, in.JobID).Return(&domain.Job{ID: in.JobID, EmployerProfileID: "emp1"}, nil)
		f.interviewRepo.On("CreateScheduled", ctx, mock.Anything, mock.Anything, mock.Anything).Return(domain.ErrStatusConflict)

		_, err := f.uc.Schedule(ctx, "user_emp", in)
		assertCode(t, err, http.StatusConflict)
		f.pub.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
	})
}

func TestInterviewQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return empty list for an employer without a profile", func(t *testing.T) {
		f := newInterviewFixture()
		f.empRepo.On("GetByUserID", ctx, "user_new").Return(nil, domain.ErrNotFound)

		interviews, err := f.uc.GetInterviews(ctx, "user_new", domain.RoleEmployer)
		assert.NoError(t, err)
		assert.Empty(t, interviews)
	})

	t.Run("Should list by employer profile id, not user id", func(t *testing.T) {
		f := newInterviewFixture()
		f.empRepo.On("GetByUserID", ctx, "user_emp").Return(&domain.EmployerProfile{ID: "emp1"}, nil)
		f.interviewRepo.On("GetByEmployerID", ctx, "emp1").Return([]domain.Interview{{ID: "iv1"}}, nil)

		interviews, err := f.uc.GetInterviews(ctx, "user_emp", domain.RoleEmployer)
		assert.NoError(t, err)
		assert.Len(t, interviews, 1)
	})

	t.Run("Should reject an unknown role", func(t *testing.T) {
		f := newInterviewFixture()
		_, err := f.uc.GetInterviews(ctx, "u1", "recruiter")
		assertCode(t, err, http.StatusBadRequest)
	})

	t.Run("Should let the candidate read their own interview", func(t *testing.T) {
		f := newInterviewFixture()
		f.interviewRepo.On("GetByID", ctx, "iv1").Return(&domain.Interview{ID: "iv1", JobID: "job1", CandidateID: "cand1"}, nil)

		iv, err := f.uc.GetByID(ctx, "cand1", "iv1")
		assert.NoError(t, err)
		assert.Equal(t, "iv1", iv.ID)
	})

	t.Run("Should hide interviews from unrelated users", func(t *testing.T) {
		f := newInterviewFixture()
		f.interviewRepo.On("GetByID", ctx, "iv1").Return(&domain.Interview{ID: "iv1", JobID: "job1", CandidateID: "cand1"}, nil)
		f.empRepo.On("GetByUserID", ctx, "stranger").Return(nil, domain.ErrNotFound)

		_, err := f.uc.GetByID(ctx, "stranger", "iv1")
		assertCode(t, err, http.StatusForbidden)
	})
}

func TestInterviewLifecycle(t *testing.T) {
	ctx := context.Background()

	owned := func(f *interviewFixture, status string) {
		f.interviewRepo.On("GetByID", ctx, "iv1").Return(&domain.Interview{
			ID: "iv1", ApplicationID: "app1", JobID: "job1", EmployerID: "emp1", CandidateID: "cand1",
			ScheduledAt: time.Now().Add(24 * time.Hour), Status: status,
		}, nil)
		f.empRepo.On("GetByUserID", ctx, "user_emp").Return(&domain.EmployerProfile{ID: "emp1"}, nil)
		f.jobRepo.On("GetByID", ctx, "job1").Return(&domain.Job{ID: "job1", EmployerProfileID: "emp1"}, nil)
	}

	t.Run("Should complete without touching the application status", func(t *testing.T) {
		f := newInterviewFixture()
		owned(f, domain.InterviewStatusScheduled)
		f.interviewRepo.On("UpdateStatus", ctx, "iv1", domain.InterviewStatusCompleted, mock.Anything).Return(nil)
		f.pub.On("Emit", domain.EventInterviewCompleted, mock.Anything).Return()

		err := f.uc.Complete(ctx, "user_emp", "iv1", "solid systems answers")
		assert.NoError(t, err)
		f.appRepo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything)
	})

	t.Run("Should not complete a canceled interview", func(t *testing.T) {
		f := newInterviewFixture()
		owned(f, domain.InterviewStatusCanceled)

		err := f.uc.Complete(ctx, "user_emp", "iv1", "")
		assertCode(t, err, http.StatusConflict)
	})

	t.Run("Should not cancel twice", func(t *testing.T) {
		f := newInterviewFixture()
		owned(f, domain.InterviewStatusCanceled)

		err := f.uc.Cancel(ctx, "user_emp", "iv1", "candidate unavailable")
		assertCode(t, err, http.StatusConflict)
	})

	t.Run("Should reschedule an upcoming interview", func(t *testing.T) {
		f := newInterviewFixture()
		owned(f, domain.InterviewStatusScheduled)
		newSlot := time.Now().Add(72 * time.Hour)
		f.interviewRepo.On("Reschedule", ctx, "iv1", newSlot, 45).Return(nil)
		f.pub.On("Emit", domain.EventInterviewRescheduled, mock.Anything).Return()

		_, err := f.uc.Reschedule(ctx, "user_emp", "iv1", newSlot, 45)
		assert.NoError(t, err)
	})

	t.Run("Should refuse rescheduling into the past", func(t *testing.T) {
		f := newInterviewFixture()
		owned(f, domain.InterviewStatusScheduled)

		_, err := f.uc.Reschedule(ctx, "user_emp", "iv1", time.Now().Add(-time.Hour), 45)
		assertCode(t, err, http.StatusBadRequest)
	})

	t.Run("Should only accept feedback from the interview's candidate", func(t *testing.T) {
		f := newInterviewFixture()
		f.interviewRepo.On("GetByID", ctx, "iv1").Return(&domain.Interview{ID: "iv1", CandidateID: "cand1"}, nil)

		err := f.uc.SubmitFeedback(ctx, "cand2", "iv1", "great panel")
		assertCode(t, err, http.StatusForbidden)

		f.interviewRepo.On("SetCandidateFeedback", ctx, "iv1", "great panel").Return(nil)
		err = f.uc.SubmitFeedback(ctx, "cand1", "iv1", "great panel")
		assert.NoError(t, err)
	})
}
