package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/repository/postgres"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduleFixture() (*domain.Interview, []domain.InterviewParticipant, domain.StatusTransition) {
	comment := "Interview scheduled"
	iv := &domain.Interview{
		ApplicationID:   "app1",
		JobID:           "job1",
		EmployerID:      "emp1",
		CandidateID:     "cand1",
		ScheduledAt:     time.Now().Add(48 * time.Hour),
		DurationMinutes: 45,
		MeetingType:     domain.MeetingTypeOnline,
	}
	participants := []domain.InterviewParticipant{
		{UserID: "user_emp", Role: domain.ParticipantRoleEmployer},
		{UserID: "cand1", Role: domain.ParticipantRoleCandidate},
	}
	tr := domain.StatusTransition{
		ApplicationID: "app1",
		FromStatus:    domain.ApplicationStatusShortlisted,
		ToStatus:      domain.ApplicationStatusInterviewScheduled,
		ChangedBy:     "user_emp",
		Comment:       &comment,
	}
	return iv, participants, tr
}

func TestInterviewCreateScheduled(t *testing.T) {
	ctx := context.Background()

	t.Run("Should commit the interview, participants and status swap together", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		iv, participants, tr := scheduleFixture()

		mockDB.ExpectBegin()
		mockDB.ExpectExec("INSERT INTO interviews").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockDB.ExpectExec("INSERT INTO interview_participants").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockDB.ExpectExec("INSERT INTO interview_participants").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockDB.ExpectExec("UPDATE applications").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockDB.ExpectExec("INSERT INTO application_status_history").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockDB.ExpectCommit()

		repo := postgres.NewInterviewRepository(mockDB, 5*time.Second)
		err = repo.CreateScheduled(ctx, iv, participants, tr)
		assert.NoError(t, err)
		assert.NotEmpty(t, iv.ID)
		assert.Equal(t, iv.ID, participants[0].InterviewID)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Should roll back the interview when a participant insert fails", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		iv, participants, tr := scheduleFixture()

		mockDB.ExpectBegin()
		mockDB.ExpectExec("INSERT INTO interviews").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockDB.ExpectExec("INSERT INTO interview_participants").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockDB.ExpectExec("INSERT INTO interview_participants").WillReturnError(errors.New("connection reset by peer"))
		mockDB.ExpectRollback()

		repo := postgres.NewInterviewRepository(mockDB, 5*time.Second)
		err = repo.CreateScheduled(ctx, iv, participants, tr)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "participant")
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Should roll back everything when the status swap loses the race", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		iv, participants, tr := scheduleFixture()

		mockDB.ExpectBegin()
		mockDB.ExpectExec("INSERT INTO interviews").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockDB.ExpectExec("INSERT INTO interview_participants").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockDB.ExpectExec("INSERT INTO interview_participants").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockDB.ExpectExec("UPDATE applications").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mockDB.ExpectQuery("SELECT EXISTS.+FROM applications").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mockDB.ExpectRollback()

		repo := postgres.NewInterviewRepository(mockDB, 5*time.Second)
		err = repo.CreateScheduled(ctx, iv, participants, tr)
		assert.ErrorIs(t, err, domain.ErrStatusConflict)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}
