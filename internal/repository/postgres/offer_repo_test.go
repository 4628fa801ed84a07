package postgres_test

import (
	"context"
	"testing"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offerWriteFixture() (*domain.Offer, domain.StatusTransition) {
	comment := "Offer extended"
	offer := &domain.Offer{
		ApplicationID:      "app1",
		Salary:             95000,
		Currency:           "USD",
		AdditionalBenefits: []string{"remote budget"},
	}
	tr := domain.StatusTransition{
		ApplicationID: "app1",
		FromStatus:    domain.ApplicationStatusInterviewScheduled,
		ToStatus:      domain.ApplicationStatusOffered,
		ChangedBy:     "user_emp",
		Comment:       &comment,
	}
	return offer, tr
}

func TestOfferCreatePending(t *testing.T) {
	ctx := context.Background()

	t.Run("Should refuse a duplicate pending offer inside the transaction", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		offer, tr := offerWriteFixture()

		mockDB.ExpectBegin()
		mockDB.ExpectQuery("SELECT EXISTS.+FROM offers").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mockDB.ExpectRollback()

		repo := postgres.NewOfferRepository(mockDB, 5*time.Second)
		err = repo.CreatePending(ctx, offer, tr)
		assert.ErrorIs(t, err, domain.ErrPendingOfferExists)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Should map a racing insert's unique violation", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		offer, tr := offerWriteFixture()

		mockDB.ExpectBegin()
		mockDB.ExpectQuery("SELECT EXISTS.+FROM offers").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
		mockDB.ExpectExec("INSERT INTO offers").
			WillReturnError(&pgconn.PgError{Code: "23505"})
		mockDB.ExpectRollback()

		repo := postgres.NewOfferRepository(mockDB, 5*time.Second)
		err = repo.CreatePending(ctx, offer, tr)
		assert.ErrorIs(t, err, domain.ErrPendingOfferExists)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Should roll back the offer when the status swap loses the race", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		offer, tr := offerWriteFixture()

		mockDB.ExpectBegin()
		mockDB.ExpectQuery("SELECT EXISTS.+FROM offers").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
		mockDB.ExpectExec("INSERT INTO offers").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockDB.ExpectExec("UPDATE applications").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mockDB.ExpectQuery("SELECT EXISTS.+FROM applications").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mockDB.ExpectRollback()

		repo := postgres.NewOfferRepository(mockDB, 5*time.Second)
		err = repo.CreatePending(ctx, offer, tr)
		assert.ErrorIs(t, err, domain.ErrStatusConflict)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Should commit the offer and the status swap together", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		offer, tr := offerWriteFixture()

		mockDB.ExpectBegin()
		mockDB.ExpectQuery("SELECT EXISTS.+FROM offers").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
		mockDB.ExpectExec("INSERT INTO offers").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockDB.ExpectExec("UPDATE applications").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockDB.ExpectExec("INSERT INTO application_status_history").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockDB.ExpectCommit()

		repo := postgres.NewOfferRepository(mockDB, 5*time.Second)
		err = repo.CreatePending(ctx, offer, tr)
		assert.NoError(t, err)
		assert.NotEmpty(t, offer.ID)
		assert.Equal(t, domain.OfferStatusPending, offer.Status)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestOfferAccept(t *testing.T) {
	ctx := context.Background()

	t.Run("Should not touch the application when the offer was already resolved", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		_, tr := offerWriteFixture()

		mockDB.ExpectBegin()
		mockDB.ExpectExec("UPDATE offers").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mockDB.ExpectQuery("SELECT EXISTS.+FROM offers").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mockDB.ExpectRollback()

		repo := postgres.NewOfferRepository(mockDB, 5*time.Second)
		err = repo.Accept(ctx, "offer1", tr)
		assert.ErrorIs(t, err, domain.ErrStatusConflict)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}
