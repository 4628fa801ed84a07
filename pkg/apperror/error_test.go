package apperror_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-jobboard-backend/pkg/apperror"
)

func TestConstructors(t *testing.T) {
	t.Run("Should map each constructor to its HTTP code", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, apperror.BadRequest("x").Code)
		assert.Equal(t, http.StatusUnauthorized, apperror.Unauthorized("x").Code)
		assert.Equal(t, http.StatusForbidden, apperror.Forbidden("x").Code)
		assert.Equal(t, http.StatusNotFound, apperror.NotFound("x").Code)
		assert.Equal(t, http.StatusConflict, apperror.Conflict("x").Code)
		assert.Equal(t, http.StatusServiceUnavailable, apperror.Transient(nil).Code)
		assert.Equal(t, http.StatusInternalServerError, apperror.Internal(nil).Code)
	})

	t.Run("Should use the message as the error string", func(t *testing.T) {
		err := apperror.Conflict("Offer already resolved")
		assert.EqualError(t, err, "Offer already resolved")
	})
}

func TestUnwrap(t *testing.T) {
	t.Run("Should expose the wrapped cause to errors.Is", func(t *testing.T) {
		err := apperror.Transient(context.DeadlineExceeded)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Should survive further wrapping with errors.As", func(t *testing.T) {
		inner := apperror.NotFound("Application not found")
		wrapped := fmt.Errorf("loading application: %w", inner)

		var appErr *apperror.AppError
		assert.True(t, errors.As(wrapped, &appErr))
		assert.Equal(t, http.StatusNotFound, appErr.Code)
	})

	t.Run("Should not mask the generic message with the cause", func(t *testing.T) {
		err := apperror.Internal(errors.New("pq: connection refused"))
		assert.EqualError(t, err, "Internal Server Error")
	})
}
