package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorHandler converts errors attached to the gin context into the standard
// response envelope. Internal details are logged server-side, never sent to
// the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				reqID, _ := c.Get("RequestID")
				slog.Error("request failed",
					"path", c.FullPath(),
					"method", c.Request.Method,
					"request_id", reqID,
					"error", appErr.Err,
				)
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		reqID, _ := c.Get("RequestID")
		slog.Error("unhandled error",
			"path", c.FullPath(),
			"method", c.Request.Method,
			"request_id", reqID,
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
