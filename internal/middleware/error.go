package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zhanma666/evil-cook-project/internal/types"
)

const genericInternalMessage = "internal server error"

// ErrorHandler renders the last error a handler pushed with c.Error as the
// standard failure envelope. Internal failures are logged with their cause;
// in production their message is replaced by a generic one.
func ErrorHandler(logger *slog.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		status := http.StatusInternalServerError
		message := err.Error()

		var appErr *types.AppError
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &appErr):
			status = appErr.StatusCode()
			message = appErr.Message
		case errors.As(err, &maxBytesErr):
			status = http.StatusRequestEntityTooLarge
			message = "request body too large"
		}

		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			if production {
				message = genericInternalMessage
			}
		}

		if c.Writer.Written() {
			return
		}
		c.JSON(status, types.Failure(message))
	}
}
