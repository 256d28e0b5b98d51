package response

import (
	"errors"
	"log/slog"
	"net/http"

	"gradpolls/internal/services"

	"github.com/gin-gonic/gin"
)

// statusOf maps the service error taxonomy to HTTP statuses. Validation and
// conflict errors carry their own message; everything else gets a generic
// body so internals never leak.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest),
		errors.Is(err, services.ErrEndDateTooSoon),
		errors.Is(err, services.ErrEndDateTooFar),
		errors.Is(err, services.ErrEndDateFormat),
		errors.Is(err, services.ErrTooFewOptions),
		errors.Is(err, services.ErrCourseRequired),
		errors.Is(err, services.ErrInvalidTarget),
		errors.Is(err, services.ErrInvalidOption),
		errors.Is(err, services.ErrInvalidParent),
		errors.Is(err, services.ErrEmptyContent):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, services.ErrNotMutual):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, services.ErrPollEnded):
		return http.StatusGone, err.Error()
	case errors.Is(err, services.ErrAlreadyVoted),
		errors.Is(err, services.ErrDuplicateCommunity),
		errors.Is(err, services.ErrUserAlreadyExists):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// Error writes the JSON error body for a service failure. Unexpected errors
// are logged with the request path and answered generically.
func Error(c *gin.Context, err error) {
	status, message := statusOf(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, gin.H{"error": message})
}
