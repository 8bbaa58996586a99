package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/auto-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/auto-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrNotAuthenticated):
		Unauthorized(w, "Not authenticated")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
