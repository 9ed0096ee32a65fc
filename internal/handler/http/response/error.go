package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// Stable rejection codes
const (
	CodeAlreadyClockedIn = "ALREADY_CLOCKED_IN"
	CodeNotClockedIn     = "NOT_CLOCKED_IN"
	CodeEmployeeNotFound = "EMPLOYEE_NOT_FOUND"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInvalidDateRange = "INVALID_DATE_RANGE"
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
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, CodeAlreadyClockedIn, err.Error())
	case errors.Is(err, attendance.ErrNotClockedIn):
		Conflict(w, CodeNotClockedIn, err.Error())
	case errors.Is(err, attendance.ErrInvalidDateRange):
		ErrorWithCode(w, http.StatusUnprocessableEntity, CodeInvalidDateRange, err.Error())
	case errors.Is(err, attendance.ErrInvalidKind):
		ValidationError(w, map[string]string{"kind": err.Error()})
	case errors.Is(err, attendance.ErrStoreUnavailable):
		slog.Error("attendance store unavailable", slog.Any("error", err))
		ServiceUnavailable(w, CodeStoreUnavailable, "Attendance store is temporarily unavailable, please retry")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		ErrorWithCode(w, http.StatusNotFound, CodeEmployeeNotFound, "Employee not found")

	// Auth and access errors
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrEmployeeClaimRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrAdminPrivilegeRequired), errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", slog.Any("error", err))
		InternalServerError(w, "An unexpected error occurred")
	}
}
