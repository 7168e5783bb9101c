package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dor-app/dor-backend-go/internal/domain/attendance"
	"github.com/dor-app/dor-backend-go/internal/domain/auth"
	"github.com/dor-app/dor-backend-go/internal/domain/branch"
	"github.com/dor-app/dor-backend-go/internal/domain/location"
	"github.com/dor-app/dor-backend-go/internal/domain/user"
	"github.com/dor-app/dor-backend-go/internal/pkg/database"
	"github.com/dor-app/dor-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Geofence rejection carries the measured distance so the client can
	// show how far off the user is.
	var geofenceErr *attendance.OutsideGeofenceError
	if errors.As(err, &geofenceErr) {
		writeJSON(w, http.StatusForbidden, Response{
			Success: false,
			Error: &ErrorDetail{
				Code:    "OUTSIDE_GEOFENCE",
				Message: geofenceErr.Error(),
				Details: map[string]string{
					"branch_name":     geofenceErr.BranchName,
					"distance_meters": fmt.Sprintf("%.1f", geofenceErr.DistanceMeters),
					"radius_meters":   fmt.Sprintf("%.0f", geofenceErr.RadiusMeters),
				},
			},
		})
		return
	}

	switch {
	// Transient storage failures are retryable
	case errors.Is(err, database.ErrUnavailable):
		ServiceUnavailable(w, "Storage temporarily unavailable, please retry")

	// Location gate errors
	case errors.Is(err, location.ErrLocationUnavailable),
		errors.Is(err, location.ErrPermissionDenied),
		errors.Is(err, location.ErrPermissionDeniedForever):
		BadRequest(w, err.Error(), nil)

	// Attendance state machine errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrNoCheckInFound),
		errors.Is(err, attendance.ErrNotCheckedInYet):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Branch domain errors
	case errors.Is(err, branch.ErrBranchNotFound):
		NotFound(w, "Branch not found")
	case errors.Is(err, branch.ErrBranchNotAssigned):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, branch.ErrBranchNameExists):
		Conflict(w, "A branch with this name already exists")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminAccessRequired),
		errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or malformed token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrOAuthExchangeFailed):
		Unauthorized(w, "OAuth code exchange failed")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
