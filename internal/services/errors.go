package services

import (
	"fmt"
	"net/http"

	"github.com/yungbote/campusshare-backend/internal/platform/apierr"
)

// Error kinds returned by the services. Callers match them with errors.Is;
// the HTTP layer reads Status and Message off the wrapped *apierr.Error.
var (
	ErrValidation      = apierr.Sentinel(http.StatusBadRequest, "validation_error", "Invalid request")
	ErrNotFound        = apierr.Sentinel(http.StatusNotFound, "not_found", "Not found")
	ErrInvalidCode     = apierr.Sentinel(http.StatusBadRequest, "invalid_code", "Invalid OTP")
	ErrExpiredCode     = apierr.Sentinel(http.StatusBadRequest, "expired_code", "OTP has expired")
	ErrUnauthenticated = apierr.Sentinel(http.StatusUnauthorized, "unauthorized", "Not authorized")
	ErrForbidden       = apierr.Sentinel(http.StatusForbidden, "forbidden", "Access denied")
	ErrDispatch        = apierr.Sentinel(http.StatusInternalServerError, "dispatch_failed", "Failed to send OTP")
	ErrConflict        = apierr.Sentinel(http.StatusBadRequest, "conflict", "Conflict")
	ErrUnavailable     = apierr.Sentinel(http.StatusServiceUnavailable, "service_unavailable", "Service not configured")
)

func validationf(format string, args ...any) error {
	return apierr.Wrap(ErrValidation, fmt.Sprintf(format, args...), nil)
}

func unauthenticated(message string, cause error) error {
	return apierr.Wrap(ErrUnauthenticated, message, cause)
}

func notFound(message string) error {
	return apierr.Wrap(ErrNotFound, message, nil)
}

func forbidden(message string) error {
	return apierr.Wrap(ErrForbidden, message, nil)
}
