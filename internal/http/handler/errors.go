package handler

import (
	"errors"
	apperrors "image-service/pkg/errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// MapToPublicError maps internal errors to public-facing HTTP status codes and messages
// This prevents information disclosure by providing consistent, generic error messages
func MapToPublicError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, apperrors.ErrDenied):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, apperrors.ErrLinkInvalid):
		return http.StatusForbidden, msgLinkInvalid
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "resource conflict"
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, "bad request"
	case errors.Is(err, apperrors.ErrSourceUnreadable):
		return http.StatusUnprocessableEntity, "stored image could not be processed"
	default:
		// Never expose internal errors to clients
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondWithMappedError responds with a mapped error, preventing information disclosure
func RespondWithMappedError(c echo.Context, err error) error {
	status, msg := MapToPublicError(err)

	// Denied errors carry the concrete reason (permitted heights, valid
	// expiry range); surface it instead of the generic message.
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		msg = appErr.Message
	}

	return respondError(c, status, msg)
}
