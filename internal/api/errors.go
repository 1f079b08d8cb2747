package api

import (
	"errors"
	"net/http"

	"github.com/sampleapp/account-api/internal/service"
)

// MapErrorToStatusCode maps service errors to appropriate HTTP status codes
// based on the error category. This prevents leaking internal error types to
// clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrAuth):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrAlreadyExists):
		return http.StatusConflict

	case errors.Is(err, service.ErrInvalidData):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error category. Authentication failure reasons in particular are
// collapsed so callers cannot probe which part of the scheme failed.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrAuth):
		return "Authentication failed"

	case errors.Is(err, service.ErrNotFound):
		return "Account not found"

	case errors.Is(err, service.ErrAlreadyExists):
		return "Email already exists"

	case errors.Is(err, service.ErrInvalidData):
		var invalid *service.InvalidDataError
		if errors.As(err, &invalid) && invalid.Message != "" {
			return invalid.Message
		}
		return "Invalid data"

	default:
		return "An unexpected error occurred"
	}
}

// respondWithServiceError writes the response for a service-layer error,
// attaching field errors when the error carries them.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	var invalid *service.InvalidDataError
	if errors.As(err, &invalid) && len(invalid.Fields) > 0 {
		RespondWithFieldErrors(w, r, status, message, invalid.Fields)
		return
	}

	RespondWithError(w, r, status, message)
}
