package api_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/sampleapp/account-api/internal/api"
	"github.com/sampleapp/account-api/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"auth", &service.AuthError{Reason: "token authentication failed"}, http.StatusUnauthorized},
		{"not found", &service.NotFoundError{Entity: "account"}, http.StatusNotFound},
		{"already exists", &service.AlreadyExistsError{Entity: "account"}, http.StatusConflict},
		{"invalid data", &service.InvalidDataError{}, http.StatusBadRequest},
		{"unknown", &service.UnknownError{Message: "boom"}, http.StatusInternalServerError},
		{"compensation failed", service.ErrCompensationFailed, http.StatusInternalServerError},
		{"unrecognized", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, api.MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Run("auth reasons are collapsed", func(t *testing.T) {
		err := &service.AuthError{Reason: "email has not been verified"}
		assert.Equal(t, "Authentication failed", api.GetSafeErrorMessage(err))
	})

	t.Run("invalid data keeps its message", func(t *testing.T) {
		err := &service.InvalidDataError{Message: "token is not valid"}
		assert.Equal(t, "token is not valid", api.GetSafeErrorMessage(err))
	})

	t.Run("infrastructure details never leak", func(t *testing.T) {
		err := &service.UnknownError{Message: "failed to create account", Err: errors.New("pq: disk full")}
		assert.Equal(t, "An unexpected error occurred", api.GetSafeErrorMessage(err))
	})

	t.Run("nil error gets the generic message", func(t *testing.T) {
		assert.Equal(t, "An unexpected error occurred", api.GetSafeErrorMessage(nil))
	})
}
