package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("message without cause", func(t *testing.T) {
		err := NewValidationError("amount must be a number")
		assert.Equal(t, "amount must be a number", err.Error())
		assert.Equal(t, CodeValidation, err.Code())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("message with cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := NewPersistenceError("failed to persist pending payment", cause)
		assert.Equal(t, "failed to persist pending payment: connection reset", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("not found names the resource and id", func(t *testing.T) {
		err := NewNotFoundError("payment", "INV1")
		assert.Equal(t, "payment not found: INV1", err.Error())
	})
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeRemote, CodeOf(NewRemoteError("bad gateway", nil)))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))

	wrapped := Wrap(NewNotFoundError("payment", "INV1"), "reconcile failed")
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "no-op"))

	wrapped := Wrap(errors.New("plain"), "annotated")
	assert.Equal(t, CodeInternal, CodeOf(wrapped))
	assert.Equal(t, "annotated: plain", wrapped.Error())
}

func TestHTTPStatusOf(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{NewValidationError("bad input"), http.StatusBadRequest},
		{NewNotFoundError("payment", "INV1"), http.StatusNotFound},
		{NewAppError(CodeUnauthenticated, "bad token", nil), http.StatusUnauthorized},
		{NewRemoteError("processor down", nil), http.StatusBadGateway},
		{NewPersistenceError("db down", nil), http.StatusInternalServerError},
		{NewConfigurationError("missing secret"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusOf(tt.err))
	}
}
