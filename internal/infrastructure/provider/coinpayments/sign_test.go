package coinpayments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "funding-server/internal/domain/errors"
)

func TestSign(t *testing.T) {
	const (
		method    = "POST"
		url       = "https://api.example.com/invoices"
		clientID  = "client-1"
		timestamp = "2024-05-01T12:00:00"
		body      = `{"a":1}`
		secret    = "secret-key"
	)

	t.Run("fixed vector", func(t *testing.T) {
		sig, err := Sign(method, url, clientID, timestamp, body, secret)
		require.NoError(t, err)
		assert.Equal(t, "g5GvNNYAcfocdPIywARnZAxOdOSnA3x6kp0tDCMkO9o=", sig)
	})

	t.Run("deterministic", func(t *testing.T) {
		first, err := Sign(method, url, clientID, timestamp, body, secret)
		require.NoError(t, err)
		second, err := Sign(method, url, clientID, timestamp, body, secret)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("body change changes signature", func(t *testing.T) {
		sig, err := Sign(method, url, clientID, timestamp, `{"a":2}`, secret)
		require.NoError(t, err)
		assert.Equal(t, "WvSy3mpLFo9JlQqSh6rGqAqqAxVOQFIK+9dk7hrs8DE=", sig)
		assert.NotEqual(t, "g5GvNNYAcfocdPIywARnZAxOdOSnA3x6kp0tDCMkO9o=", sig)
	})

	t.Run("timestamp change changes signature", func(t *testing.T) {
		sig, err := Sign(method, url, clientID, "2024-05-01T12:00:01", body, secret)
		require.NoError(t, err)
		assert.Equal(t, "nM8+vRgJt6GdhiiXCpqaMy6o+roLePszOvvyJeCzI1w=", sig)
	})

	t.Run("missing secret", func(t *testing.T) {
		_, err := Sign(method, url, clientID, timestamp, body, "")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeConfiguration, apperrors.CodeOf(err))
	})
}
