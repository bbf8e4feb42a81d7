package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleVerifier_Verify(t *testing.T) {
	t.Run("valid assertion", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "valid-token", r.URL.Query().Get("id_token"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"sub":"google-123","email":"alice@example.com","name":"Alice"}`))
		}))
		defer srv.Close()

		v := NewGoogleVerifier(srv.URL, time.Second)
		id, err := v.Verify(context.Background(), "valid-token")
		require.NoError(t, err)
		assert.Equal(t, "google-123", id.SubjectID)
		assert.Equal(t, "alice@example.com", id.Email)
		assert.Equal(t, "Alice", id.DisplayName)
	})

	t.Run("authority rejects token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"invalid_token"}`, http.StatusBadRequest)
		}))
		defer srv.Close()

		v := NewGoogleVerifier(srv.URL, time.Second)
		_, err := v.Verify(context.Background(), "bad-token")
		require.ErrorIs(t, err, ErrInvalidAssertion)
	})

	t.Run("authority response missing email", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"sub":"google-123"}`))
		}))
		defer srv.Close()

		v := NewGoogleVerifier(srv.URL, time.Second)
		_, err := v.Verify(context.Background(), "token")
		require.ErrorIs(t, err, ErrInvalidAssertion)
	})

	t.Run("malformed authority response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		v := NewGoogleVerifier(srv.URL, time.Second)
		_, err := v.Verify(context.Background(), "token")
		require.ErrorIs(t, err, ErrInvalidAssertion)
	})

	t.Run("authority unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // closed before use

		v := NewGoogleVerifier(srv.URL, time.Second)
		_, err := v.Verify(context.Background(), "token")
		require.ErrorIs(t, err, ErrInvalidAssertion)
	})

	t.Run("empty assertion", func(t *testing.T) {
		v := NewGoogleVerifier("", time.Second)
		_, err := v.Verify(context.Background(), "")
		require.ErrorIs(t, err, ErrInvalidAssertion)
	})
}
