package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BRajendra10/yotube-backend/internal/handlers/userctx"
	"github.com/BRajendra10/yotube-backend/internal/models"
)

// Allow to use a function as auth service
type authFunc func(ctx context.Context, r *http.Request) (models.PublicUser, error)

func (f authFunc) Auth(ctx context.Context, r *http.Request) (models.PublicUser, error) {
	return f(ctx, r)
}

func TestAuthMiddleware(t *testing.T) {
	// Simple handler that echoes the username from context
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Must always be true cause middleware has to set user or reject the request
		user, ok := userctx.FromContext(r.Context())
		require.True(t, ok)

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(user.Username))
		require.NoError(t, err, "should write username to response")
	})

	t.Run("auth ok", func(t *testing.T) {
		middleware := AuthMiddleware(authFunc(func(ctx context.Context, r *http.Request) (models.PublicUser, error) {
			return models.PublicUser{Username: "test-user"}, nil
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/test")
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		require.Equalf(t, http.StatusOK, resp.StatusCode, "should return status OK. Resp: %s", string(body))
		require.Equal(t, "test-user", string(body), "should return username in response")
	})

	t.Run("auth fail", func(t *testing.T) {
		middleware := AuthMiddleware(authFunc(func(ctx context.Context, r *http.Request) (models.PublicUser, error) {
			return models.PublicUser{}, errors.New("no way")
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/test")
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "should return status Unauthorized. Resp: %s", string(body))
		require.JSONEq(t,
			`{
				"success": false,
				"statusCode": 401,
				"message": "Unauthorized",
				"errors": []
			}`,
			string(body),
		)
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	// Handler that reports whether a user is attached
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := userctx.FromContext(r.Context()); ok {
			_, _ = w.Write([]byte(user.Username))
			return
		}
		_, _ = w.Write([]byte("anonymous"))
	})

	t.Run("user attached when auth succeeds", func(t *testing.T) {
		middleware := OptionalAuthMiddleware(authFunc(func(ctx context.Context, r *http.Request) (models.PublicUser, error) {
			return models.PublicUser{Username: "test-user"}, nil
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/test")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "test-user", string(body))
	})

	t.Run("anonymous passes through when auth fails", func(t *testing.T) {
		middleware := OptionalAuthMiddleware(authFunc(func(ctx context.Context, r *http.Request) (models.PublicUser, error) {
			return models.PublicUser{}, errors.New("no token")
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/test")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, http.StatusOK, resp.StatusCode, "anonymous request must not be rejected")
		require.Equal(t, "anonymous", string(body))
	})
}
