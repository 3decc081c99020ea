package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BRajendra10/yotube-backend/internal/apperrors"
	"github.com/BRajendra10/yotube-backend/internal/models"
)

func testPair() models.TokenPair {
	return models.TokenPair{
		Access:  models.IssuedToken{Value: "access-value", ExpiresAt: time.Now().Add(15 * time.Minute)},
		Refresh: models.IssuedToken{Value: "refresh-value", ExpiresAt: time.Now().Add(15 * 24 * time.Hour)},
	}
}

func cookieByName(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func Test_TokenCookies(t *testing.T) {
	t.Parallel()

	s := &AuthService{}

	t.Run("set pair writes both cookies", func(t *testing.T) {
		rec := httptest.NewRecorder()

		s.SetTokenPair(rec, testPair())

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 2)

		access := cookieByName(t, cookies, "accessToken")
		require.Equal(t, "access-value", access.Value)
		require.True(t, access.HttpOnly, "token cookies must not be readable from scripts")
		require.True(t, access.Secure)
		require.Equal(t, http.SameSiteNoneMode, access.SameSite)
		require.Equal(t, "/", access.Path)
		require.Positive(t, access.MaxAge)

		refresh := cookieByName(t, cookies, "refreshToken")
		require.Equal(t, "refresh-value", refresh.Value)
		require.True(t, refresh.HttpOnly)
	})

	t.Run("clear expires both cookies", func(t *testing.T) {
		rec := httptest.NewRecorder()

		s.ClearTokens(rec)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 2)
		for _, c := range cookies {
			require.Empty(t, c.Value)
			require.Negative(t, c.MaxAge, "expired cookie should have negative MaxAge")
		}
	})

	t.Run("refresh from request", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/refresh_token", nil)
		r.AddCookie(&http.Cookie{Name: "refreshToken", Value: "refresh-value"})

		got, err := s.RefreshFromRequest(r)

		require.NoError(t, err)
		require.Equal(t, "refresh-value", got)
	})

	t.Run("refresh missing cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/refresh_token", nil)

		_, err := s.RefreshFromRequest(r)

		require.ErrorIs(t, err, apperrors.ErrTokenMissing)
	})

	t.Run("access cookie preferred over header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/current_user", nil)
		r.AddCookie(&http.Cookie{Name: "accessToken", Value: "from-cookie"})
		r.Header.Set("Authorization", "Bearer from-header")

		got, err := s.AccessFromRequest(r)

		require.NoError(t, err)
		require.Equal(t, "from-cookie", got)
	})

	t.Run("bearer header fallback", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/current_user", nil)
		r.Header.Set("Authorization", "Bearer from-header")

		got, err := s.AccessFromRequest(r)

		require.NoError(t, err)
		require.Equal(t, "from-header", got)
	})

	t.Run("access missing everywhere", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/current_user", nil)

		_, err := s.AccessFromRequest(r)

		require.ErrorIs(t, err, apperrors.ErrTokenMissing)
	})
}
