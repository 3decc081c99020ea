package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/BRajendra10/yotube-backend/internal/apperrors"
	"github.com/BRajendra10/yotube-backend/internal/models"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
	bearerScheme      = "Bearer "
)

// SetTokenPair hands both tokens to the client as secure httpOnly cookies
func (s *AuthService) SetTokenPair(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, tokenCookie(accessCookieName, pair.Access.Value, pair.Access.ExpiresAt))
	http.SetCookie(w, tokenCookie(refreshCookieName, pair.Refresh.Value, pair.Refresh.ExpiresAt))
}

// ClearTokens instructs the client to drop both cookies
func (s *AuthService) ClearTokens(w http.ResponseWriter) {
	http.SetCookie(w, expiredCookie(accessCookieName))
	http.SetCookie(w, expiredCookie(refreshCookieName))
}

// RefreshFromRequest reads the refresh token from the request cookie
func (s *AuthService) RefreshFromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return "", apperrors.ErrTokenMissing
	}
	return cookie.Value, nil
}

// AccessFromRequest extracts the access token. The cookie takes precedence,
// the Authorization Bearer header is the fallback.
func (s *AuthService) AccessFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(accessCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, bearerScheme) {
		return strings.TrimPrefix(header, bearerScheme), nil
	}

	return "", apperrors.ErrTokenMissing
}

// Auth resolves the request to a sanitized account projection.
// Fails if the token is missing, invalid, or the account no longer exists.
func (s *AuthService) Auth(ctx context.Context, r *http.Request) (models.PublicUser, error) {
	access, err := s.AccessFromRequest(r)
	if err != nil {
		return models.PublicUser{}, err
	}

	userID, err := s.token.ParseAccess(access)
	if err != nil {
		return models.PublicUser{}, apperrors.ErrTokenInvalid
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		// Account deleted between token issuance and use
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return models.PublicUser{}, apperrors.ErrTokenInvalid
		}
		return models.PublicUser{}, err
	}

	return user.Public(), nil
}

func tokenCookie(name string, value string, expiresAt time.Time) *http.Cookie {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

func expiredCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}
