package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BRajendra10/yotube-backend/internal/apperrors"
	"github.com/BRajendra10/yotube-backend/internal/models"
)

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 15 * 24 * time.Hour
	defaultSigningMethod   = "HS256"
)

type TokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"uid"`
}

// Token manager config with sensible defaults
type TokenConfig struct {
	// Secret keys to sign access and refresh tokens.
	// Separate keys, so leaking one does not compromise the other kind.
	// Both required to be set.
	AccessSecret  string
	RefreshSecret string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenManager issues and validates signed tokens.
// Pure cryptographic operation: no storage, no side effects.
type TokenManager struct {
	accessKey  string
	refreshKey string

	alg jwt.SigningMethod

	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenManager(cfg TokenConfig) (*TokenManager, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("access and refresh secret keys must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	return &TokenManager{
		accessKey:  cfg.AccessSecret,
		refreshKey: cfg.RefreshSecret,
		alg:        jwt.GetSigningMethod(cfg.Alg),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

func (m *TokenManager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

// IssueAccess signs a short lived token carrying the user id
func (m *TokenManager) IssueAccess(userID uuid.UUID) (models.IssuedToken, error) {
	return m.issue(userID, m.accessKey, m.accessTTL)
}

// IssueRefresh signs a long lived token carrying the user id
func (m *TokenManager) IssueRefresh(userID uuid.UUID) (models.IssuedToken, error) {
	return m.issue(userID, m.refreshKey, m.refreshTTL)
}

func (m *TokenManager) issue(userID uuid.UUID, key string, ttl time.Duration) (models.IssuedToken, error) {
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(
		m.alg,
		TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			UserID: userID,
		},
	)
	signed, err := token.SignedString([]byte(key))
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing token. Err: %w", err)
	}

	return models.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// ParseAccess validates an access token and returns the user id it carries
func (m *TokenManager) ParseAccess(token string) (uuid.UUID, error) {
	return m.parse(token, m.accessKey)
}

// ParseRefresh validates a refresh token and returns the user id it carries
func (m *TokenManager) ParseRefresh(token string) (uuid.UUID, error) {
	return m.parse(token, m.refreshKey)
}

// parse validates signature and expiry. All failures map to ErrTokenInvalid:
// the caller may log expired vs malformed but must not behave differently.
func (m *TokenManager) parse(token string, key string) (uuid.UUID, error) {
	claims := &TokenClaims{}

	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", apperrors.ErrTokenInvalid, err)
	}

	return claims.UserID, nil
}
