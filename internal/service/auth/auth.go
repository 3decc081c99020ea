// Package auth implements the account and session token lifecycle:
// registration with email verification, login, refresh token rotation
// with reuse detection, logout and password change.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BRajendra10/yotube-backend/internal/apperrors"
	"github.com/BRajendra10/yotube-backend/internal/logger"
	"github.com/BRajendra10/yotube-backend/internal/mail"
	"github.com/BRajendra10/yotube-backend/internal/media"
	"github.com/BRajendra10/yotube-backend/internal/models"
	"github.com/BRajendra10/yotube-backend/internal/repository"
)

const defaultCodeTTL = 10 * time.Minute

type Config struct {
	// Hasher to use during registration or login process
	// Defaults to BcryptHasher
	Hasher PasswordHasher

	// Verification code lifetime, defaults to 10 minutes
	CodeTTL time.Duration

	// Login normally requires a verified email. Setting this lets
	// unverified accounts log in (policy variant, off by default).
	DisableVerificationGate bool

	Logger logger.Logger
}

type UploadFile struct {
	Content     io.Reader
	Filename    string
	ContentType string
}

type RegisterParams struct {
	FullName string
	Email    string
	Username string
	Password string
	Avatar   *UploadFile
	Cover    *UploadFile
}

type AuthService struct {
	token    *TokenManager
	hasher   PasswordHasher
	userRepo repository.UserRepo
	mailer   mail.Sender
	uploader media.Uploader
	logger   logger.Logger

	codeTTL         time.Duration
	requireVerified bool
}

func NewService(cfg Config, token *TokenManager, userRepo repository.UserRepo, mailer mail.Sender, uploader media.Uploader) (*AuthService, error) {
	if token == nil || userRepo == nil || mailer == nil || uploader == nil {
		return nil, errors.New("token manager, user repo, mailer and uploader must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	codeTTL := cfg.CodeTTL
	if codeTTL == 0 {
		codeTTL = defaultCodeTTL
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &AuthService{
		token:           token,
		hasher:          hasher,
		userRepo:        userRepo,
		mailer:          mailer,
		uploader:        uploader,
		logger:          log,
		codeTTL:         codeTTL,
		requireVerified: !cfg.DisableVerificationGate,
	}, nil
}

// Register creates an unverified account and mails the first verification code.
// Media is uploaded before the row is created: an upload failure aborts
// registration with no partial state.
func (s *AuthService) Register(ctx context.Context, arg RegisterParams) (models.User, error) {
	var user models.User

	hash, err := s.hasher.Hash(arg.Password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password, Err: %w", err)
	}

	params := repository.CreateUserParams{
		FullName:     strings.TrimSpace(arg.FullName),
		Username:     strings.ToLower(strings.TrimSpace(arg.Username)),
		Email:        strings.ToLower(strings.TrimSpace(arg.Email)),
		PasswordHash: hash,
	}

	if arg.Avatar != nil {
		obj, err := s.uploader.Upload(ctx, arg.Avatar.Content, arg.Avatar.Filename, arg.Avatar.ContentType)
		if err != nil {
			return user, fmt.Errorf("%w: avatar: %w", apperrors.ErrUploadFailed, err)
		}
		params.Avatar, params.AvatarID = obj.URL, obj.FileID
	}

	if arg.Cover != nil {
		obj, err := s.uploader.Upload(ctx, arg.Cover.Content, arg.Cover.Filename, arg.Cover.ContentType)
		if err != nil {
			return user, fmt.Errorf("%w: cover image: %w", apperrors.ErrUploadFailed, err)
		}
		params.CoverImage, params.CoverID = obj.URL, obj.FileID
	}

	user, err = s.userRepo.CreateUser(ctx, params)
	if err != nil {
		return user, err
	}

	// Account exists from this point. A failure while issuing or mailing
	// the code leaves an unverified code-less account which ResendCode
	// repairs, so the error is surfaced instead of swallowed.
	if err := s.issueCode(ctx, user); err != nil {
		return user, err
	}

	return user, nil
}

// Login authenticates by username or email and issues a fresh token pair.
// The new refresh token overwrites the account's single session slot, so a
// login here silently invalidates any session elsewhere.
func (s *AuthService) Login(ctx context.Context, identifier string, password string) (models.User, models.TokenPair, error) {
	var pair models.TokenPair

	user, err := s.userRepo.GetUserByLogin(ctx, strings.ToLower(strings.TrimSpace(identifier)))
	if err != nil {
		return user, pair, err
	}

	if s.requireVerified && !user.EmailVerified {
		return user, pair, apperrors.ErrEmailNotVerified
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return user, pair, apperrors.ErrInvalidCredentials
	}

	pair, err = s.issuePair(ctx, user.ID)
	if err != nil {
		return user, pair, err
	}

	return user, pair, nil
}

// issuePair mints access+refresh tokens and persists the refresh token
// as the account's current session. Last write wins.
func (s *AuthService) issuePair(ctx context.Context, userID uuid.UUID) (models.TokenPair, error) {
	var pair models.TokenPair

	access, err := s.token.IssueAccess(userID)
	if err != nil {
		return pair, err
	}

	refresh, err := s.token.IssueRefresh(userID)
	if err != nil {
		return pair, err
	}

	if err := s.userRepo.SetRefreshToken(ctx, userID, &refresh.Value); err != nil {
		return pair, err
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh validates the presented refresh token and rotates it: a new
// access AND refresh token are issued on every call, shrinking the reuse
// window. A syntactically valid token that no longer matches the stored
// one signals theft or stale-session replay and is rejected with no new
// token issued.
func (s *AuthService) Refresh(ctx context.Context, presented string) (models.TokenPair, error) {
	var pair models.TokenPair

	if presented == "" {
		return pair, apperrors.ErrTokenMissing
	}

	userID, err := s.token.ParseRefresh(presented)
	if err != nil {
		// Expired and malformed differ only in the log line
		s.logger.Debug("refresh token rejected", "error", err.Error())
		return pair, apperrors.ErrTokenInvalid
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return pair, apperrors.ErrTokenInvalid
		}
		return pair, err
	}

	if user.RefreshToken == nil || *user.RefreshToken != presented {
		s.logger.Warn("refresh token reuse detected", "user_id", user.ID)
		return pair, apperrors.ErrTokenReused
	}

	access, err := s.token.IssueAccess(user.ID)
	if err != nil {
		return pair, err
	}

	refresh, err := s.token.IssueRefresh(user.ID)
	if err != nil {
		return pair, err
	}

	// Compare-and-swap: when rotations race on this account exactly one
	// wins, the rest surface as reuse
	if err := s.userRepo.SwapRefreshToken(ctx, user.ID, presented, refresh.Value); err != nil {
		return pair, err
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Logout clears the session slot. Idempotent: logging out twice is fine.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.SetRefreshToken(ctx, userID, nil)
}

// ChangePassword verifies the old password and stores a hash of the new one.
// Active sessions are not touched.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword string, newPassword string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(user.HashedPassword, oldPassword); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("can't use this as password, Err: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, user.ID, hash)
}
