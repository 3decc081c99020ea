package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BRajendra10/yotube-backend/internal/apperrors"
	"github.com/BRajendra10/yotube-backend/internal/models"
)

// issueCode generates a fresh verification code, stores its hash with expiry
// and mails the plaintext. Any previously pending code is superseded.
func (s *AuthService) issueCode(ctx context.Context, user models.User) error {
	code, err := generateCode()
	if err != nil {
		return err
	}

	codeHash, err := hashCode(code)
	if err != nil {
		return fmt.Errorf("error while hashing verification code. Err: %w", err)
	}

	expiresAt := time.Now().Add(s.codeTTL)
	if err := s.userRepo.SetVerificationCode(ctx, user.ID, codeHash, expiresAt); err != nil {
		return err
	}

	subject := "Your verification code"
	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(s.codeTTL.Minutes()))
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrMailFailed, err)
	}

	return nil
}

// VerifyEmail checks the submitted code and on success marks the email
// verified and issues the first token pair: verification doubles as
// first login.
func (s *AuthService) VerifyEmail(ctx context.Context, email string, code string) (models.User, models.TokenPair, error) {
	var pair models.TokenPair

	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return user, pair, err
	}

	// No pending code: either never issued or already consumed
	if user.VerificationCodeHash == nil || user.VerificationExpires == nil {
		return user, pair, apperrors.ErrCodeInvalid
	}

	if time.Now().After(*user.VerificationExpires) {
		return user, pair, apperrors.ErrCodeExpired
	}

	if err := compareCode(*user.VerificationCodeHash, code); err != nil {
		return user, pair, apperrors.ErrCodeInvalid
	}

	if err := s.userRepo.MarkEmailVerified(ctx, user.ID); err != nil {
		return user, pair, err
	}
	user.EmailVerified = true
	user.VerificationCodeHash = nil
	user.VerificationExpires = nil

	pair, err = s.issuePair(ctx, user.ID)
	if err != nil {
		return user, pair, err
	}

	return user, pair, nil
}

// ResendCode issues a fresh code for an unverified account. It also repairs
// accounts left code-less by a mail failure during registration.
func (s *AuthService) ResendCode(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return err
	}

	if user.EmailVerified {
		return apperrors.ErrAlreadyVerified
	}

	return s.issueCode(ctx, user)
}
