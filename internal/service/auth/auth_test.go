package auth

import (
	"context"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/BRajendra10/yotube-backend/internal/apperrors"
	"github.com/BRajendra10/yotube-backend/internal/media"
	"github.com/BRajendra10/yotube-backend/internal/repository/postgres"
	"github.com/BRajendra10/yotube-backend/internal/testutil"
)

var codeRe = regexp.MustCompile(`\d{6}`)

// fakeMailer remembers every sent message so tests can read the code back
type fakeMailer struct {
	sent []string
	fail bool
}

func (m *fakeMailer) Send(_ context.Context, to string, subject string, body string) error {
	if m.fail {
		return io.ErrClosedPipe
	}
	m.sent = append(m.sent, body)
	return nil
}

// lastCode digs the verification code out of the latest message
func (m *fakeMailer) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.sent, "no mail was sent")
	code := codeRe.FindString(m.sent[len(m.sent)-1])
	require.NotEmpty(t, code, "mail should carry a 6 digit code")
	return code
}

type fakeUploader struct {
	uploads int
	fail    bool
}

func (u *fakeUploader) Upload(_ context.Context, _ io.Reader, filename string, _ string) (media.Object, error) {
	if u.fail {
		return media.Object{}, io.ErrClosedPipe
	}
	u.uploads++
	return media.Object{URL: "https://cdn.test/" + filename, FileID: "file-" + filename}, nil
}

func (u *fakeUploader) Delete(_ context.Context, _ string) error { return nil }

func Test_AuthService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Begin new db transaction and create new AuthService on top of it
	// Rollback transaction when test stops
	withTx := func(dbpool *pgxpool.Pool, cfg Config, t *testing.T, fn func(s *AuthService, mailer *fakeMailer)) {
		testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
			userRepo := &postgres.UserRepo{DB: tx}
			mailer := &fakeMailer{}

			tokenManager, err := NewTokenManager(TokenConfig{
				AccessSecret:  "access-test-key",
				RefreshSecret: "refresh-test-key",
			})
			require.NoError(t, err, "token manager should be created without errors")

			s, err := NewService(cfg, tokenManager, userRepo, mailer, &fakeUploader{})
			require.NoError(t, err, "auth service couldn't be started")

			fn(s, mailer)
		})
	}

	register := func(t *testing.T, s *AuthService, email string, username string) {
		t.Helper()
		_, err := s.Register(t.Context(), RegisterParams{
			FullName: "Jane Doe",
			Email:    email,
			Username: username,
			Password: "Secr3t!pwd",
		})
		require.NoError(t, err)
	}

	t.Run("service defaults", func(t *testing.T) {
		tm, err := NewTokenManager(TokenConfig{AccessSecret: "a", RefreshSecret: "r"})
		require.NoError(t, err)

		s, err := NewService(Config{}, tm, &postgres.UserRepo{DB: pg.Pool}, &fakeMailer{}, &fakeUploader{})
		require.NoError(t, err)

		require.Equal(t, BcryptHasher{}, s.hasher, "default hasher should be set to BcryptHasher")
		require.Equal(t, 10*time.Minute, s.codeTTL)
		require.True(t, s.requireVerified, "verification gate should be on by default")
	})

	t.Run("Register", func(t *testing.T) {
		t.Run("new account ok", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				user, err := s.Register(t.Context(), RegisterParams{
					FullName: "Jane Doe",
					Email:    "Jane@X.com",
					Username: "JaneD",
					Password: "Secr3t!pwd",
				})

				require.NoError(t, err)
				require.Equal(t, "janed", user.Username, "username should be lower cased")
				require.Equal(t, "jane@x.com", user.Email, "email should be lower cased")
				require.False(t, user.EmailVerified, "fresh account must start unverified")
				require.Len(t, mailer.sent, 1, "verification code should be mailed")
			})
		})

		t.Run("duplicate username fails", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				register(t, s, "jane@x.com", "janed")

				_, err := s.Register(t.Context(), RegisterParams{
					FullName: "Other",
					Email:    "other@x.com",
					Username: "JANED",
					Password: "Secr3t!pwd",
				})

				require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists, "case differences must not bypass uniqueness")
			})
		})

		t.Run("upload failure aborts without account", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				userRepo := &postgres.UserRepo{DB: tx}
				tm, err := NewTokenManager(TokenConfig{AccessSecret: "a", RefreshSecret: "r"})
				require.NoError(t, err)
				s, err := NewService(Config{}, tm, userRepo, &fakeMailer{}, &fakeUploader{fail: true})
				require.NoError(t, err)

				_, err = s.Register(t.Context(), RegisterParams{
					FullName: "Jane Doe",
					Email:    "jane@x.com",
					Username: "janed",
					Password: "Secr3t!pwd",
					Avatar:   &UploadFile{Content: strings.NewReader("png bytes"), Filename: "a.png"},
				})
				require.ErrorIs(t, err, apperrors.ErrUploadFailed)

				// Upload runs before account creation, so no partial state
				_, err = userRepo.GetUserByEmail(t.Context(), "jane@x.com")
				require.ErrorIs(t, err, apperrors.ErrUserNotFound)
			})
		})

		t.Run("mail failure surfaces but account exists", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				userRepo := &postgres.UserRepo{DB: tx}
				tm, err := NewTokenManager(TokenConfig{AccessSecret: "a", RefreshSecret: "r"})
				require.NoError(t, err)
				s, err := NewService(Config{}, tm, userRepo, &fakeMailer{fail: true}, &fakeUploader{})
				require.NoError(t, err)

				_, err = s.Register(t.Context(), RegisterParams{
					FullName: "Jane Doe",
					Email:    "jane@x.com",
					Username: "janed",
					Password: "Secr3t!pwd",
				})

				require.ErrorIs(t, err, apperrors.ErrMailFailed)

				// Account exists and can be repaired with resend
				_, err = userRepo.GetUserByEmail(t.Context(), "jane@x.com")
				require.NoError(t, err)
			})
		})
	})

	t.Run("VerifyEmail", func(t *testing.T) {
		t.Run("correct code verifies and signs in", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				register(t, s, "jane@x.com", "janed")

				user, pair, err := s.VerifyEmail(t.Context(), "Jane@X.com", mailer.lastCode(t))

				require.NoError(t, err)
				require.True(t, user.EmailVerified)
				require.NotEmpty(t, pair.Access.Value, "verification doubles as first login")
				require.NotEmpty(t, pair.Refresh.Value)
			})
		})

		t.Run("wrong code fails", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				register(t, s, "jane@x.com", "janed")

				code := mailer.lastCode(t)
				wrong := "000000"
				if code == wrong {
					wrong = "000001"
				}

				_, _, err := s.VerifyEmail(t.Context(), "jane@x.com", wrong)

				require.ErrorIs(t, err, apperrors.ErrCodeInvalid)
			})
		})

		t.Run("expired code fails", func(t *testing.T) {
			withTx(pg.Pool, Config{CodeTTL: -time.Minute}, t, func(s *AuthService, mailer *fakeMailer) {
				register(t, s, "jane@x.com", "janed")

				_, _, err := s.VerifyEmail(t.Context(), "jane@x.com", mailer.lastCode(t))

				require.ErrorIs(t, err, apperrors.ErrCodeExpired)
			})
		})

		t.Run("resend supersedes earlier code", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				register(t, s, "jane@x.com", "janed")
				first := mailer.lastCode(t)

				require.NoError(t, s.ResendCode(t.Context(), "jane@x.com"))
				second := mailer.lastCode(t)

				if first != second {
					_, _, err := s.VerifyEmail(t.Context(), "jane@x.com", first)
					require.ErrorIs(t, err, apperrors.ErrCodeInvalid, "only the latest code may verify")
				}

				_, _, err := s.VerifyEmail(t.Context(), "jane@x.com", second)
				require.NoError(t, err)
			})
		})

		t.Run("code is consumed on success", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				register(t, s, "jane@x.com", "janed")
				code := mailer.lastCode(t)

				_, _, err := s.VerifyEmail(t.Context(), "jane@x.com", code)
				require.NoError(t, err)

				// Verification cleared the stored hash, so replaying the
				// same code must fail
				_, _, err = s.VerifyEmail(t.Context(), "jane@x.com", code)
				require.ErrorIs(t, err, apperrors.ErrCodeInvalid)
			})
		})

		t.Run("resend after verified fails", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				register(t, s, "jane@x.com", "janed")
				_, _, err := s.VerifyEmail(t.Context(), "jane@x.com", mailer.lastCode(t))
				require.NoError(t, err)

				err = s.ResendCode(t.Context(), "jane@x.com")

				require.ErrorIs(t, err, apperrors.ErrAlreadyVerified)
			})
		})
	})

	t.Run("Login", func(t *testing.T) {
		verifyAndLogin := func(t *testing.T, s *AuthService, mailer *fakeMailer) {
			t.Helper()
			register(t, s, "jane@x.com", "janed")
			_, _, err := s.VerifyEmail(t.Context(), "jane@x.com", mailer.lastCode(t))
			require.NoError(t, err)
		}

		t.Run("by email ok", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				verifyAndLogin(t, s, mailer)

				user, pair, err := s.Login(t.Context(), "jane@x.com", "Secr3t!pwd")

				require.NoError(t, err)
				require.Equal(t, "janed", user.Username)
				require.NotEmpty(t, pair.Access.Value)
				require.NotEmpty(t, pair.Refresh.Value)
			})
		})

		t.Run("by username ok", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				verifyAndLogin(t, s, mailer)

				_, _, err := s.Login(t.Context(), "JaneD", "Secr3t!pwd")

				require.NoError(t, err)
			})
		})

		t.Run("unverified account rejected", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				register(t, s, "jane@x.com", "janed")

				_, _, err := s.Login(t.Context(), "jane@x.com", "Secr3t!pwd")

				require.ErrorIs(t, err, apperrors.ErrEmailNotVerified)
			})
		})

		t.Run("unverified ok when gate disabled", func(t *testing.T) {
			withTx(pg.Pool, Config{DisableVerificationGate: true}, t, func(s *AuthService, mailer *fakeMailer) {
				register(t, s, "jane@x.com", "janed")

				_, _, err := s.Login(t.Context(), "jane@x.com", "Secr3t!pwd")

				require.NoError(t, err)
			})
		})

		t.Run("wrong password rejected", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				verifyAndLogin(t, s, mailer)

				_, _, err := s.Login(t.Context(), "jane@x.com", "wrong")

				require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
			})
		})

		t.Run("unknown account rejected", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				_, _, err := s.Login(t.Context(), "nobody@x.com", "whatever")

				require.ErrorIs(t, err, apperrors.ErrUserNotFound)
			})
		})
	})

	t.Run("Refresh", func(t *testing.T) {
		signIn := func(t *testing.T, s *AuthService, mailer *fakeMailer) (string, string) {
			t.Helper()
			register(t, s, "jane@x.com", "janed")
			_, pair, err := s.VerifyEmail(t.Context(), "jane@x.com", mailer.lastCode(t))
			require.NoError(t, err)
			return pair.Access.Value, pair.Refresh.Value
		}

		t.Run("rotates both tokens", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				_, refresh := signIn(t, s, mailer)

				// Token carries issued-at with second precision, make sure
				// the rotated one differs
				time.Sleep(1100 * time.Millisecond)
				pair, err := s.Refresh(t.Context(), refresh)

				require.NoError(t, err)
				require.NotEmpty(t, pair.Access.Value)
				require.NotEqual(t, refresh, pair.Refresh.Value, "refresh token must rotate on every use")
			})
		})

		t.Run("reused token rejected", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				_, refresh := signIn(t, s, mailer)

				time.Sleep(1100 * time.Millisecond)
				_, err := s.Refresh(t.Context(), refresh)
				require.NoError(t, err)

				// Present the consumed token again, as a thief would
				_, err = s.Refresh(t.Context(), refresh)

				require.ErrorIs(t, err, apperrors.ErrTokenReused)
			})
		})

		t.Run("empty token rejected", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				_, err := s.Refresh(t.Context(), "")

				require.ErrorIs(t, err, apperrors.ErrTokenMissing)
			})
		})

		t.Run("garbage token rejected", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				_, err := s.Refresh(t.Context(), "garbage")

				require.ErrorIs(t, err, apperrors.ErrTokenInvalid)
			})
		})

		t.Run("access token is not a refresh token", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				access, _ := signIn(t, s, mailer)

				_, err := s.Refresh(t.Context(), access)

				require.ErrorIs(t, err, apperrors.ErrTokenInvalid, "access tokens are signed with a different key")
			})
		})

		t.Run("after logout rejected", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				_, refresh := signIn(t, s, mailer)

				user, err := s.userRepo.GetUserByEmail(t.Context(), "jane@x.com")
				require.NoError(t, err)
				require.NoError(t, s.Logout(t.Context(), user.ID))

				_, err = s.Refresh(t.Context(), refresh)

				require.ErrorIs(t, err, apperrors.ErrTokenReused)
			})
		})
	})

	t.Run("ChangePassword", func(t *testing.T) {
		t.Run("ok and old password stops working", func(t *testing.T) {
			withTx(pg.Pool, Config{DisableVerificationGate: true}, t, func(s *AuthService, mailer *fakeMailer) {
				register(t, s, "jane@x.com", "janed")
				user, err := s.userRepo.GetUserByEmail(t.Context(), "jane@x.com")
				require.NoError(t, err)

				err = s.ChangePassword(t.Context(), user.ID, "Secr3t!pwd", "N3w!password")
				require.NoError(t, err)

				_, _, err = s.Login(t.Context(), "jane@x.com", "Secr3t!pwd")
				require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

				_, _, err = s.Login(t.Context(), "jane@x.com", "N3w!password")
				require.NoError(t, err)
			})
		})

		t.Run("wrong old password rejected", func(t *testing.T) {
			withTx(pg.Pool, Config{}, t, func(s *AuthService, mailer *fakeMailer) {
				register(t, s, "jane@x.com", "janed")
				user, err := s.userRepo.GetUserByEmail(t.Context(), "jane@x.com")
				require.NoError(t, err)

				err = s.ChangePassword(t.Context(), user.ID, "wrong", "N3w!password")

				require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
			})
		})
	})
}
