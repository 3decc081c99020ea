package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BRajendra10/yotube-backend/internal/apperrors"
	"github.com/BRajendra10/yotube-backend/internal/models"
	"github.com/BRajendra10/yotube-backend/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const userColumns = `id, created_at, full_name, username, email, password_hash,
avatar, avatar_id, cover_image, cover_id,
email_verified, verification_code_hash, verification_expires, refresh_token`

const createUser = `-- name: CreateUser
INSERT INTO users (id, full_name, username, email, password_hash, avatar, avatar_id, cover_image, cover_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + userColumns

func (r *UserRepo) CreateUser(ctx context.Context, arg repository.CreateUserParams) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser,
		uuid.New(), arg.FullName, arg.Username, arg.Email, arg.PasswordHash,
		arg.Avatar, arg.AvatarID, arg.CoverImage, arg.CoverID,
	)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, apperrors.ErrUserAlreadyExists
		}

		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: GetUserByID
SELECT ` + userColumns + ` FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, id)
	return collectUser(rows)
}

const getUserByEmail = `-- name: GetUserByEmail
SELECT ` + userColumns + ` FROM users
WHERE email = $1
`

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByEmail, email)
	return collectUser(rows)
}

const getUserByLogin = `-- name: GetUserByLogin
SELECT ` + userColumns + ` FROM users
WHERE username = $1 OR email = $1
`

// GetUserByLogin resolves a login identifier that may be username or email
func (r *UserRepo) GetUserByLogin(ctx context.Context, identifier string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByLogin, identifier)
	return collectUser(rows)
}

const setVerificationCode = `-- name: SetVerificationCode
UPDATE users
SET verification_code_hash = $2, verification_expires = $3
WHERE id = $1
RETURNING id
`

// SetVerificationCode replaces any pending code: only the latest hash is stored
func (r *UserRepo) SetVerificationCode(ctx context.Context, userID uuid.UUID, codeHash string, expiresAt time.Time) error {
	rows, _ := r.DB.Query(ctx, setVerificationCode, userID, codeHash, expiresAt)
	return collectUserID(rows)
}

const markEmailVerified = `-- name: MarkEmailVerified
UPDATE users
SET email_verified = TRUE, verification_code_hash = NULL, verification_expires = NULL
WHERE id = $1
RETURNING id
`

func (r *UserRepo) MarkEmailVerified(ctx context.Context, userID uuid.UUID) error {
	rows, _ := r.DB.Query(ctx, markEmailVerified, userID)
	return collectUserID(rows)
}

const setRefreshToken = `-- name: SetRefreshToken
UPDATE users
SET refresh_token = $2
WHERE id = $1
RETURNING id
`

func (r *UserRepo) SetRefreshToken(ctx context.Context, userID uuid.UUID, token *string) error {
	rows, _ := r.DB.Query(ctx, setRefreshToken, userID, token)
	return collectUserID(rows)
}

const swapRefreshToken = `-- name: SwapRefreshToken
UPDATE users
SET refresh_token = $3
WHERE id = $1 AND refresh_token = $2
RETURNING id
`

// SwapRefreshToken rotates the slot only when the stored value still equals old.
// Concurrent rotations race on this row: exactly one wins, the rest get ErrTokenReused.
func (r *UserRepo) SwapRefreshToken(ctx context.Context, userID uuid.UUID, old string, new string) error {
	rows, _ := r.DB.Query(ctx, swapRefreshToken, userID, old, new)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.ErrTokenReused
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

const updatePassword = `-- name: UpdatePassword
UPDATE users
SET password_hash = $2
WHERE id = $1
RETURNING id
`

func (r *UserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	rows, _ := r.DB.Query(ctx, updatePassword, userID, passwordHash)
	return collectUserID(rows)
}

const updateProfile = `-- name: UpdateProfile
UPDATE users
SET full_name = $2,
    avatar = COALESCE($3, avatar),
    avatar_id = COALESCE($4, avatar_id),
    cover_image = COALESCE($5, cover_image),
    cover_id = COALESCE($6, cover_id)
WHERE id = $1
RETURNING ` + userColumns

func (r *UserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, arg repository.UpdateProfileParams) (models.User, error) {
	rows, _ := r.DB.Query(ctx, updateProfile, userID, arg.FullName, arg.Avatar, arg.AvatarID, arg.CoverImage, arg.CoverID)
	return collectUser(rows)
}

const getChannelProfile = `-- name: GetChannelProfile
SELECT u.id, u.created_at, u.full_name, u.username, u.email, u.avatar, u.cover_image, u.email_verified,
       (SELECT count(*) FROM subscriptions WHERE channel_id = u.id)    AS subscribers,
       (SELECT count(*) FROM subscriptions WHERE subscriber_id = u.id) AS subscribed_to,
       EXISTS (SELECT 1 FROM subscriptions WHERE channel_id = u.id AND subscriber_id = $2) AS is_subscribed
FROM users u
WHERE u.username = $1
`

func (r *UserRepo) GetChannelProfile(ctx context.Context, username string, viewerID *uuid.UUID) (models.ChannelProfile, error) {
	rows, _ := r.DB.Query(ctx, getChannelProfile, username, viewerID)
	profile, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.ChannelProfile, error) {
		var p models.ChannelProfile
		err := row.Scan(
			&p.ID, &p.CreatedAt, &p.FullName, &p.Username, &p.Email, &p.Avatar, &p.CoverImage, &p.Verified,
			&p.SubscriberCount, &p.SubscribedToCount, &p.IsSubscribed,
		)
		return p, err
	})

	switch {
	case err == nil:
		return profile, nil
	case errors.Is(err, pgx.ErrNoRows):
		return profile, apperrors.ErrChannelNotFound
	default:
		return profile, fmt.Errorf("db error: %w", err)
	}
}

const addToWatchHistory = `-- name: AddToWatchHistory
INSERT INTO watch_history (user_id, video_id)
VALUES ($1, $2)
ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = now()
`

func (r *UserRepo) AddToWatchHistory(ctx context.Context, userID uuid.UUID, videoID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, addToWatchHistory, userID, videoID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return apperrors.ErrVideoNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const getWatchHistory = `-- name: GetWatchHistory
SELECT h.watched_at,
       v.id, v.created_at, v.owner_id, v.title, v.description, v.video_file, v.thumbnail, v.duration, v.views, v.is_published,
       o.id, o.username, o.full_name, o.avatar
FROM watch_history h
JOIN videos v ON v.id = h.video_id
JOIN users o ON o.id = v.owner_id
WHERE h.user_id = $1
ORDER BY h.watched_at DESC
`

func (r *UserRepo) GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]models.WatchHistoryEntry, error) {
	rows, _ := r.DB.Query(ctx, getWatchHistory, userID)
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.WatchHistoryEntry, error) {
		var e models.WatchHistoryEntry
		err := row.Scan(
			&e.WatchedAt,
			&e.Video.ID, &e.Video.CreatedAt, &e.Video.OwnerID, &e.Video.Title, &e.Video.Description,
			&e.Video.VideoFile, &e.Video.Thumbnail, &e.Video.Duration, &e.Video.Views, &e.Video.IsPublished,
			&e.Video.Owner.ID, &e.Video.Owner.Username, &e.Video.Owner.FullName, &e.Video.Owner.Avatar,
		)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entries, nil
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.CreatedAt, &u.FullName, &u.Username, &u.Email, &u.HashedPassword,
		&u.Avatar, &u.AvatarID, &u.CoverImage, &u.CoverID,
		&u.EmailVerified, &u.VerificationCodeHash, &u.VerificationExpires, &u.RefreshToken,
	)
	return u, err
}

func collectUser(rows pgx.Rows) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func collectUserID(rows pgx.Rows) error {
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.ErrUserNotFound
	default:
		return fmt.Errorf("db error: %w", err)
	}
}
