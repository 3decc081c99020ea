package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BRajendra10/yotube-backend/internal/apperrors"
	"github.com/BRajendra10/yotube-backend/internal/models"
)

type SubscriptionRepo struct {
	DB DBTX
}

const deleteSubscription = `-- name: DeleteSubscription
DELETE FROM subscriptions
WHERE subscriber_id = $1 AND channel_id = $2
`

const insertSubscription = `-- name: InsertSubscription
INSERT INTO subscriptions (id, subscriber_id, channel_id)
VALUES ($1, $2, $3)
`

const countSubscribers = `-- name: CountSubscribers
SELECT count(*) FROM subscriptions WHERE channel_id = $1
`

func (r *SubscriptionRepo) ToggleSubscription(ctx context.Context, subscriberID uuid.UUID, channelID uuid.UUID) (bool, int64, error) {
	tag, err := r.DB.Exec(ctx, deleteSubscription, subscriberID, channelID)
	if err != nil {
		return false, 0, fmt.Errorf("db error: %w", err)
	}

	subscribed := false
	if tag.RowsAffected() == 0 {
		if _, err := r.DB.Exec(ctx, insertSubscription, uuid.New(), subscriberID, channelID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
				return false, 0, apperrors.ErrChannelNotFound
			}
			return false, 0, fmt.Errorf("db error: %w", err)
		}
		subscribed = true
	}

	var count int64
	if err := r.DB.QueryRow(ctx, countSubscribers, channelID).Scan(&count); err != nil {
		return subscribed, 0, fmt.Errorf("db error: %w", err)
	}

	return subscribed, count, nil
}

const listSubscribers = `-- name: ListSubscribers
SELECT u.id, u.created_at, u.full_name, u.username, u.email, u.avatar, u.cover_image, u.email_verified
FROM subscriptions s
JOIN users u ON u.id = s.subscriber_id
WHERE s.channel_id = $1
ORDER BY s.created_at DESC
`

func (r *SubscriptionRepo) ListSubscribers(ctx context.Context, channelID uuid.UUID) ([]models.PublicUser, error) {
	rows, _ := r.DB.Query(ctx, listSubscribers, channelID)
	return collectPublicUsers(rows)
}

const listSubscribedChannels = `-- name: ListSubscribedChannels
SELECT u.id, u.created_at, u.full_name, u.username, u.email, u.avatar, u.cover_image, u.email_verified
FROM subscriptions s
JOIN users u ON u.id = s.channel_id
WHERE s.subscriber_id = $1
ORDER BY s.created_at DESC
`

func (r *SubscriptionRepo) ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]models.PublicUser, error) {
	rows, _ := r.DB.Query(ctx, listSubscribedChannels, subscriberID)
	return collectPublicUsers(rows)
}

func collectPublicUsers(rows pgx.Rows) ([]models.PublicUser, error) {
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PublicUser, error) {
		var u models.PublicUser
		err := row.Scan(&u.ID, &u.CreatedAt, &u.FullName, &u.Username, &u.Email, &u.Avatar, &u.CoverImage, &u.Verified)
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}
