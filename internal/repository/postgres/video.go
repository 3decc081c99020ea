package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/BRajendra10/yotube-backend/internal/apperrors"
	"github.com/BRajendra10/yotube-backend/internal/models"
	"github.com/BRajendra10/yotube-backend/internal/repository"
)

type VideoRepo struct {
	DB DBTX
}

const videoColumns = `v.id, v.created_at, v.owner_id, v.title, v.description,
v.video_file, v.video_file_id, v.thumbnail, v.thumbnail_id, v.duration, v.views, v.is_published`

const videoOwnerColumns = videoColumns + `, o.id, o.username, o.full_name, o.avatar`

const createVideo = `-- name: CreateVideo
INSERT INTO videos (id, owner_id, title, description, video_file, video_file_id, thumbnail, thumbnail_id, duration)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at, owner_id, title, description, video_file, video_file_id, thumbnail, thumbnail_id, duration, views, is_published
`

func (r *VideoRepo) CreateVideo(ctx context.Context, arg repository.CreateVideoParams) (models.Video, error) {
	rows, _ := r.DB.Query(ctx, createVideo,
		uuid.New(), arg.OwnerID, arg.Title, arg.Description,
		arg.VideoFile, arg.VideoFileID, arg.Thumbnail, arg.ThumbnailID, arg.Duration,
	)
	return collectVideo(rows)
}

const getVideoByID = `-- name: GetVideoByID
SELECT ` + videoOwnerColumns + `
FROM videos v
JOIN users o ON o.id = v.owner_id
WHERE v.id = $1
`

func (r *VideoRepo) GetVideoByID(ctx context.Context, videoID uuid.UUID) (models.VideoWithOwner, error) {
	rows, _ := r.DB.Query(ctx, getVideoByID, videoID)
	video, err := pgx.CollectOneRow(rows, rowToVideoWithOwner)

	switch {
	case err == nil:
		return video, nil
	case errors.Is(err, pgx.ErrNoRows):
		return video, apperrors.ErrVideoNotFound
	default:
		return video, fmt.Errorf("db error: %w", err)
	}
}

const listVideosByOwner = `-- name: ListVideosByOwner
SELECT ` + videoOwnerColumns + `
FROM videos v
JOIN users o ON o.id = v.owner_id
WHERE v.owner_id = $1 AND v.is_published
ORDER BY v.created_at DESC
LIMIT $2
`

func (r *VideoRepo) ListVideosByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.VideoWithOwner, error) {
	rows, _ := r.DB.Query(ctx, listVideosByOwner, ownerID, limit)
	return collectVideosWithOwner(rows)
}

const searchVideos = `-- name: SearchVideos
SELECT ` + videoOwnerColumns + `
FROM videos v
JOIN users o ON o.id = v.owner_id
WHERE v.is_published AND (v.title ILIKE '%' || $1 || '%' OR v.description ILIKE '%' || $1 || '%')
ORDER BY v.created_at DESC
LIMIT $2
`

func (r *VideoRepo) SearchVideos(ctx context.Context, query string, limit int) ([]models.VideoWithOwner, error) {
	rows, _ := r.DB.Query(ctx, searchVideos, query, limit)
	return collectVideosWithOwner(rows)
}

const updateVideo = `-- name: UpdateVideo
UPDATE videos
SET title = COALESCE($2, title),
    description = COALESCE($3, description),
    thumbnail = COALESCE($4, thumbnail),
    thumbnail_id = COALESCE($5, thumbnail_id)
WHERE id = $1
RETURNING id, created_at, owner_id, title, description, video_file, video_file_id, thumbnail, thumbnail_id, duration, views, is_published
`

func (r *VideoRepo) UpdateVideo(ctx context.Context, videoID uuid.UUID, arg repository.UpdateVideoParams) (models.Video, error) {
	rows, _ := r.DB.Query(ctx, updateVideo, videoID, arg.Title, arg.Description, arg.Thumbnail, arg.ThumbnailID)
	return collectVideo(rows)
}

const deleteVideo = `-- name: DeleteVideo
DELETE FROM videos WHERE id = $1
`

func (r *VideoRepo) DeleteVideo(ctx context.Context, videoID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteVideo, videoID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrVideoNotFound
	}
	return nil
}

const togglePublish = `-- name: TogglePublish
UPDATE videos
SET is_published = NOT is_published
WHERE id = $1
RETURNING id, created_at, owner_id, title, description, video_file, video_file_id, thumbnail, thumbnail_id, duration, views, is_published
`

func (r *VideoRepo) TogglePublish(ctx context.Context, videoID uuid.UUID) (models.Video, error) {
	rows, _ := r.DB.Query(ctx, togglePublish, videoID)
	return collectVideo(rows)
}

const incrementViews = `-- name: IncrementViews
UPDATE videos SET views = views + 1 WHERE id = $1
`

func (r *VideoRepo) IncrementViews(ctx context.Context, videoID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, incrementViews, videoID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func rowToVideo(row pgx.CollectableRow) (models.Video, error) {
	var v models.Video
	err := row.Scan(
		&v.ID, &v.CreatedAt, &v.OwnerID, &v.Title, &v.Description,
		&v.VideoFile, &v.VideoFileID, &v.Thumbnail, &v.ThumbnailID, &v.Duration, &v.Views, &v.IsPublished,
	)
	return v, err
}

func rowToVideoWithOwner(row pgx.CollectableRow) (models.VideoWithOwner, error) {
	var v models.VideoWithOwner
	err := row.Scan(
		&v.ID, &v.CreatedAt, &v.OwnerID, &v.Title, &v.Description,
		&v.VideoFile, &v.VideoFileID, &v.Thumbnail, &v.ThumbnailID, &v.Duration, &v.Views, &v.IsPublished,
		&v.Owner.ID, &v.Owner.Username, &v.Owner.FullName, &v.Owner.Avatar,
	)
	return v, err
}

func collectVideo(rows pgx.Rows) (models.Video, error) {
	video, err := pgx.CollectOneRow(rows, rowToVideo)

	switch {
	case err == nil:
		return video, nil
	case errors.Is(err, pgx.ErrNoRows):
		return video, apperrors.ErrVideoNotFound
	default:
		return video, fmt.Errorf("db error: %w", err)
	}
}

func collectVideosWithOwner(rows pgx.Rows) ([]models.VideoWithOwner, error) {
	videos, err := pgx.CollectRows(rows, rowToVideoWithOwner)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return videos, nil
}
