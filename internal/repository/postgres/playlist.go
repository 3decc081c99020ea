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

type PlaylistRepo struct {
	DB DBTX
}

const createPlaylist = `-- name: CreatePlaylist
INSERT INTO playlists (id, owner_id, name, description)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, owner_id, name, description
`

func (r *PlaylistRepo) CreatePlaylist(ctx context.Context, ownerID uuid.UUID, name string, description string) (models.Playlist, error) {
	rows, _ := r.DB.Query(ctx, createPlaylist, uuid.New(), ownerID, name, description)
	return collectPlaylist(rows)
}

const getPlaylist = `-- name: GetPlaylist
SELECT id, created_at, owner_id, name, description
FROM playlists
WHERE id = $1
`

const getPlaylistVideos = `-- name: GetPlaylistVideos
SELECT v.id, v.created_at, v.owner_id, v.title, v.description,
       v.video_file, v.video_file_id, v.thumbnail, v.thumbnail_id, v.duration, v.views, v.is_published
FROM playlist_videos pv
JOIN videos v ON v.id = pv.video_id
WHERE pv.playlist_id = $1
ORDER BY pv.added_at
`

func (r *PlaylistRepo) GetPlaylistByID(ctx context.Context, playlistID uuid.UUID) (models.PlaylistWithVideos, error) {
	var result models.PlaylistWithVideos

	rows, _ := r.DB.Query(ctx, getPlaylist, playlistID)
	playlist, err := collectPlaylist(rows)
	if err != nil {
		return result, err
	}

	rows, _ = r.DB.Query(ctx, getPlaylistVideos, playlistID)
	videos, err := pgx.CollectRows(rows, rowToVideo)
	if err != nil {
		return result, fmt.Errorf("db error: %w", err)
	}

	result.Playlist = playlist
	result.Videos = videos
	return result, nil
}

const listPlaylistsByOwner = `-- name: ListPlaylistsByOwner
SELECT id, created_at, owner_id, name, description
FROM playlists
WHERE owner_id = $1
ORDER BY created_at DESC
`

func (r *PlaylistRepo) ListPlaylistsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Playlist, error) {
	rows, _ := r.DB.Query(ctx, listPlaylistsByOwner, ownerID)
	playlists, err := pgx.CollectRows(rows, rowToPlaylist)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return playlists, nil
}

const addPlaylistVideo = `-- name: AddPlaylistVideo
INSERT INTO playlist_videos (playlist_id, video_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`

func (r *PlaylistRepo) AddVideo(ctx context.Context, playlistID uuid.UUID, videoID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, addPlaylistVideo, playlistID, videoID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return apperrors.ErrVideoNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const removePlaylistVideo = `-- name: RemovePlaylistVideo
DELETE FROM playlist_videos
WHERE playlist_id = $1 AND video_id = $2
`

func (r *PlaylistRepo) RemoveVideo(ctx context.Context, playlistID uuid.UUID, videoID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, removePlaylistVideo, playlistID, videoID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const deletePlaylist = `-- name: DeletePlaylist
DELETE FROM playlists WHERE id = $1
`

func (r *PlaylistRepo) DeletePlaylist(ctx context.Context, playlistID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deletePlaylist, playlistID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPlaylistNotFound
	}
	return nil
}

func rowToPlaylist(row pgx.CollectableRow) (models.Playlist, error) {
	var p models.Playlist
	err := row.Scan(&p.ID, &p.CreatedAt, &p.OwnerID, &p.Name, &p.Description)
	return p, err
}

func collectPlaylist(rows pgx.Rows) (models.Playlist, error) {
	playlist, err := pgx.CollectOneRow(rows, rowToPlaylist)

	switch {
	case err == nil:
		return playlist, nil
	case errors.Is(err, pgx.ErrNoRows):
		return playlist, apperrors.ErrPlaylistNotFound
	default:
		return playlist, fmt.Errorf("db error: %w", err)
	}
}
