package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/BRajendra10/yotube-backend/internal/models"
)

type LikeRepo struct {
	DB DBTX
}

const deleteLike = `-- name: DeleteLike
DELETE FROM likes
WHERE owner_id = $1 AND target = $2 AND target_id = $3
`

const insertLike = `-- name: InsertLike
INSERT INTO likes (id, owner_id, target, target_id)
VALUES ($1, $2, $3, $4)
`

const countLikes = `-- name: CountLikes
SELECT count(*) FROM likes WHERE target = $1 AND target_id = $2
`

// ToggleLike deletes the like if present, inserts it otherwise.
// Delete-then-insert keeps the toggle race-free under the unique constraint.
func (r *LikeRepo) ToggleLike(ctx context.Context, ownerID uuid.UUID, target models.LikeTarget, targetID uuid.UUID) (bool, int64, error) {
	tag, err := r.DB.Exec(ctx, deleteLike, ownerID, target, targetID)
	if err != nil {
		return false, 0, fmt.Errorf("db error: %w", err)
	}

	liked := false
	if tag.RowsAffected() == 0 {
		if _, err := r.DB.Exec(ctx, insertLike, uuid.New(), ownerID, target, targetID); err != nil {
			return false, 0, fmt.Errorf("db error: %w", err)
		}
		liked = true
	}

	var count int64
	if err := r.DB.QueryRow(ctx, countLikes, target, targetID).Scan(&count); err != nil {
		return liked, 0, fmt.Errorf("db error: %w", err)
	}

	return liked, count, nil
}

const listLikedVideos = `-- name: ListLikedVideos
SELECT ` + videoOwnerColumns + `
FROM likes l
JOIN videos v ON v.id = l.target_id
JOIN users o ON o.id = v.owner_id
WHERE l.owner_id = $1 AND l.target = 'video'
ORDER BY l.created_at DESC
`

func (r *LikeRepo) ListLikedVideos(ctx context.Context, ownerID uuid.UUID) ([]models.VideoWithOwner, error) {
	rows, _ := r.DB.Query(ctx, listLikedVideos, ownerID)
	return collectVideosWithOwner(rows)
}
