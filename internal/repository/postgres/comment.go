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

type CommentRepo struct {
	DB DBTX
}

const createComment = `-- name: CreateComment
INSERT INTO comments (id, video_id, owner_id, content)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, video_id, owner_id, content
`

func (r *CommentRepo) CreateComment(ctx context.Context, videoID uuid.UUID, ownerID uuid.UUID, content string) (models.Comment, error) {
	rows, _ := r.DB.Query(ctx, createComment, uuid.New(), videoID, ownerID, content)
	comment, err := pgx.CollectOneRow(rows, rowToComment)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return comment, apperrors.ErrVideoNotFound
		}
		return comment, fmt.Errorf("db error: %w", err)
	}

	return comment, nil
}

const getCommentByID = `-- name: GetCommentByID
SELECT id, created_at, video_id, owner_id, content
FROM comments
WHERE id = $1
`

func (r *CommentRepo) GetCommentByID(ctx context.Context, commentID uuid.UUID) (models.Comment, error) {
	rows, _ := r.DB.Query(ctx, getCommentByID, commentID)
	return collectComment(rows)
}

const listComments = `-- name: ListComments
SELECT c.id, c.created_at, c.video_id, c.owner_id, c.content,
       o.id, o.username, o.full_name, o.avatar
FROM comments c
JOIN users o ON o.id = c.owner_id
WHERE c.video_id = $1
ORDER BY c.created_at DESC
LIMIT $2
`

func (r *CommentRepo) ListComments(ctx context.Context, videoID uuid.UUID, limit int) ([]models.CommentWithOwner, error) {
	rows, _ := r.DB.Query(ctx, listComments, videoID, limit)
	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CommentWithOwner, error) {
		var c models.CommentWithOwner
		err := row.Scan(
			&c.ID, &c.CreatedAt, &c.VideoID, &c.OwnerID, &c.Content,
			&c.Owner.ID, &c.Owner.Username, &c.Owner.FullName, &c.Owner.Avatar,
		)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comments, nil
}

const updateComment = `-- name: UpdateComment
UPDATE comments
SET content = $2
WHERE id = $1
RETURNING id, created_at, video_id, owner_id, content
`

func (r *CommentRepo) UpdateComment(ctx context.Context, commentID uuid.UUID, content string) (models.Comment, error) {
	rows, _ := r.DB.Query(ctx, updateComment, commentID, content)
	return collectComment(rows)
}

const deleteComment = `-- name: DeleteComment
DELETE FROM comments WHERE id = $1
`

func (r *CommentRepo) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteComment, commentID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}
	return nil
}

func rowToComment(row pgx.CollectableRow) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.CreatedAt, &c.VideoID, &c.OwnerID, &c.Content)
	return c, err
}

func collectComment(rows pgx.Rows) (models.Comment, error) {
	comment, err := pgx.CollectOneRow(rows, rowToComment)

	switch {
	case err == nil:
		return comment, nil
	case errors.Is(err, pgx.ErrNoRows):
		return comment, apperrors.ErrCommentNotFound
	default:
		return comment, fmt.Errorf("db error: %w", err)
	}
}
