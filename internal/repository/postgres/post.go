package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/BRajendra10/yotube-backend/internal/apperrors"
	"github.com/BRajendra10/yotube-backend/internal/models"
)

type PostRepo struct {
	DB DBTX
}

const createPost = `-- name: CreatePost
INSERT INTO posts (id, owner_id, content)
VALUES ($1, $2, $3)
RETURNING id, created_at, owner_id, content
`

func (r *PostRepo) CreatePost(ctx context.Context, ownerID uuid.UUID, content string) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, createPost, uuid.New(), ownerID, content)
	return collectPost(rows)
}

const getPostByID = `-- name: GetPostByID
SELECT id, created_at, owner_id, content
FROM posts
WHERE id = $1
`

func (r *PostRepo) GetPostByID(ctx context.Context, postID uuid.UUID) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, getPostByID, postID)
	return collectPost(rows)
}

const listPostsByOwner = `-- name: ListPostsByOwner
SELECT id, created_at, owner_id, content
FROM posts
WHERE owner_id = $1
ORDER BY created_at DESC
`

func (r *PostRepo) ListPostsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Post, error) {
	rows, _ := r.DB.Query(ctx, listPostsByOwner, ownerID)
	posts, err := pgx.CollectRows(rows, rowToPost)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return posts, nil
}

const updatePost = `-- name: UpdatePost
UPDATE posts
SET content = $2
WHERE id = $1
RETURNING id, created_at, owner_id, content
`

func (r *PostRepo) UpdatePost(ctx context.Context, postID uuid.UUID, content string) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, updatePost, postID, content)
	return collectPost(rows)
}

const deletePost = `-- name: DeletePost
DELETE FROM posts WHERE id = $1
`

func (r *PostRepo) DeletePost(ctx context.Context, postID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deletePost, postID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}

func rowToPost(row pgx.CollectableRow) (models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.CreatedAt, &p.OwnerID, &p.Content)
	return p, err
}

func collectPost(rows pgx.Rows) (models.Post, error) {
	post, err := pgx.CollectOneRow(rows, rowToPost)

	switch {
	case err == nil:
		return post, nil
	case errors.Is(err, pgx.ErrNoRows):
		return post, apperrors.ErrPostNotFound
	default:
		return post, fmt.Errorf("db error: %w", err)
	}
}
