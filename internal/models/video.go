package models

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	VideoFileID string    `json:"-"`
	Thumbnail   string    `json:"thumbnail"`
	ThumbnailID string    `json:"-"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
}

// VideoWithOwner joins the owner projection used in listings
type VideoWithOwner struct {
	Video
	Owner VideoOwner `json:"owner"`
}

type VideoOwner struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Avatar   string    `json:"avatar"`
}
