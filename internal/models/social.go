package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	VideoID   uuid.UUID `json:"videoId"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Content   string    `json:"content"`
}

type CommentWithOwner struct {
	Comment
	Owner VideoOwner `json:"owner"`
}

// LikeTarget names the kind of entity a like points at
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetPost    LikeTarget = "post"
)

type Like struct {
	ID        uuid.UUID  `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	OwnerID   uuid.UUID  `json:"ownerId"`
	Target    LikeTarget `json:"target"`
	TargetID  uuid.UUID  `json:"targetId"`
}

type Playlist struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

type PlaylistWithVideos struct {
	Playlist
	Videos []Video `json:"videos"`
}

type Post struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Content   string    `json:"content"`
}

type Subscription struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	SubscriberID uuid.UUID `json:"subscriberId"`
	ChannelID    uuid.UUID `json:"channelId"`
}

type WatchHistoryEntry struct {
	WatchedAt time.Time      `json:"watchedAt"`
	Video     VideoWithOwner `json:"video"`
}
