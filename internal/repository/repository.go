package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BRajendra10/yotube-backend/internal/models"
)

type CreateUserParams struct {
	FullName     string
	Username     string
	Email        string
	PasswordHash string
	Avatar       string
	AvatarID     string
	CoverImage   string
	CoverID      string
}

type UpdateProfileParams struct {
	FullName   string
	Avatar     *string
	AvatarID   *string
	CoverImage *string
	CoverID    *string
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with username or email exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by id, by exact username/email, or by either (login identifier)
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByLogin(ctx context.Context, identifier string) (models.User, error)

	// Store hash+expiry of a pending verification code, replacing any previous one
	SetVerificationCode(ctx context.Context, userID uuid.UUID, codeHash string, expiresAt time.Time) error

	// Clear verification fields and mark the email verified
	MarkEmailVerified(ctx context.Context, userID uuid.UUID) error

	// Overwrite the single refresh token slot. Nil clears it (logout).
	// Last write wins: a login elsewhere silently invalidates other sessions.
	SetRefreshToken(ctx context.Context, userID uuid.UUID, token *string) error

	// Compare-and-swap the refresh token slot. Returns apperrors.ErrTokenReused
	// if the stored value no longer equals old, so concurrent rotations
	// cannot both succeed.
	SwapRefreshToken(ctx context.Context, userID uuid.UUID, old string, new string) error

	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, arg UpdateProfileParams) (models.User, error)

	// Channel page: user plus subscriber counts. Viewer may be nil (anonymous).
	GetChannelProfile(ctx context.Context, username string, viewerID *uuid.UUID) (models.ChannelProfile, error)

	AddToWatchHistory(ctx context.Context, userID uuid.UUID, videoID uuid.UUID) error
	GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]models.WatchHistoryEntry, error)
}

type CreateVideoParams struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	VideoFile   string
	VideoFileID string
	Thumbnail   string
	ThumbnailID string
	Duration    float64
}

type UpdateVideoParams struct {
	Title       *string
	Description *string
	Thumbnail   *string
	ThumbnailID *string
}

type VideoRepo interface {
	CreateVideo(ctx context.Context, arg CreateVideoParams) (models.Video, error)

	// Returns apperrors.ErrVideoNotFound if absent
	GetVideoByID(ctx context.Context, videoID uuid.UUID) (models.VideoWithOwner, error)
	ListVideosByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.VideoWithOwner, error)
	SearchVideos(ctx context.Context, query string, limit int) ([]models.VideoWithOwner, error)

	UpdateVideo(ctx context.Context, videoID uuid.UUID, arg UpdateVideoParams) (models.Video, error)
	DeleteVideo(ctx context.Context, videoID uuid.UUID) error
	TogglePublish(ctx context.Context, videoID uuid.UUID) (models.Video, error)
	IncrementViews(ctx context.Context, videoID uuid.UUID) error
}

type CommentRepo interface {
	CreateComment(ctx context.Context, videoID uuid.UUID, ownerID uuid.UUID, content string) (models.Comment, error)
	GetCommentByID(ctx context.Context, commentID uuid.UUID) (models.Comment, error)
	ListComments(ctx context.Context, videoID uuid.UUID, limit int) ([]models.CommentWithOwner, error)
	UpdateComment(ctx context.Context, commentID uuid.UUID, content string) (models.Comment, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID) error
}

type LikeRepo interface {
	// Insert the like if absent, delete it if present.
	// Returns the resulting state and the new like count for the target.
	ToggleLike(ctx context.Context, ownerID uuid.UUID, target models.LikeTarget, targetID uuid.UUID) (liked bool, count int64, err error)
	ListLikedVideos(ctx context.Context, ownerID uuid.UUID) ([]models.VideoWithOwner, error)
}

type PlaylistRepo interface {
	CreatePlaylist(ctx context.Context, ownerID uuid.UUID, name string, description string) (models.Playlist, error)
	GetPlaylistByID(ctx context.Context, playlistID uuid.UUID) (models.PlaylistWithVideos, error)
	ListPlaylistsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Playlist, error)
	AddVideo(ctx context.Context, playlistID uuid.UUID, videoID uuid.UUID) error
	RemoveVideo(ctx context.Context, playlistID uuid.UUID, videoID uuid.UUID) error
	DeletePlaylist(ctx context.Context, playlistID uuid.UUID) error
}

type PostRepo interface {
	CreatePost(ctx context.Context, ownerID uuid.UUID, content string) (models.Post, error)
	GetPostByID(ctx context.Context, postID uuid.UUID) (models.Post, error)
	ListPostsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Post, error)
	UpdatePost(ctx context.Context, postID uuid.UUID, content string) (models.Post, error)
	DeletePost(ctx context.Context, postID uuid.UUID) error
}

type SubscriptionRepo interface {
	// Insert the subscription if absent, delete it if present.
	ToggleSubscription(ctx context.Context, subscriberID uuid.UUID, channelID uuid.UUID) (subscribed bool, count int64, err error)
	ListSubscribers(ctx context.Context, channelID uuid.UUID) ([]models.PublicUser, error)
	ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]models.PublicUser, error)
}

// Storage aggregates all repositories backed by a single store
type Storage interface {
	User() UserRepo
	Video() VideoRepo
	Comment() CommentRepo
	Like() LikeRepo
	Playlist() PlaylistRepo
	Post() PostRepo
	Subscription() SubscriptionRepo

	// Run fn within a db transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}
