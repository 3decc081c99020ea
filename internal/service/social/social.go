// Package social bundles the interaction features around videos:
// comments, likes, playlists, community posts and subscriptions.
package social

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/BRajendra10/yotube-backend/internal/apperrors"
	"github.com/BRajendra10/yotube-backend/internal/models"
	"github.com/BRajendra10/yotube-backend/internal/repository"
)

const defaultCommentsLimit = 50

type SocialService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) (*SocialService, error) {
	if storage == nil {
		return nil, errors.New("storage must not be nil")
	}
	return &SocialService{storage: storage}, nil
}

// Comments

func (s *SocialService) AddComment(ctx context.Context, userID uuid.UUID, videoID uuid.UUID, content string) (models.Comment, error) {
	return s.storage.Comment().CreateComment(ctx, videoID, userID, content)
}

func (s *SocialService) ListComments(ctx context.Context, videoID uuid.UUID, limit int) ([]models.CommentWithOwner, error) {
	if limit <= 0 {
		limit = defaultCommentsLimit
	}
	return s.storage.Comment().ListComments(ctx, videoID, limit)
}

func (s *SocialService) EditComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID, content string) (models.Comment, error) {
	comment, err := s.storage.Comment().GetCommentByID(ctx, commentID)
	if err != nil {
		return comment, err
	}
	if comment.OwnerID != userID {
		return comment, apperrors.ErrNotOwner
	}

	return s.storage.Comment().UpdateComment(ctx, commentID, content)
}

func (s *SocialService) DeleteComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID) error {
	comment, err := s.storage.Comment().GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.OwnerID != userID {
		return apperrors.ErrNotOwner
	}

	return s.storage.Comment().DeleteComment(ctx, commentID)
}

// Likes

func (s *SocialService) ToggleLike(ctx context.Context, userID uuid.UUID, target models.LikeTarget, targetID uuid.UUID) (bool, int64, error) {
	return s.storage.Like().ToggleLike(ctx, userID, target, targetID)
}

func (s *SocialService) LikedVideos(ctx context.Context, userID uuid.UUID) ([]models.VideoWithOwner, error) {
	return s.storage.Like().ListLikedVideos(ctx, userID)
}

// Playlists

func (s *SocialService) CreatePlaylist(ctx context.Context, userID uuid.UUID, name string, description string) (models.Playlist, error) {
	return s.storage.Playlist().CreatePlaylist(ctx, userID, name, description)
}

func (s *SocialService) GetPlaylist(ctx context.Context, playlistID uuid.UUID) (models.PlaylistWithVideos, error) {
	return s.storage.Playlist().GetPlaylistByID(ctx, playlistID)
}

func (s *SocialService) ListPlaylists(ctx context.Context, ownerID uuid.UUID) ([]models.Playlist, error) {
	return s.storage.Playlist().ListPlaylistsByOwner(ctx, ownerID)
}

func (s *SocialService) AddPlaylistVideo(ctx context.Context, userID uuid.UUID, playlistID uuid.UUID, videoID uuid.UUID) error {
	if err := s.requirePlaylistOwner(ctx, userID, playlistID); err != nil {
		return err
	}
	return s.storage.Playlist().AddVideo(ctx, playlistID, videoID)
}

func (s *SocialService) RemovePlaylistVideo(ctx context.Context, userID uuid.UUID, playlistID uuid.UUID, videoID uuid.UUID) error {
	if err := s.requirePlaylistOwner(ctx, userID, playlistID); err != nil {
		return err
	}
	return s.storage.Playlist().RemoveVideo(ctx, playlistID, videoID)
}

func (s *SocialService) DeletePlaylist(ctx context.Context, userID uuid.UUID, playlistID uuid.UUID) error {
	if err := s.requirePlaylistOwner(ctx, userID, playlistID); err != nil {
		return err
	}
	return s.storage.Playlist().DeletePlaylist(ctx, playlistID)
}

func (s *SocialService) requirePlaylistOwner(ctx context.Context, userID uuid.UUID, playlistID uuid.UUID) error {
	playlist, err := s.storage.Playlist().GetPlaylistByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if playlist.OwnerID != userID {
		return apperrors.ErrNotOwner
	}
	return nil
}

// Posts

func (s *SocialService) CreatePost(ctx context.Context, userID uuid.UUID, content string) (models.Post, error) {
	return s.storage.Post().CreatePost(ctx, userID, content)
}

func (s *SocialService) ListPosts(ctx context.Context, ownerID uuid.UUID) ([]models.Post, error) {
	return s.storage.Post().ListPostsByOwner(ctx, ownerID)
}

func (s *SocialService) EditPost(ctx context.Context, userID uuid.UUID, postID uuid.UUID, content string) (models.Post, error) {
	post, err := s.storage.Post().GetPostByID(ctx, postID)
	if err != nil {
		return post, err
	}
	if post.OwnerID != userID {
		return post, apperrors.ErrNotOwner
	}

	return s.storage.Post().UpdatePost(ctx, postID, content)
}

func (s *SocialService) DeletePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error {
	post, err := s.storage.Post().GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.OwnerID != userID {
		return apperrors.ErrNotOwner
	}

	return s.storage.Post().DeletePost(ctx, postID)
}

// Subscriptions

func (s *SocialService) ToggleSubscription(ctx context.Context, userID uuid.UUID, channelID uuid.UUID) (bool, int64, error) {
	if userID == channelID {
		return false, 0, apperrors.ErrChannelNotFound
	}
	return s.storage.Subscription().ToggleSubscription(ctx, userID, channelID)
}

func (s *SocialService) Subscribers(ctx context.Context, channelID uuid.UUID) ([]models.PublicUser, error) {
	return s.storage.Subscription().ListSubscribers(ctx, channelID)
}

func (s *SocialService) SubscribedChannels(ctx context.Context, userID uuid.UUID) ([]models.PublicUser, error) {
	return s.storage.Subscription().ListSubscribedChannels(ctx, userID)
}
