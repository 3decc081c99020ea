// Package user covers profile maintenance, channel pages and watch history.
package user

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/BRajendra10/yotube-backend/internal/apperrors"
	"github.com/BRajendra10/yotube-backend/internal/logger"
	"github.com/BRajendra10/yotube-backend/internal/media"
	"github.com/BRajendra10/yotube-backend/internal/models"
	"github.com/BRajendra10/yotube-backend/internal/repository"
)

type UploadFile struct {
	Content     io.Reader
	Filename    string
	ContentType string
}

type UpdateProfileParams struct {
	FullName string
	Avatar   *UploadFile
	Cover    *UploadFile
}

type UserService struct {
	userRepo repository.UserRepo
	uploader media.Uploader
	logger   logger.Logger
}

func NewService(userRepo repository.UserRepo, uploader media.Uploader, log logger.Logger) (*UserService, error) {
	if userRepo == nil || uploader == nil {
		return nil, errors.New("user repo and uploader must not be nil")
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &UserService{
		userRepo: userRepo,
		uploader: uploader,
		logger:   log,
	}, nil
}

// UpdateProfile changes the full name and optionally replaces avatar or
// cover image, removing the previous blobs.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, arg UpdateProfileParams) (models.User, error) {
	current, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return current, err
	}

	params := repository.UpdateProfileParams{FullName: arg.FullName}

	replace := func(file *UploadFile, oldID string, kind string) (*string, *string, error) {
		if file == nil {
			return nil, nil, nil
		}
		obj, err := s.uploader.Upload(ctx, file.Content, file.Filename, file.ContentType)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %w", apperrors.ErrUploadFailed, kind, err)
		}
		if oldID != "" {
			if err := s.uploader.Delete(ctx, oldID); err != nil {
				s.logger.Warn("failed to delete old media blob", "file_id", oldID, "error", err.Error())
			}
		}
		return &obj.URL, &obj.FileID, nil
	}

	if params.Avatar, params.AvatarID, err = replace(arg.Avatar, current.AvatarID, "avatar"); err != nil {
		return current, err
	}
	if params.CoverImage, params.CoverID, err = replace(arg.Cover, current.CoverID, "cover image"); err != nil {
		return current, err
	}

	return s.userRepo.UpdateProfile(ctx, userID, params)
}

// ChannelProfile builds the public channel page. Viewer may be nil for
// anonymous requests: IsSubscribed comes back false then.
func (s *UserService) ChannelProfile(ctx context.Context, username string, viewerID *uuid.UUID) (models.ChannelProfile, error) {
	return s.userRepo.GetChannelProfile(ctx, username, viewerID)
}

func (s *UserService) AddToWatchHistory(ctx context.Context, userID uuid.UUID, videoID uuid.UUID) error {
	return s.userRepo.AddToWatchHistory(ctx, userID, videoID)
}

func (s *UserService) WatchHistory(ctx context.Context, userID uuid.UUID) ([]models.WatchHistoryEntry, error) {
	return s.userRepo.GetWatchHistory(ctx, userID)
}
