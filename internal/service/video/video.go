// Package video manages publishing and maintaining videos.
package video

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

const defaultListLimit = 20

type UploadFile struct {
	Content     io.Reader
	Filename    string
	ContentType string
}

type PublishParams struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Duration    float64
	VideoFile   UploadFile
	Thumbnail   UploadFile
}

type UpdateParams struct {
	Title       *string
	Description *string
	Thumbnail   *UploadFile
}

type VideoService struct {
	videoRepo repository.VideoRepo
	uploader  media.Uploader
	logger    logger.Logger
}

func NewService(videoRepo repository.VideoRepo, uploader media.Uploader, log logger.Logger) (*VideoService, error) {
	if videoRepo == nil || uploader == nil {
		return nil, errors.New("video repo and uploader must not be nil")
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &VideoService{
		videoRepo: videoRepo,
		uploader:  uploader,
		logger:    log,
	}, nil
}

// Publish uploads the video file and thumbnail, then creates the record.
// Upload failure aborts with no record created.
func (s *VideoService) Publish(ctx context.Context, arg PublishParams) (models.Video, error) {
	var video models.Video

	file, err := s.uploader.Upload(ctx, arg.VideoFile.Content, arg.VideoFile.Filename, arg.VideoFile.ContentType)
	if err != nil {
		return video, fmt.Errorf("%w: video file: %w", apperrors.ErrUploadFailed, err)
	}

	thumb, err := s.uploader.Upload(ctx, arg.Thumbnail.Content, arg.Thumbnail.Filename, arg.Thumbnail.ContentType)
	if err != nil {
		// Orphaned video blob, try to reclaim it
		if delErr := s.uploader.Delete(ctx, file.FileID); delErr != nil {
			s.logger.Warn("orphaned video file left in storage", "file_id", file.FileID, "error", delErr.Error())
		}
		return video, fmt.Errorf("%w: thumbnail: %w", apperrors.ErrUploadFailed, err)
	}

	return s.videoRepo.CreateVideo(ctx, repository.CreateVideoParams{
		OwnerID:     arg.OwnerID,
		Title:       arg.Title,
		Description: arg.Description,
		VideoFile:   file.URL,
		VideoFileID: file.FileID,
		Thumbnail:   thumb.URL,
		ThumbnailID: thumb.FileID,
		Duration:    arg.Duration,
	})
}

// Get returns the video and counts the view
func (s *VideoService) Get(ctx context.Context, videoID uuid.UUID) (models.VideoWithOwner, error) {
	video, err := s.videoRepo.GetVideoByID(ctx, videoID)
	if err != nil {
		return video, err
	}

	if err := s.videoRepo.IncrementViews(ctx, videoID); err != nil {
		// A lost view is not worth failing the request
		s.logger.Warn("failed to count view", "video_id", videoID, "error", err.Error())
	} else {
		video.Views++
	}

	return video, nil
}

func (s *VideoService) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.VideoWithOwner, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.videoRepo.ListVideosByOwner(ctx, ownerID, limit)
}

func (s *VideoService) Search(ctx context.Context, query string, limit int) ([]models.VideoWithOwner, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.videoRepo.SearchVideos(ctx, query, limit)
}

// Update edits title/description and optionally replaces the thumbnail,
// deleting the old thumbnail blob. Only the owner may update.
func (s *VideoService) Update(ctx context.Context, requesterID uuid.UUID, videoID uuid.UUID, arg UpdateParams) (models.Video, error) {
	current, err := s.videoRepo.GetVideoByID(ctx, videoID)
	if err != nil {
		return models.Video{}, err
	}
	if current.OwnerID != requesterID {
		return models.Video{}, apperrors.ErrNotOwner
	}

	params := repository.UpdateVideoParams{
		Title:       arg.Title,
		Description: arg.Description,
	}

	if arg.Thumbnail != nil {
		thumb, err := s.uploader.Upload(ctx, arg.Thumbnail.Content, arg.Thumbnail.Filename, arg.Thumbnail.ContentType)
		if err != nil {
			return models.Video{}, fmt.Errorf("%w: thumbnail: %w", apperrors.ErrUploadFailed, err)
		}
		if current.ThumbnailID != "" {
			if err := s.uploader.Delete(ctx, current.ThumbnailID); err != nil {
				s.logger.Warn("failed to delete old thumbnail", "file_id", current.ThumbnailID, "error", err.Error())
			}
		}
		params.Thumbnail, params.ThumbnailID = &thumb.URL, &thumb.FileID
	}

	return s.videoRepo.UpdateVideo(ctx, videoID, params)
}

// Delete removes the record and both blobs. Only the owner may delete.
func (s *VideoService) Delete(ctx context.Context, requesterID uuid.UUID, videoID uuid.UUID) error {
	current, err := s.videoRepo.GetVideoByID(ctx, videoID)
	if err != nil {
		return err
	}
	if current.OwnerID != requesterID {
		return apperrors.ErrNotOwner
	}

	if err := s.videoRepo.DeleteVideo(ctx, videoID); err != nil {
		return err
	}

	for _, fileID := range []string{current.VideoFileID, current.ThumbnailID} {
		if fileID == "" {
			continue
		}
		if err := s.uploader.Delete(ctx, fileID); err != nil {
			s.logger.Warn("failed to delete media blob", "file_id", fileID, "error", err.Error())
		}
	}

	return nil
}

func (s *VideoService) TogglePublish(ctx context.Context, requesterID uuid.UUID, videoID uuid.UUID) (models.Video, error) {
	current, err := s.videoRepo.GetVideoByID(ctx, videoID)
	if err != nil {
		return models.Video{}, err
	}
	if current.OwnerID != requesterID {
		return models.Video{}, apperrors.ErrNotOwner
	}

	return s.videoRepo.TogglePublish(ctx, videoID)
}
