package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/BRajendra10/yotube-backend/internal/handlers/render"
	"github.com/BRajendra10/yotube-backend/internal/handlers/userctx"
	"github.com/BRajendra10/yotube-backend/internal/logger"
	"github.com/BRajendra10/yotube-backend/internal/models"
	"github.com/BRajendra10/yotube-backend/internal/service/video"
)

type videoService interface {
	Publish(ctx context.Context, arg video.PublishParams) (models.Video, error)
	Get(ctx context.Context, videoID uuid.UUID) (models.VideoWithOwner, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.VideoWithOwner, error)
	Search(ctx context.Context, query string, limit int) ([]models.VideoWithOwner, error)
	Update(ctx context.Context, requesterID uuid.UUID, videoID uuid.UUID, arg video.UpdateParams) (models.Video, error)
	Delete(ctx context.Context, requesterID uuid.UUID, videoID uuid.UUID) error
	TogglePublish(ctx context.Context, requesterID uuid.UUID, videoID uuid.UUID) (models.Video, error)
}

type VideoHandler struct {
	videos videoService
	logger logger.Logger
}

func NewVideoHandler(vs videoService, l logger.Logger) *VideoHandler {
	if l == nil {
		l = logger.NewNoOpLogger()
	}
	return &VideoHandler{videos: vs, logger: l}
}

type publishForm struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Duration    float64 `json:"duration" validate:"gte=0"`
}

// Publish uploads a video file with its thumbnail and creates the record
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		render.Error(w, http.StatusBadRequest, "Expected multipart/form-data body")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)
	form := publishForm{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Duration:    duration,
	}
	if !validateForm(w, form) {
		return
	}

	videoFile, ok := requiredFormFile(w, r, "videoFile")
	if !ok {
		return
	}
	defer videoFile.Close()

	thumbnail, ok := requiredFormFile(w, r, "thumbnail")
	if !ok {
		return
	}
	defer thumbnail.Close()

	published, err := h.videos.Publish(r.Context(), video.PublishParams{
		OwnerID:     me.ID,
		Title:       form.Title,
		Description: form.Description,
		Duration:    form.Duration,
		VideoFile:   video.UploadFile{Content: videoFile.file, Filename: videoFile.filename, ContentType: videoFile.ctype},
		Thumbnail:   video.UploadFile{Content: thumbnail.file, Filename: thumbnail.filename, ContentType: thumbnail.ctype},
	})
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusCreated, published, "Video published")
}

// Get serves one video with its owner, counting the view
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathUUID(w, r, "videoID")
	if !ok {
		return
	}

	found, err := h.videos.Get(r.Context(), videoID)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, found, "Video")
}

// List serves videos filtered by owner or full-text query
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	if raw := r.URL.Query().Get("userId"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			render.Error(w, http.StatusBadRequest, "Invalid userId query parameter")
			return
		}

		videos, err := h.videos.ListByOwner(r.Context(), ownerID, limit)
		if err != nil {
			serviceError(w, h.logger, err)
			return
		}
		render.Data(w, http.StatusOK, videos, "Videos")
		return
	}

	videos, err := h.videos.Search(r.Context(), r.URL.Query().Get("query"), limit)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}
	render.Data(w, http.StatusOK, videos, "Videos")
}

type updateVideoRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
}

// Update edits title or description. Thumbnail replacement goes through
// the multipart variant because it carries a file.
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	videoID, ok := pathUUID(w, r, "videoID")
	if !ok {
		return
	}

	params := video.UpdateParams{}

	// Multipart means the client may be replacing the thumbnail too
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			render.Error(w, http.StatusBadRequest, "Malformed multipart body")
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		if title := r.FormValue("title"); title != "" {
			params.Title = &title
		}
		if description := r.FormValue("description"); description != "" {
			params.Description = &description
		}

		thumbnail, ok := formFile(w, r, "thumbnail")
		if !ok {
			return
		}
		if thumbnail != nil {
			defer thumbnail.Close()
			params.Thumbnail = &video.UploadFile{Content: thumbnail.file, Filename: thumbnail.filename, ContentType: thumbnail.ctype}
		}
	} else {
		req, err := render.BindAndValidate[updateVideoRequest](w, r)
		if err != nil {
			return
		}
		params.Title = req.Title
		params.Description = req.Description
	}

	updated, err := h.videos.Update(r.Context(), me.ID, videoID, params)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, updated, "Video updated")
}

func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	videoID, ok := pathUUID(w, r, "videoID")
	if !ok {
		return
	}

	if err := h.videos.Delete(r.Context(), me.ID, videoID); err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, nil, "Video deleted")
}

func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	videoID, ok := pathUUID(w, r, "videoID")
	if !ok {
		return
	}

	toggled, err := h.videos.TogglePublish(r.Context(), me.ID, videoID)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, toggled, "Publish state toggled")
}
