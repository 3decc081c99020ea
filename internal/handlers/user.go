package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/BRajendra10/yotube-backend/internal/handlers/render"
	"github.com/BRajendra10/yotube-backend/internal/handlers/userctx"
	"github.com/BRajendra10/yotube-backend/internal/logger"
	"github.com/BRajendra10/yotube-backend/internal/models"
	"github.com/BRajendra10/yotube-backend/internal/service/user"
)

type userService interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, arg user.UpdateProfileParams) (models.User, error)
	ChannelProfile(ctx context.Context, username string, viewerID *uuid.UUID) (models.ChannelProfile, error)
	AddToWatchHistory(ctx context.Context, userID uuid.UUID, videoID uuid.UUID) error
	WatchHistory(ctx context.Context, userID uuid.UUID) ([]models.WatchHistoryEntry, error)
}

type UserHandler struct {
	users  userService
	logger logger.Logger
}

func NewUserHandler(us userService, l logger.Logger) *UserHandler {
	if l == nil {
		l = logger.NewNoOpLogger()
	}
	return &UserHandler{users: us, logger: l}
}

type updateProfileForm struct {
	FullName string `json:"fullName" validate:"required,min=1,max=100"`
}

// UpdateProfile changes account details from a multipart form. Avatar and
// cover image parts replace the stored images when present.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
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

	form := updateProfileForm{FullName: r.FormValue("fullName")}
	if !validateForm(w, form) {
		return
	}

	params := user.UpdateProfileParams{FullName: form.FullName}

	avatar, ok := formFile(w, r, "avatar")
	if !ok {
		return
	}
	if avatar != nil {
		defer avatar.Close()
		params.Avatar = &user.UploadFile{Content: avatar.file, Filename: avatar.filename, ContentType: avatar.ctype}
	}

	cover, ok := formFile(w, r, "coverImage")
	if !ok {
		return
	}
	if cover != nil {
		defer cover.Close()
		params.Cover = &user.UploadFile{Content: cover.file, Filename: cover.filename, ContentType: cover.ctype}
	}

	updated, err := h.users.UpdateProfile(r.Context(), me.ID, params)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, updated.Public(), "Profile updated")
}

// ChannelProfile serves a public channel page. When the viewer is signed
// in the response also reports whether they are subscribed.
func (h *UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		render.Error(w, http.StatusBadRequest, "Username is required")
		return
	}

	var viewerID *uuid.UUID
	if viewer, ok := userctx.FromContext(r.Context()); ok {
		viewerID = &viewer.ID
	}

	profile, err := h.users.ChannelProfile(r.Context(), username, viewerID)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, profile, "Channel profile")
}

// AddToWatchHistory records that the signed-in user watched a video
func (h *UserHandler) AddToWatchHistory(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	videoID, ok := pathUUID(w, r, "videoID")
	if !ok {
		return
	}

	if err := h.users.AddToWatchHistory(r.Context(), me.ID, videoID); err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, nil, "Added to watch history")
}

func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	entries, err := h.users.WatchHistory(r.Context(), me.ID)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, entries, "Watch history")
}
