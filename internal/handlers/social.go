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
)

type socialService interface {
	AddComment(ctx context.Context, userID uuid.UUID, videoID uuid.UUID, content string) (models.Comment, error)
	ListComments(ctx context.Context, videoID uuid.UUID, limit int) ([]models.CommentWithOwner, error)
	EditComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID, content string) (models.Comment, error)
	DeleteComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID) error

	ToggleLike(ctx context.Context, userID uuid.UUID, target models.LikeTarget, targetID uuid.UUID) (bool, int64, error)
	LikedVideos(ctx context.Context, userID uuid.UUID) ([]models.VideoWithOwner, error)

	CreatePlaylist(ctx context.Context, userID uuid.UUID, name string, description string) (models.Playlist, error)
	GetPlaylist(ctx context.Context, playlistID uuid.UUID) (models.PlaylistWithVideos, error)
	ListPlaylists(ctx context.Context, ownerID uuid.UUID) ([]models.Playlist, error)
	AddPlaylistVideo(ctx context.Context, userID uuid.UUID, playlistID uuid.UUID, videoID uuid.UUID) error
	RemovePlaylistVideo(ctx context.Context, userID uuid.UUID, playlistID uuid.UUID, videoID uuid.UUID) error
	DeletePlaylist(ctx context.Context, userID uuid.UUID, playlistID uuid.UUID) error

	CreatePost(ctx context.Context, userID uuid.UUID, content string) (models.Post, error)
	ListPosts(ctx context.Context, ownerID uuid.UUID) ([]models.Post, error)
	EditPost(ctx context.Context, userID uuid.UUID, postID uuid.UUID, content string) (models.Post, error)
	DeletePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error

	ToggleSubscription(ctx context.Context, userID uuid.UUID, channelID uuid.UUID) (bool, int64, error)
	Subscribers(ctx context.Context, channelID uuid.UUID) ([]models.PublicUser, error)
	SubscribedChannels(ctx context.Context, userID uuid.UUID) ([]models.PublicUser, error)
}

type SocialHandler struct {
	social socialService
	logger logger.Logger
}

func NewSocialHandler(ss socialService, l logger.Logger) *SocialHandler {
	if l == nil {
		l = logger.NewNoOpLogger()
	}
	return &SocialHandler{social: ss, logger: l}
}

type contentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}

func (h *SocialHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	videoID, ok := pathUUID(w, r, "videoID")
	if !ok {
		return
	}

	req, err := render.BindAndValidate[contentRequest](w, r)
	if err != nil {
		return
	}

	comment, err := h.social.AddComment(r.Context(), me.ID, videoID, req.Content)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusCreated, comment, "Comment added")
}

func (h *SocialHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathUUID(w, r, "videoID")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	comments, err := h.social.ListComments(r.Context(), videoID, limit)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, comments, "Comments")
}

func (h *SocialHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	commentID, ok := pathUUID(w, r, "commentID")
	if !ok {
		return
	}

	req, err := render.BindAndValidate[contentRequest](w, r)
	if err != nil {
		return
	}

	comment, err := h.social.EditComment(r.Context(), me.ID, commentID, req.Content)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, comment, "Comment updated")
}

func (h *SocialHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	commentID, ok := pathUUID(w, r, "commentID")
	if !ok {
		return
	}

	if err := h.social.DeleteComment(r.Context(), me.ID, commentID); err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, nil, "Comment deleted")
}

// toggleResult reports the state after a like or subscription toggle
type toggleResult struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

// ToggleLike flips the caller's like on a video, comment or post.
// The target kind comes from the route.
func (h *SocialHandler) ToggleLike(target models.LikeTarget, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		me, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		targetID, ok := pathUUID(w, r, param)
		if !ok {
			return
		}

		liked, count, err := h.social.ToggleLike(r.Context(), me.ID, target, targetID)
		if err != nil {
			serviceError(w, h.logger, err)
			return
		}

		render.Data(w, http.StatusOK, toggleResult{Active: liked, Count: count}, "Like toggled")
	}
}

func (h *SocialHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	videos, err := h.social.LikedVideos(r.Context(), me.ID)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, videos, "Liked videos")
}

type createPlaylistRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

func (h *SocialHandler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	req, err := render.BindAndValidate[createPlaylistRequest](w, r)
	if err != nil {
		return
	}

	playlist, err := h.social.CreatePlaylist(r.Context(), me.ID, req.Name, req.Description)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusCreated, playlist, "Playlist created")
}

func (h *SocialHandler) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := pathUUID(w, r, "playlistID")
	if !ok {
		return
	}

	playlist, err := h.social.GetPlaylist(r.Context(), playlistID)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, playlist, "Playlist")
}

func (h *SocialHandler) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	playlists, err := h.social.ListPlaylists(r.Context(), ownerID)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, playlists, "Playlists")
}

func (h *SocialHandler) AddPlaylistVideo(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlistID, ok := pathUUID(w, r, "playlistID")
	if !ok {
		return
	}
	videoID, ok := pathUUID(w, r, "videoID")
	if !ok {
		return
	}

	if err := h.social.AddPlaylistVideo(r.Context(), me.ID, playlistID, videoID); err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, nil, "Video added to playlist")
}

func (h *SocialHandler) RemovePlaylistVideo(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlistID, ok := pathUUID(w, r, "playlistID")
	if !ok {
		return
	}
	videoID, ok := pathUUID(w, r, "videoID")
	if !ok {
		return
	}

	if err := h.social.RemovePlaylistVideo(r.Context(), me.ID, playlistID, videoID); err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, nil, "Video removed from playlist")
}

func (h *SocialHandler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlistID, ok := pathUUID(w, r, "playlistID")
	if !ok {
		return
	}

	if err := h.social.DeletePlaylist(r.Context(), me.ID, playlistID); err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, nil, "Playlist deleted")
}

func (h *SocialHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	req, err := render.BindAndValidate[contentRequest](w, r)
	if err != nil {
		return
	}

	post, err := h.social.CreatePost(r.Context(), me.ID, req.Content)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusCreated, post, "Post created")
}

func (h *SocialHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	posts, err := h.social.ListPosts(r.Context(), ownerID)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, posts, "Posts")
}

func (h *SocialHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	postID, ok := pathUUID(w, r, "postID")
	if !ok {
		return
	}

	req, err := render.BindAndValidate[contentRequest](w, r)
	if err != nil {
		return
	}

	post, err := h.social.EditPost(r.Context(), me.ID, postID, req.Content)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, post, "Post updated")
}

func (h *SocialHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	postID, ok := pathUUID(w, r, "postID")
	if !ok {
		return
	}

	if err := h.social.DeletePost(r.Context(), me.ID, postID); err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, nil, "Post deleted")
}

func (h *SocialHandler) ToggleSubscription(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	channelID, ok := pathUUID(w, r, "channelID")
	if !ok {
		return
	}

	subscribed, count, err := h.social.ToggleSubscription(r.Context(), me.ID, channelID)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, toggleResult{Active: subscribed, Count: count}, "Subscription toggled")
}

func (h *SocialHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	channelID, ok := pathUUID(w, r, "channelID")
	if !ok {
		return
	}

	subscribers, err := h.social.Subscribers(r.Context(), channelID)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, subscribers, "Subscribers")
}

func (h *SocialHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) {
	me, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	channels, err := h.social.SubscribedChannels(r.Context(), me.ID)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, channels, "Subscribed channels")
}
