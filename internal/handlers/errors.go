package handlers

import (
	"errors"
	"net/http"

	"github.com/BRajendra10/yotube-backend/internal/apperrors"
	"github.com/BRajendra10/yotube-backend/internal/handlers/render"
	"github.com/BRajendra10/yotube-backend/internal/logger"
)

// serviceError is the single boundary where operational errors become
// HTTP responses. Anything without a declared kind is logged in full
// and rendered as a generic 500 with no internal detail leaked.
func serviceError(w http.ResponseWriter, l logger.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		render.Error(w, http.StatusConflict, "User with email or username already exists")
	case errors.Is(err, apperrors.ErrUserNotFound):
		render.Error(w, http.StatusNotFound, "User does not exist")
	case errors.Is(err, apperrors.ErrChannelNotFound):
		render.Error(w, http.StatusNotFound, "Channel not found")
	case errors.Is(err, apperrors.ErrVideoNotFound):
		render.Error(w, http.StatusNotFound, "Video not found")
	case errors.Is(err, apperrors.ErrCommentNotFound):
		render.Error(w, http.StatusNotFound, "Comment not found")
	case errors.Is(err, apperrors.ErrPlaylistNotFound):
		render.Error(w, http.StatusNotFound, "Playlist not found")
	case errors.Is(err, apperrors.ErrPostNotFound):
		render.Error(w, http.StatusNotFound, "Post not found")
	case errors.Is(err, apperrors.ErrEmailNotVerified):
		render.Error(w, http.StatusUnauthorized, "Please verify your email first")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		render.Error(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, apperrors.ErrAlreadyVerified):
		render.Error(w, http.StatusBadRequest, "Email is already verified")
	case errors.Is(err, apperrors.ErrCodeExpired):
		render.Error(w, http.StatusBadRequest, "Code expired")
	case errors.Is(err, apperrors.ErrCodeInvalid):
		render.Error(w, http.StatusBadRequest, "Invalid code")
	case errors.Is(err, apperrors.ErrTokenMissing):
		render.Error(w, http.StatusUnauthorized, "Refresh token missing")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		render.Error(w, http.StatusUnauthorized, "Invalid refresh token")
	case errors.Is(err, apperrors.ErrTokenReused):
		render.Error(w, http.StatusUnauthorized, "Refresh token reused or expired")
	case errors.Is(err, apperrors.ErrNotOwner):
		render.Error(w, http.StatusForbidden, "You do not own this resource")
	case errors.Is(err, apperrors.ErrUploadFailed):
		l.Error("media upload failed", "error", err.Error())
		render.Error(w, http.StatusInternalServerError, "Media upload failed")
	case errors.Is(err, apperrors.ErrMailFailed):
		l.Error("email dispatch failed", "error", err.Error())
		render.Error(w, http.StatusInternalServerError, "Verification email could not be sent, request a new code")
	default:
		l.Error("unexpected error", "error", err.Error())
		render.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
