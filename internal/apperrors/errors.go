package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAlreadyVerified    = errors.New("email already verified")

	ErrCodeExpired = errors.New("verification code expired")
	ErrCodeInvalid = errors.New("verification code invalid")

	ErrTokenMissing = errors.New("token missing")
	ErrTokenInvalid = errors.New("token invalid or expired")
	ErrTokenReused  = errors.New("refresh token reused or revoked")

	ErrVideoNotFound    = errors.New("video not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrChannelNotFound  = errors.New("channel not found")

	ErrNotOwner = errors.New("resource owned by different user")

	ErrUploadFailed = errors.New("media upload failed")
	ErrMailFailed   = errors.New("email dispatch failed")
)
