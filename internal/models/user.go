package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	FullName       string
	Username       string
	Email          string
	HashedPassword string

	Avatar      string
	AvatarID    string
	CoverImage  string
	CoverID     string

	EmailVerified bool

	// Both set while a verification code is pending, both nil otherwise
	VerificationCodeHash *string
	VerificationExpires  *time.Time

	// Single active session slot. Nil when logged out.
	RefreshToken *string
}

// PublicUser is the projection safe to return to clients:
// no password hash, no refresh token, no verification state internals.
type PublicUser struct {
	ID         uuid.UUID `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	FullName   string    `json:"fullName"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	Verified   bool      `json:"isEmailVerified"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		CreatedAt:  u.CreatedAt,
		FullName:   u.FullName,
		Username:   u.Username,
		Email:      u.Email,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		Verified:   u.EmailVerified,
	}
}

/// ChannelProfile is the public channel page: user data plus subscription counts
type ChannelProfile struct {
	PublicUser
	SubscriberCount   int64 `json:"subscribersCount"`
	SubscribedToCount int64 `json:"channelsSubscribedToCount"`
	IsSubscribed      bool  `json:"isSubscribed"`
}
