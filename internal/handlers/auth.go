// Package handlers contains the HTTP layer: request parsing, validation
// and mapping of service results onto the response envelope.
package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/BRajendra10/yotube-backend/internal/handlers/render"
	"github.com/BRajendra10/yotube-backend/internal/handlers/userctx"
	"github.com/BRajendra10/yotube-backend/internal/logger"
	"github.com/BRajendra10/yotube-backend/internal/models"
	"github.com/BRajendra10/yotube-backend/internal/service/auth"
)

// register and profile forms carry images, keep the in-memory part small
const maxFormMemory = 32 << 20

type authService interface {
	Register(ctx context.Context, arg auth.RegisterParams) (models.User, error)
	VerifyEmail(ctx context.Context, email string, code string) (models.User, models.TokenPair, error)
	ResendCode(ctx context.Context, email string) error
	Login(ctx context.Context, identifier string, password string) (models.User, models.TokenPair, error)
	Refresh(ctx context.Context, presented string) (models.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword string, newPassword string) error

	SetTokenPair(w http.ResponseWriter, pair models.TokenPair)
	ClearTokens(w http.ResponseWriter)
	RefreshFromRequest(r *http.Request) (string, error)
}

type AuthHandler struct {
	auth   authService
	logger logger.Logger
}

func NewAuthHandler(as authService, l logger.Logger) *AuthHandler {
	if l == nil {
		l = logger.NewNoOpLogger()
	}
	return &AuthHandler{auth: as, logger: l}
}

type registerForm struct {
	FullName string `json:"fullName" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Register creates an unverified account from a multipart form and mails
// the verification code. Avatar and cover image parts are optional.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		render.Error(w, http.StatusBadRequest, "Expected multipart/form-data body")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form := registerForm{
		FullName: r.FormValue("fullName"),
		Email:    r.FormValue("email"),
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
	if !validateForm(w, form) {
		return
	}

	params := auth.RegisterParams{
		FullName: form.FullName,
		Email:    form.Email,
		Username: form.Username,
		Password: form.Password,
	}

	avatar, ok := formFile(w, r, "avatar")
	if !ok {
		return
	}
	if avatar != nil {
		defer avatar.Close()
		params.Avatar = &auth.UploadFile{Content: avatar.file, Filename: avatar.filename, ContentType: avatar.ctype}
	}

	cover, ok := formFile(w, r, "coverImage")
	if !ok {
		return
	}
	if cover != nil {
		defer cover.Close()
		params.Cover = &auth.UploadFile{Content: cover.file, Filename: cover.filename, ContentType: cover.ctype}
	}

	user, err := h.auth.Register(r.Context(), params)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusCreated, user.Public(), "Account created, check your email for the verification code")
}

type verifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// VerifyEmail consumes the mailed code. Success marks the account
// verified and signs the client in.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	req, err := render.BindAndValidate[verifyEmailRequest](w, r)
	if err != nil {
		return
	}

	user, pair, err := h.auth.VerifyEmail(r.Context(), req.Email, req.Code)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	h.auth.SetTokenPair(w, pair)
	render.Data(w, http.StatusOK, user.Public(), "Email verified")
}

type resendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) ResendCode(w http.ResponseWriter, r *http.Request) {
	req, err := render.BindAndValidate[resendCodeRequest](w, r)
	if err != nil {
		return
	}

	if err := h.auth.ResendCode(r.Context(), req.Email); err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, nil, "Verification code sent")
}

type loginRequest struct {
	Email    string `json:"email" validate:"required_without=Username,omitempty,email"`
	Username string `json:"username" validate:"required_without=Email,omitempty,min=3,max=30"`
	Password string `json:"password" validate:"required"`
}

func (r loginRequest) identifier() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

// Login authenticates by email or username and sets the token cookies.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := render.BindAndValidate[loginRequest](w, r)
	if err != nil {
		return
	}

	user, pair, err := h.auth.Login(r.Context(), req.identifier(), req.Password)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	h.auth.SetTokenPair(w, pair)
	render.Data(w, http.StatusOK, user.Public(), "Logged in")
}

// Refresh rotates the session: both cookies are replaced on success.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	presented, err := h.auth.RefreshFromRequest(r)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	pair, err := h.auth.Refresh(r.Context(), presented)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	h.auth.SetTokenPair(w, pair)
	render.Data(w, http.StatusOK, nil, "Tokens refreshed")
}

// Logout clears the server session slot and both cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.auth.Logout(r.Context(), user.ID); err != nil {
		serviceError(w, h.logger, err)
		return
	}

	h.auth.ClearTokens(w)
	render.Data(w, http.StatusOK, nil, "Logged out")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	req, err := render.BindAndValidate[changePasswordRequest](w, r)
	if err != nil {
		return
	}

	if err := h.auth.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		serviceError(w, h.logger, err)
		return
	}

	render.Data(w, http.StatusOK, nil, "Password changed")
}

// CurrentUser echoes the authenticated account back to the client.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	render.Data(w, http.StatusOK, user, "Current user")
}
