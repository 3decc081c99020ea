package middleware

import (
	"context"
	"net/http"

	"github.com/BRajendra10/yotube-backend/internal/handlers/render"
	"github.com/BRajendra10/yotube-backend/internal/handlers/userctx"
	"github.com/BRajendra10/yotube-backend/internal/models"
)

type authService interface {
	// Resolve request to a sanitized account or fail
	Auth(ctx context.Context, r *http.Request) (models.PublicUser, error)
}

// AuthMiddleware guards protected routes: requests without a valid access
// token (cookie or Bearer header) are rejected before the handler runs.
func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := as.Auth(r.Context(), r)
			if err != nil {
				render.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware attaches the user when a valid token is present
// but lets anonymous requests through. Used by public pages that vary
// per viewer, like channel profiles.
func OptionalAuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if user, err := as.Auth(ctx, r); err == nil {
				ctx = userctx.New(ctx, user)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
