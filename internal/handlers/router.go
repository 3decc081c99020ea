package handlers

import (
	"context"
	"net/http"

	"github.com/BRajendra10/yotube-backend/internal/handlers/middleware"
	"github.com/BRajendra10/yotube-backend/internal/logger"
	"github.com/BRajendra10/yotube-backend/internal/models"
)

// requestAuthenticator resolves a request to the account behind its
// access token. Satisfied by the auth service.
type requestAuthenticator interface {
	Auth(ctx context.Context, r *http.Request) (models.PublicUser, error)
}

type RouterConfig struct {
	Auth   *AuthHandler
	Users  *UserHandler
	Videos *VideoHandler
	Social *SocialHandler

	// Gate for protected routes
	Authenticator requestAuthenticator

	// Throttle for credential endpoints, disabled when Redis is nil
	RateLimit middleware.RateLimitConfig

	Logger logger.Logger
}

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNoOpLogger()
	}

	authMiddleware := middleware.AuthMiddleware(cfg.Authenticator)
	optionalAuth := middleware.OptionalAuthMiddleware(cfg.Authenticator)
	withAuth := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}
	throttled := func(h http.HandlerFunc, prefix string) http.Handler {
		return middleware.RateLimitMiddleware(cfg.RateLimit, prefix)(h)
	}

	users := http.NewServeMux()
	users.Handle("POST /register", throttled(cfg.Auth.Register, "register"))
	users.Handle("POST /verify_email", throttled(cfg.Auth.VerifyEmail, "verify"))
	users.Handle("POST /resend_verification_code", throttled(cfg.Auth.ResendCode, "resend"))
	users.Handle("POST /login", throttled(cfg.Auth.Login, "login"))
	users.Handle("POST /refresh_token", http.HandlerFunc(cfg.Auth.Refresh))
	users.Handle("POST /logout", withAuth(cfg.Auth.Logout))
	users.Handle("POST /change_password", withAuth(cfg.Auth.ChangePassword))
	users.Handle("GET /current_user", withAuth(cfg.Auth.CurrentUser))

	users.Handle("PATCH /profile", withAuth(cfg.Users.UpdateProfile))
	users.Handle("GET /channel/{username}", optionalAuth(http.HandlerFunc(cfg.Users.ChannelProfile)))
	users.Handle("GET /watch_history", withAuth(cfg.Users.WatchHistory))
	users.Handle("POST /watch_history/{videoID}", withAuth(cfg.Users.AddToWatchHistory))

	videos := http.NewServeMux()
	videos.Handle("POST /", withAuth(cfg.Videos.Publish))
	videos.Handle("GET /", http.HandlerFunc(cfg.Videos.List))
	videos.Handle("GET /{videoID}", http.HandlerFunc(cfg.Videos.Get))
	videos.Handle("PATCH /{videoID}", withAuth(cfg.Videos.Update))
	videos.Handle("DELETE /{videoID}", withAuth(cfg.Videos.Delete))
	videos.Handle("PATCH /toggle/publish/{videoID}", withAuth(cfg.Videos.TogglePublish))

	comments := http.NewServeMux()
	comments.Handle("GET /{videoID}", http.HandlerFunc(cfg.Social.ListComments))
	comments.Handle("POST /{videoID}", withAuth(cfg.Social.AddComment))
	comments.Handle("PATCH /c/{commentID}", withAuth(cfg.Social.EditComment))
	comments.Handle("DELETE /c/{commentID}", withAuth(cfg.Social.DeleteComment))

	likes := http.NewServeMux()
	likes.Handle("POST /toggle/v/{videoID}", authMiddleware(cfg.Social.ToggleLike(models.LikeTargetVideo, "videoID")))
	likes.Handle("POST /toggle/c/{commentID}", authMiddleware(cfg.Social.ToggleLike(models.LikeTargetComment, "commentID")))
	likes.Handle("POST /toggle/p/{postID}", authMiddleware(cfg.Social.ToggleLike(models.LikeTargetPost, "postID")))
	likes.Handle("GET /videos", withAuth(cfg.Social.LikedVideos))

	playlists := http.NewServeMux()
	playlists.Handle("POST /", withAuth(cfg.Social.CreatePlaylist))
	playlists.Handle("GET /{playlistID}", http.HandlerFunc(cfg.Social.GetPlaylist))
	playlists.Handle("GET /user/{userID}", http.HandlerFunc(cfg.Social.ListPlaylists))
	playlists.Handle("PATCH /add/{videoID}/{playlistID}", withAuth(cfg.Social.AddPlaylistVideo))
	playlists.Handle("PATCH /remove/{videoID}/{playlistID}", withAuth(cfg.Social.RemovePlaylistVideo))
	playlists.Handle("DELETE /{playlistID}", withAuth(cfg.Social.DeletePlaylist))

	posts := http.NewServeMux()
	posts.Handle("POST /", withAuth(cfg.Social.CreatePost))
	posts.Handle("GET /user/{userID}", http.HandlerFunc(cfg.Social.ListPosts))
	posts.Handle("PATCH /{postID}", withAuth(cfg.Social.EditPost))
	posts.Handle("DELETE /{postID}", withAuth(cfg.Social.DeletePost))

	subscriptions := http.NewServeMux()
	subscriptions.Handle("POST /c/{channelID}", withAuth(cfg.Social.ToggleSubscription))
	subscriptions.Handle("GET /u/{channelID}", http.HandlerFunc(cfg.Social.Subscribers))
	subscriptions.Handle("GET /c/mine", withAuth(cfg.Social.SubscribedChannels))

	root := http.NewServeMux()
	root.Handle("/api/v1/users/", http.StripPrefix("/api/v1/users", users))
	root.Handle("/api/v1/videos/", http.StripPrefix("/api/v1/videos", videos))
	root.Handle("/api/v1/comments/", http.StripPrefix("/api/v1/comments", comments))
	root.Handle("/api/v1/likes/", http.StripPrefix("/api/v1/likes", likes))
	root.Handle("/api/v1/playlists/", http.StripPrefix("/api/v1/playlists", playlists))
	root.Handle("/api/v1/posts/", http.StripPrefix("/api/v1/posts", posts))
	root.Handle("/api/v1/subscriptions/", http.StripPrefix("/api/v1/subscriptions", subscriptions))
	root.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return chain(root,
		middleware.LoggerMiddleware(cfg.Logger),
	)
}
