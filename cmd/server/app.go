package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BRajendra10/yotube-backend/internal/db"
	"github.com/BRajendra10/yotube-backend/internal/handlers"
	"github.com/BRajendra10/yotube-backend/internal/handlers/middleware"
	"github.com/BRajendra10/yotube-backend/internal/logger"
	"github.com/BRajendra10/yotube-backend/internal/mail"
	"github.com/BRajendra10/yotube-backend/internal/media"
	"github.com/BRajendra10/yotube-backend/internal/repository/postgres"
	"github.com/BRajendra10/yotube-backend/internal/service/auth"
	"github.com/BRajendra10/yotube-backend/internal/service/social"
	"github.com/BRajendra10/yotube-backend/internal/service/user"
	"github.com/BRajendra10/yotube-backend/internal/service/video"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize collaborators
	uploader, err := media.NewS3Uploader(ctx, media.S3Config{
		Endpoint:  c.S3Endpoint,
		PublicURL: c.S3PublicURL,
		Region:    c.S3Region,
		Bucket:    c.S3Bucket,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Prefix:    "yotube",
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating uploader. Err: %w", err)
	}

	var mailer mail.Sender
	if c.SMTPAddr != "" {
		mailer = mail.NewSMTPSender(mail.SMTPConfig{
			Addr:     c.SMTPAddr,
			From:     c.SMTPFrom,
			Username: c.SMTPUsername,
			Password: c.SMTPPassword,
		})
	} else {
		log.Warn("SMTP address not set, verification codes go to the log")
		mailer = mail.NewLogSender(log)
	}

	// Initialize services
	tokenManager, err := auth.NewTokenManager(auth.TokenConfig{
		AccessSecret:  c.AccessSecret,
		RefreshSecret: c.RefreshSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	authService, err := auth.NewService(auth.Config{
		Logger:                  log,
		DisableVerificationGate: c.AllowUnverifiedLogin,
	}, tokenManager, storage.User(), mailer, uploader)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	videoService, err := video.NewService(storage.Video(), uploader, log)
	if err != nil {
		return nil, fmt.Errorf("error while creating video service. Err: %w", err)
	}
	userService, err := user.NewService(storage.User(), uploader, log)
	if err != nil {
		return nil, fmt.Errorf("error while creating user service. Err: %w", err)
	}
	socialService, err := social.NewService(storage)
	if err != nil {
		return nil, fmt.Errorf("error while creating social service. Err: %w", err)
	}

	rateLimit := middleware.RateLimitConfig{}
	if c.RedisAddr != "" {
		rateLimit = middleware.RateLimitConfig{
			Limit:  10,
			Window: time.Minute,
			Redis:  redis.NewClient(&redis.Options{Addr: c.RedisAddr}),
		}
	}

	mux := handlers.NewRouter(handlers.RouterConfig{
		Auth:          handlers.NewAuthHandler(authService, log),
		Users:         handlers.NewUserHandler(userService, log),
		Videos:        handlers.NewVideoHandler(videoService, log),
		Social:        handlers.NewSocialHandler(socialService, log),
		Authenticator: authService,
		RateLimit:     rateLimit,
		Logger:        log,
	})

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server", "addr", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
