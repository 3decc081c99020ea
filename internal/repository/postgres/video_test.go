package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BRajendra10/yotube-backend/internal/apperrors"
	"github.com/BRajendra10/yotube-backend/internal/models"
	"github.com/BRajendra10/yotube-backend/internal/repository"
	"github.com/BRajendra10/yotube-backend/internal/testutil"
)

func createTestVideo(t *testing.T, r *VideoRepo, ownerID uuid.UUID, title string) models.Video {
	t.Helper()

	video, err := r.CreateVideo(t.Context(), repository.CreateVideoParams{
		OwnerID:     ownerID,
		Title:       title,
		Description: "test description",
		VideoFile:   "https://cdn.test/v.mp4",
		VideoFileID: "file-v",
		Thumbnail:   "https://cdn.test/t.png",
		ThumbnailID: "file-t",
		Duration:    42.5,
	})
	require.NoError(t, err)
	return video
}

func Test_VideoRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("create and get ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}
			videos := &VideoRepo{DB: tx}
			owner := createTestUser(t, users, "creator", "creator@x.com")

			created := createTestVideo(t, videos, owner.ID, "My first video")
			assert.True(t, created.IsPublished, "videos start published")
			assert.Zero(t, created.Views)

			got, err := videos.GetVideoByID(t.Context(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, "My first video", got.Title)
			assert.Equal(t, owner.Username, got.Owner.Username, "owner should be joined in")
		})
	})

	t.Run("get not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			videos := &VideoRepo{DB: tx}

			_, err := videos.GetVideoByID(t.Context(), uuid.New())

			assert.ErrorIs(t, err, apperrors.ErrVideoNotFound)
		})
	})

	t.Run("list by owner", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}
			videos := &VideoRepo{DB: tx}
			owner := createTestUser(t, users, "creator", "creator@x.com")
			other := createTestUser(t, users, "other", "other@x.com")

			createTestVideo(t, videos, owner.ID, "one")
			createTestVideo(t, videos, owner.ID, "two")
			createTestVideo(t, videos, other.ID, "not mine")

			got, err := videos.ListVideosByOwner(t.Context(), owner.ID, 10)

			require.NoError(t, err)
			require.Len(t, got, 2)
		})
	})

	t.Run("search matches title", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}
			videos := &VideoRepo{DB: tx}
			owner := createTestUser(t, users, "creator", "creator@x.com")

			createTestVideo(t, videos, owner.ID, "Baking sourdough bread")
			createTestVideo(t, videos, owner.ID, "Fixing a bike")

			got, err := videos.SearchVideos(t.Context(), "sourdough", 10)

			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "Baking sourdough bread", got[0].Title)
		})
	})

	t.Run("increment views", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}
			videos := &VideoRepo{DB: tx}
			owner := createTestUser(t, users, "creator", "creator@x.com")
			created := createTestVideo(t, videos, owner.ID, "watched")

			require.NoError(t, videos.IncrementViews(t.Context(), created.ID))
			require.NoError(t, videos.IncrementViews(t.Context(), created.ID))

			got, err := videos.GetVideoByID(t.Context(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), got.Views)
		})
	})

	t.Run("toggle publish flips the flag", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}
			videos := &VideoRepo{DB: tx}
			owner := createTestUser(t, users, "creator", "creator@x.com")
			created := createTestVideo(t, videos, owner.ID, "toggled")

			got, err := videos.TogglePublish(t.Context(), created.ID)
			require.NoError(t, err)
			assert.False(t, got.IsPublished)

			got, err = videos.TogglePublish(t.Context(), created.ID)
			require.NoError(t, err)
			assert.True(t, got.IsPublished)
		})
	})

	t.Run("delete removes record", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}
			videos := &VideoRepo{DB: tx}
			owner := createTestUser(t, users, "creator", "creator@x.com")
			created := createTestVideo(t, videos, owner.ID, "doomed")

			require.NoError(t, videos.DeleteVideo(t.Context(), created.ID))

			_, err := videos.GetVideoByID(t.Context(), created.ID)
			assert.ErrorIs(t, err, apperrors.ErrVideoNotFound)
		})
	})

	t.Run("delete not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			videos := &VideoRepo{DB: tx}

			err := videos.DeleteVideo(t.Context(), uuid.New())

			assert.ErrorIs(t, err, apperrors.ErrVideoNotFound)
		})
	})
}

func Test_LikeRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("toggle like on and off", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}
			videos := &VideoRepo{DB: tx}
			likes := &LikeRepo{DB: tx}
			owner := createTestUser(t, users, "creator", "creator@x.com")
			fan := createTestUser(t, users, "fan", "fan@x.com")
			video := createTestVideo(t, videos, owner.ID, "likeable")

			liked, count, err := likes.ToggleLike(t.Context(), fan.ID, models.LikeTargetVideo, video.ID)
			require.NoError(t, err)
			assert.True(t, liked)
			assert.Equal(t, int64(1), count)

			liked, count, err = likes.ToggleLike(t.Context(), fan.ID, models.LikeTargetVideo, video.ID)
			require.NoError(t, err)
			assert.False(t, liked, "second toggle removes the like")
			assert.Equal(t, int64(0), count)
		})
	})

	t.Run("liked videos listed", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}
			videos := &VideoRepo{DB: tx}
			likes := &LikeRepo{DB: tx}
			owner := createTestUser(t, users, "creator", "creator@x.com")
			fan := createTestUser(t, users, "fan", "fan@x.com")
			video := createTestVideo(t, videos, owner.ID, "likeable")

			_, _, err := likes.ToggleLike(t.Context(), fan.ID, models.LikeTargetVideo, video.ID)
			require.NoError(t, err)

			got, err := likes.ListLikedVideos(t.Context(), fan.ID)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, video.ID, got[0].ID)
		})
	})
}

func Test_SubscriptionRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("toggle subscription on and off", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}
			subs := &SubscriptionRepo{DB: tx}
			channel := createTestUser(t, users, "channel", "channel@x.com")
			fan := createTestUser(t, users, "fan", "fan@x.com")

			subscribed, count, err := subs.ToggleSubscription(t.Context(), fan.ID, channel.ID)
			require.NoError(t, err)
			assert.True(t, subscribed)
			assert.Equal(t, int64(1), count)

			subscribed, count, err = subs.ToggleSubscription(t.Context(), fan.ID, channel.ID)
			require.NoError(t, err)
			assert.False(t, subscribed)
			assert.Equal(t, int64(0), count)
		})
	})

	t.Run("subscribers and subscriptions listed", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}
			subs := &SubscriptionRepo{DB: tx}
			channel := createTestUser(t, users, "channel", "channel@x.com")
			fan := createTestUser(t, users, "fan", "fan@x.com")

			_, _, err := subs.ToggleSubscription(t.Context(), fan.ID, channel.ID)
			require.NoError(t, err)

			subscribers, err := subs.ListSubscribers(t.Context(), channel.ID)
			require.NoError(t, err)
			require.Len(t, subscribers, 1)
			assert.Equal(t, fan.ID, subscribers[0].ID)

			channels, err := subs.ListSubscribedChannels(t.Context(), fan.ID)
			require.NoError(t, err)
			require.Len(t, channels, 1)
			assert.Equal(t, channel.ID, channels[0].ID)
		})
	})
}
