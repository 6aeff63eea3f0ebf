package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedalor/pkg/domain"
)

func setupTestDB(t *testing.T) *Repositories {
	t.Helper()

	cfg := Config{
		DSN:             ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 30 * time.Second,
	}

	repos, err := NewRepositories(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repos.Close()) })

	return repos
}

func TestRepositories_Integration(t *testing.T) {
	repos := setupTestDB(t)

	require.NoError(t, repos.Ping(context.Background()))

	t.Run("feed lifecycle", func(t *testing.T) {
		heading := 135.5
		testFeed := &domain.Feed{
			Title:         "Harbor Cam",
			Source:        "https://example.com/cam.jpg",
			Decoder:       "single_frame",
			DispatchMode:  domain.DispatchInterval,
			IntervalSecs:  60,
			HistoryLength: 3,
			Crop:          &domain.CropRect{X: 10, Y: 20, Width: 640, Height: 480},
			GPS:           &domain.GPSInfo{Latitude: 51.5074, Longitude: -0.1278, Direction: &heading},
		}

		// create assigns a uuid
		err := repos.Feed.CreateFeed(context.Background(), testFeed)
		require.NoError(t, err)
		assert.NotEmpty(t, testFeed.ID)

		// get round-trips all fields
		got, err := repos.Feed.GetFeed(context.Background(), testFeed.ID)
		require.NoError(t, err)
		assert.Equal(t, "Harbor Cam", got.Title)
		assert.Equal(t, "https://example.com/cam.jpg", got.Source)
		assert.Equal(t, domain.DispatchInterval, got.DispatchMode)
		assert.Equal(t, 60, got.IntervalSecs)
		assert.Equal(t, 3, got.HistoryLength)
		require.NotNil(t, got.Crop)
		assert.Equal(t, 640, got.Crop.Width)
		require.NotNil(t, got.GPS)
		assert.InDelta(t, 51.5074, got.GPS.Latitude, 0.0001)
		assert.InDelta(t, -0.1278, got.GPS.Longitude, 0.0001)
		require.NotNil(t, got.GPS.Direction)
		assert.InDelta(t, 135.5, *got.GPS.Direction, 0.0001)
		assert.Empty(t, got.CaptureTimes)
		assert.Nil(t, got.LastCaptureAt)
		assert.Nil(t, got.LastFailedAt)
		assert.False(t, got.InFlight)

		// update configuration
		got.Title = "Harbor Cam (south)"
		got.DispatchMode = domain.DispatchSchedule
		got.CaptureTimes = []string{"06:00:00", "18:00:00"}
		require.NoError(t, repos.Feed.UpdateFeed(context.Background(), got))

		updated, err := repos.Feed.GetFeed(context.Background(), got.ID)
		require.NoError(t, err)
		assert.Equal(t, "Harbor Cam (south)", updated.Title)
		assert.Equal(t, domain.DispatchSchedule, updated.DispatchMode)
		assert.Equal(t, []string{"06:00:00", "18:00:00"}, updated.CaptureTimes)

		// list
		feeds, err := repos.Feed.GetFeeds(context.Background())
		require.NoError(t, err)
		assert.Len(t, feeds, 1)

		// delete
		require.NoError(t, repos.Feed.DeleteFeed(context.Background(), got.ID))
		feeds, err = repos.Feed.GetFeeds(context.Background())
		require.NoError(t, err)
		assert.Empty(t, feeds)
	})

	t.Run("get missing feed", func(t *testing.T) {
		_, err := repos.Feed.GetFeed(context.Background(), "no-such-id")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrFeedNotFound, "missing feed is distinguishable from store failures")
	})

	t.Run("update missing feed", func(t *testing.T) {
		err := repos.Feed.UpdateFeed(context.Background(), &domain.Feed{
			ID: "no-such-id", Source: "x", Decoder: "single_frame",
			DispatchMode: domain.DispatchInterval, HistoryLength: 1,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}
