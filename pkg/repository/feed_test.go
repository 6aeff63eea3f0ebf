package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedalor/pkg/domain"
)

func makeFeed(t *testing.T, repos *Repositories, mode domain.DispatchMode) *domain.Feed {
	t.Helper()
	feed := &domain.Feed{
		Title:         "test feed",
		Source:        "https://example.com/still.jpg",
		Decoder:       "single_frame",
		DispatchMode:  mode,
		IntervalSecs:  60,
		HistoryLength: 2,
	}
	require.NoError(t, repos.Feed.CreateFeed(context.Background(), feed))
	return feed
}

func TestFeedRepository_InFlightTransitions(t *testing.T) {
	repos := setupTestDB(t)
	feed := makeFeed(t, repos, domain.DispatchInterval)

	// scheduler sets the flag
	require.NoError(t, repos.Feed.SetInFlight(context.Background(), feed.ID, true))
	got, err := repos.Feed.GetFeed(context.Background(), feed.ID)
	require.NoError(t, err)
	assert.True(t, got.InFlight)

	// executor clears it on success along with timestamps
	capturedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repos.Feed.UpdateCaptured(context.Background(), feed.ID, capturedAt))
	got, err = repos.Feed.GetFeed(context.Background(), feed.ID)
	require.NoError(t, err)
	assert.False(t, got.InFlight)
	require.NotNil(t, got.LastCaptureAt)
	assert.Equal(t, capturedAt, got.LastCaptureAt.UTC())
	assert.Nil(t, got.LastFailedAt)
}

func TestFeedRepository_UpdateFailed(t *testing.T) {
	repos := setupTestDB(t)
	feed := makeFeed(t, repos, domain.DispatchInterval)

	capturedAt := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, repos.Feed.UpdateCaptured(context.Background(), feed.ID, capturedAt))

	require.NoError(t, repos.Feed.SetInFlight(context.Background(), feed.ID, true))

	failedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repos.Feed.UpdateFailed(context.Background(), feed.ID, failedAt))

	got, err := repos.Feed.GetFeed(context.Background(), feed.ID)
	require.NoError(t, err)
	assert.False(t, got.InFlight)
	require.NotNil(t, got.LastFailedAt)
	assert.Equal(t, failedAt, got.LastFailedAt.UTC())

	// last capture timestamp survives a failure
	require.NotNil(t, got.LastCaptureAt)
	assert.Equal(t, capturedAt, got.LastCaptureAt.UTC())

	// a later success clears the failure marker
	require.NoError(t, repos.Feed.UpdateCaptured(context.Background(), feed.ID, time.Now().UTC()))
	got, err = repos.Feed.GetFeed(context.Background(), feed.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LastFailedAt)
}

func TestFeedRepository_ResetInFlight(t *testing.T) {
	repos := setupTestDB(t)

	f1 := makeFeed(t, repos, domain.DispatchInterval)
	f2 := makeFeed(t, repos, domain.DispatchInterval)
	f3 := makeFeed(t, repos, domain.DispatchDisabled)

	require.NoError(t, repos.Feed.SetInFlight(context.Background(), f1.ID, true))
	require.NoError(t, repos.Feed.SetInFlight(context.Background(), f2.ID, true))

	n, err := repos.Feed.ResetInFlight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	for _, id := range []string{f1.ID, f2.ID, f3.ID} {
		got, err := repos.Feed.GetFeed(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, got.InFlight)
	}

	// nothing left to reset
	n, err = repos.Feed.ResetInFlight(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFeedRepository_InvalidDispatchMode(t *testing.T) {
	repos := setupTestDB(t)

	feed := &domain.Feed{
		Source:        "https://example.com/still.jpg",
		Decoder:       "single_frame",
		DispatchMode:  domain.DispatchMode("cron"),
		HistoryLength: 1,
	}
	err := repos.Feed.CreateFeed(context.Background(), feed)
	require.Error(t, err, "schema check constraint rejects unknown modes")
}
