package executor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedalor/pkg/capture"
	"github.com/umputun/feedalor/pkg/domain"
	"github.com/umputun/feedalor/pkg/executor/mocks"
	"github.com/umputun/feedalor/pkg/exif"
)

type stubDecoder struct {
	name   string
	decode func(ctx context.Context, descriptor string) (image.Image, error)
}

func (d *stubDecoder) Name() string { return d.name }
func (d *stubDecoder) Decode(ctx context.Context, descriptor string) (image.Image, error) {
	return d.decode(ctx, descriptor)
}
func (d *stubDecoder) Describe(string) map[string]string { return capture.DefaultDescription() }

func makeFeed() *domain.Feed {
	return &domain.Feed{
		ID:            "feed-1",
		Title:         "Harbour cam",
		Source:        "http://cam.example.com/still.jpg",
		Decoder:       "single_frame",
		DispatchMode:  domain.DispatchInterval,
		IntervalSecs:  60,
		HistoryLength: 5,
	}
}

func okDeps(feed *domain.Feed) (*mocks.FeedStoreMock, *mocks.ResolverMock, *mocks.ImageStoreMock, *mocks.EmbedderMock) {
	feeds := &mocks.FeedStoreMock{
		GetFeedFunc:        func(context.Context, string) (*domain.Feed, error) { return feed, nil },
		UpdateCapturedFunc: func(context.Context, string, time.Time) error { return nil },
		UpdateFailedFunc:   func(context.Context, string, time.Time) error { return nil },
	}
	resolver := &mocks.ResolverMock{
		ResolveFunc: func(string) (capture.Decoder, error) {
			return &stubDecoder{name: "single_frame", decode: func(context.Context, string) (image.Image, error) {
				return imaging.New(100, 80, color.NRGBA{R: 255, A: 255}), nil
			}}, nil
		},
	}
	images := &mocks.ImageStoreMock{
		SaveFunc: func(feedID string, img image.Image, now time.Time, embed func(string) error) (string, error) {
			if embed != nil {
				if err := embed("/tmp/frame.jpg"); err != nil {
					return "", err
				}
			}
			return "/stills/" + feedID + "/frame.jpg", nil
		},
		PruneFunc: func(string, domain.DispatchMode, int, int) error { return nil },
	}
	embedder := &mocks.EmbedderMock{EmbedFunc: func(string, exif.Meta) error { return nil }}
	return feeds, resolver, images, embedder
}

func TestExecutor_CaptureSuccess(t *testing.T) {
	feed := makeFeed()
	direction := 90.0
	feed.GPS = &domain.GPSInfo{Latitude: 51.5, Longitude: -0.12, Direction: &direction}
	feeds, resolver, images, embedder := okDeps(feed)

	e := New(feeds, resolver, images, embedder, time.Second)
	require.NoError(t, e.Capture(context.Background(), "feed-1"))

	require.Len(t, images.SaveCalls(), 1)
	assert.Equal(t, "feed-1", images.SaveCalls()[0].FeedID)

	require.Len(t, embedder.EmbedCalls(), 1)
	meta := embedder.EmbedCalls()[0].Meta
	assert.Equal(t, "feed-1", meta.FeedID)
	assert.Equal(t, "Harbour cam", meta.Title)
	assert.Equal(t, feed.GPS, meta.GPS)

	require.Len(t, images.PruneCalls(), 1)
	assert.Equal(t, domain.DispatchInterval, images.PruneCalls()[0].Mode)
	assert.Equal(t, 60, images.PruneCalls()[0].IntervalSecs)
	assert.Equal(t, 5, images.PruneCalls()[0].HistoryLength)

	assert.Len(t, feeds.UpdateCapturedCalls(), 1)
	assert.Empty(t, feeds.UpdateFailedCalls())
}

func TestExecutor_CaptureCrop(t *testing.T) {
	feed := makeFeed()
	feed.Crop = &domain.CropRect{X: 10, Y: 20, Width: 30, Height: 40}
	feeds, resolver, images, embedder := okDeps(feed)

	e := New(feeds, resolver, images, embedder, time.Second)
	require.NoError(t, e.Capture(context.Background(), "feed-1"))

	require.Len(t, images.SaveCalls(), 1)
	saved := images.SaveCalls()[0].Img
	assert.Equal(t, 30, saved.Bounds().Dx())
	assert.Equal(t, 40, saved.Bounds().Dy())
}

func TestExecutor_CaptureCropOutsideFrame(t *testing.T) {
	feed := makeFeed()
	feed.Crop = &domain.CropRect{X: 500, Y: 500, Width: 30, Height: 40}
	feeds, resolver, images, embedder := okDeps(feed)

	e := New(feeds, resolver, images, embedder, time.Second)
	require.NoError(t, e.Capture(context.Background(), "feed-1"))

	assert.Empty(t, images.SaveCalls())
	assert.Len(t, feeds.UpdateFailedCalls(), 1)
}

func TestExecutor_CaptureMissingFeed(t *testing.T) {
	feeds, resolver, images, embedder := okDeps(makeFeed())
	feeds.GetFeedFunc = func(_ context.Context, id string) (*domain.Feed, error) {
		return nil, fmt.Errorf("feed %s: %w", id, domain.ErrFeedNotFound)
	}

	e := New(feeds, resolver, images, embedder, time.Second)
	require.NoError(t, e.Capture(context.Background(), "ghost"))

	assert.Empty(t, resolver.ResolveCalls())
	assert.Empty(t, feeds.UpdateFailedCalls())
	assert.Empty(t, feeds.UpdateCapturedCalls())
}

func TestExecutor_CaptureFeedLookupError(t *testing.T) {
	// a transient store error is not a deleted feed, the failure has to be
	// recorded so the in-flight flag is released
	feeds, resolver, images, embedder := okDeps(makeFeed())
	feeds.GetFeedFunc = func(context.Context, string) (*domain.Feed, error) {
		return nil, errors.New("database is locked")
	}

	e := New(feeds, resolver, images, embedder, time.Second)
	require.NoError(t, e.Capture(context.Background(), "feed-1"))

	assert.Empty(t, resolver.ResolveCalls())
	require.Len(t, feeds.UpdateFailedCalls(), 1)
	assert.Equal(t, "feed-1", feeds.UpdateFailedCalls()[0].ID)
	assert.Empty(t, feeds.UpdateCapturedCalls())
}

func TestExecutor_CaptureDecodeFailure(t *testing.T) {
	feeds, resolver, images, embedder := okDeps(makeFeed())
	resolver.ResolveFunc = func(string) (capture.Decoder, error) {
		return &stubDecoder{name: "single_frame", decode: func(context.Context, string) (image.Image, error) {
			return nil, errors.New("connection refused")
		}}, nil
	}

	e := New(feeds, resolver, images, embedder, time.Second)
	require.NoError(t, e.Capture(context.Background(), "feed-1"))

	assert.Empty(t, images.SaveCalls())
	assert.Len(t, feeds.UpdateFailedCalls(), 1)
	assert.Empty(t, feeds.UpdateCapturedCalls())
}

func TestExecutor_CaptureUnknownDecoder(t *testing.T) {
	feeds, resolver, images, embedder := okDeps(makeFeed())
	resolver.ResolveFunc = func(string) (capture.Decoder, error) {
		return nil, capture.ErrAdapterNotFound
	}

	e := New(feeds, resolver, images, embedder, time.Second)
	require.NoError(t, e.Capture(context.Background(), "feed-1"))

	assert.Len(t, feeds.UpdateFailedCalls(), 1)
}

func TestExecutor_CaptureDeadline(t *testing.T) {
	feeds, resolver, images, embedder := okDeps(makeFeed())
	resolver.ResolveFunc = func(string) (capture.Decoder, error) {
		return &stubDecoder{name: "slow", decode: func(ctx context.Context, _ string) (image.Image, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}}, nil
	}

	e := New(feeds, resolver, images, embedder, 50*time.Millisecond)
	start := time.Now()
	require.NoError(t, e.Capture(context.Background(), "feed-1"))

	assert.Less(t, time.Since(start), time.Second)
	assert.Len(t, feeds.UpdateFailedCalls(), 1)
}

func TestExecutor_CaptureSaveFailure(t *testing.T) {
	feeds, resolver, images, embedder := okDeps(makeFeed())
	images.SaveFunc = func(string, image.Image, time.Time, func(string) error) (string, error) {
		return "", errors.New("disk full")
	}

	e := New(feeds, resolver, images, embedder, time.Second)
	require.NoError(t, e.Capture(context.Background(), "feed-1"))

	assert.Len(t, feeds.UpdateFailedCalls(), 1)
	assert.Empty(t, feeds.UpdateCapturedCalls())
}

func TestExecutor_CapturePruneFailureNonFatal(t *testing.T) {
	feeds, resolver, images, embedder := okDeps(makeFeed())
	images.PruneFunc = func(string, domain.DispatchMode, int, int) error {
		return errors.New("permission denied")
	}

	e := New(feeds, resolver, images, embedder, time.Second)
	require.NoError(t, e.Capture(context.Background(), "feed-1"))

	assert.Len(t, feeds.UpdateCapturedCalls(), 1)
	assert.Empty(t, feeds.UpdateFailedCalls())
}

func TestExecutor_CaptureUpdateCapturedError(t *testing.T) {
	feeds, resolver, images, embedder := okDeps(makeFeed())
	feeds.UpdateCapturedFunc = func(context.Context, string, time.Time) error {
		return errors.New("db locked")
	}

	e := New(feeds, resolver, images, embedder, time.Second)
	err := e.Capture(context.Background(), "feed-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record capture")
}
