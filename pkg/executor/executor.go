// Package executor runs a single capture job end to end: resolve the feed's
// decoder, grab a frame under a deadline, crop, persist, embed metadata and
// record the outcome on the feed.
package executor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedalor/pkg/capture"
	"github.com/umputun/feedalor/pkg/domain"
	"github.com/umputun/feedalor/pkg/exif"
)

//go:generate moq -out mocks/feed_store.go -pkg mocks -skip-ensure -fmt goimports . FeedStore
//go:generate moq -out mocks/resolver.go -pkg mocks -skip-ensure -fmt goimports . Resolver
//go:generate moq -out mocks/image_store.go -pkg mocks -skip-ensure -fmt goimports . ImageStore
//go:generate moq -out mocks/embedder.go -pkg mocks -skip-ensure -fmt goimports . Embedder

// FeedStore is the feed persistence the executor needs
type FeedStore interface {
	GetFeed(ctx context.Context, id string) (*domain.Feed, error)
	UpdateCaptured(ctx context.Context, id string, capturedAt time.Time) error
	UpdateFailed(ctx context.Context, id string, failedAt time.Time) error
}

// Resolver maps decoder names to decoders
type Resolver interface {
	Resolve(name string) (capture.Decoder, error)
}

// ImageStore persists frames and applies retention
type ImageStore interface {
	Save(feedID string, img image.Image, now time.Time, embed func(path string) error) (string, error)
	Prune(feedID string, mode domain.DispatchMode, intervalSecs, historyLength int) error
}

// Embedder writes capture metadata into a stored frame
type Embedder interface {
	Embed(path string, meta exif.Meta) error
}

// Executor captures frames for feeds. One instance serves all workers.
type Executor struct {
	feeds    FeedStore
	resolver Resolver
	images   ImageStore
	embedder Embedder
	timeout  time.Duration
	now      func() time.Time // test hook
}

// New creates an Executor. Every decode runs under the given timeout.
func New(feeds FeedStore, resolver Resolver, images ImageStore, embedder Embedder, timeout time.Duration) *Executor {
	return &Executor{feeds: feeds, resolver: resolver, images: images, embedder: embedder, timeout: timeout, now: time.Now}
}

// Capture runs the full capture flow for one feed. A missing feed is logged
// and skipped without error, the feed may have been deleted while the job
// sat in the queue. Any other lookup, decode or persistence failure marks
// the feed failed and clears its in-flight flag, history stays untouched.
func (e *Executor) Capture(ctx context.Context, feedID string) error {
	feed, err := e.feeds.GetFeed(ctx, feedID)
	if err != nil {
		if errors.Is(err, domain.ErrFeedNotFound) {
			lgr.Printf("[WARN] capture skipped, feed %s not found: %v", feedID, err)
			return nil
		}
		// transient store errors must still release the in-flight flag,
		// otherwise the feed is never dispatched again
		lgr.Printf("[WARN] feed %s lookup failed: %v", feedID, err)
		return e.markFailed(ctx, feedID)
	}

	img, err := e.grabFrame(ctx, feed)
	if err != nil {
		lgr.Printf("[WARN] capture failed for feed %s (%s): %v", feed.ID, feed.Title, err)
		return e.markFailed(ctx, feed.ID)
	}

	now := e.now()
	historyPath, err := e.images.Save(feed.ID, img, now, func(path string) error {
		return e.embedder.Embed(path, exif.Meta{FeedID: feed.ID, Title: feed.Title, CapturedAt: now, GPS: feed.GPS})
	})
	if err != nil {
		lgr.Printf("[WARN] frame persistence failed for feed %s: %v", feed.ID, err)
		return e.markFailed(ctx, feed.ID)
	}

	if err := e.images.Prune(feed.ID, feed.DispatchMode, feed.IntervalSecs, feed.HistoryLength); err != nil {
		lgr.Printf("[WARN] retention pruning failed for feed %s: %v", feed.ID, err)
	}

	if err := e.feeds.UpdateCaptured(ctx, feed.ID, now); err != nil {
		return fmt.Errorf("record capture for feed %s: %w", feed.ID, err)
	}
	lgr.Printf("[INFO] captured frame for feed %s (%s): %s", feed.ID, feed.Title, historyPath)
	return nil
}

// grabFrame resolves the decoder and decodes one frame under the configured
// deadline, applying the feed's crop when set
func (e *Executor) grabFrame(ctx context.Context, feed *domain.Feed) (image.Image, error) {
	decoder, err := e.resolver.Resolve(feed.Decoder)
	if err != nil {
		if errors.Is(err, capture.ErrAdapterNotFound) {
			return nil, fmt.Errorf("decoder %q not registered: %w", feed.Decoder, err)
		}
		return nil, fmt.Errorf("resolve decoder %q: %w", feed.Decoder, err)
	}

	decodeCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	img, err := decoder.Decode(decodeCtx, feed.Source)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", feed.Source, err)
	}

	if feed.Crop != nil {
		rect := image.Rect(feed.Crop.X, feed.Crop.Y, feed.Crop.X+feed.Crop.Width, feed.Crop.Y+feed.Crop.Height)
		img = imaging.Crop(img, rect)
		if img.Bounds().Empty() {
			return nil, fmt.Errorf("crop %v leaves no pixels", rect)
		}
	}
	return img, nil
}

// markFailed records the failure and releases the in-flight flag. The next
// due cycle is the retry mechanism, there is no immediate retry.
func (e *Executor) markFailed(ctx context.Context, feedID string) error {
	if err := e.feeds.UpdateFailed(ctx, feedID, e.now()); err != nil {
		return fmt.Errorf("record failure for feed %s: %w", feedID, err)
	}
	return nil
}
