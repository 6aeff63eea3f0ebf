// Package scheduler decides when feeds are due for a capture and hands the
// jobs to the queue, at most one in flight per feed.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedalor/pkg/domain"
)

//go:generate moq -out mocks/feed_store.go -pkg mocks -skip-ensure -fmt goimports . FeedStore
//go:generate moq -out mocks/queue.go -pkg mocks -skip-ensure -fmt goimports . Queue

// ErrInFlight reports a capture request for a feed that already has one
// pending
var ErrInFlight = errors.New("capture already in flight")

// FeedStore is the feed persistence the dispatcher needs
type FeedStore interface {
	GetFeed(ctx context.Context, id string) (*domain.Feed, error)
	GetFeeds(ctx context.Context) ([]*domain.Feed, error)
	SetInFlight(ctx context.Context, id string, inFlight bool) error
}

// Queue accepts capture jobs
type Queue interface {
	Enqueue(ctx context.Context, feedID string) error
}

// Config holds dispatcher configuration
type Config struct {
	PollInterval time.Duration
	WiggleWindow time.Duration
}

// Scheduler runs the dispatch loop
type Scheduler struct {
	feeds        FeedStore
	queue        Queue
	pollInterval time.Duration
	wiggle       time.Duration
	wg           sync.WaitGroup
	cancel       context.CancelFunc
	now          func() time.Time // test hook
}

// NewScheduler creates a scheduler instance
func NewScheduler(feeds FeedStore, queue Queue, cfg Config) *Scheduler {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.WiggleWindow == 0 {
		cfg.WiggleWindow = 30 * time.Second
	}
	return &Scheduler{
		feeds:        feeds,
		queue:        queue,
		pollInterval: cfg.PollInterval,
		wiggle:       cfg.WiggleWindow,
		now:          time.Now,
	}
}

// Start begins the dispatch loop
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.dispatchLoop(ctx)

	lgr.Printf("[INFO] scheduler started, poll interval %v, wiggle window %v", s.pollInterval, s.wiggle)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// CaptureNow dispatches a feed immediately, bypassing due-ness but not the
// in-flight guard
func (s *Scheduler) CaptureNow(ctx context.Context, feedID string) error {
	feed, err := s.feeds.GetFeed(ctx, feedID)
	if err != nil {
		return fmt.Errorf("get feed: %w", err)
	}
	if feed.InFlight {
		return ErrInFlight
	}
	return s.dispatch(ctx, feed.ID)
}

// dispatchLoop runs a dispatch pass on every tick, plus one immediately on
// start
func (s *Scheduler) dispatchLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.dispatchPass(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.dispatchPass(ctx)
		}
	}
}

// dispatchPass evaluates all feeds once. A store error aborts the pass, the
// next tick retries.
func (s *Scheduler) dispatchPass(ctx context.Context) {
	feeds, err := s.feeds.GetFeeds(ctx)
	if err != nil {
		lgr.Printf("[ERROR] dispatch pass aborted, can't list feeds: %v", err)
		return
	}

	now := s.now()
	for _, f := range feeds {
		if f.InFlight {
			continue
		}
		if !s.due(f, now) {
			continue
		}
		if err := s.dispatch(ctx, f.ID); err != nil {
			lgr.Printf("[WARN] dispatch failed for feed %s: %v", f.ID, err)
		}
	}
}

// dispatch marks the feed in flight and enqueues the job. The flag is
// persisted before the enqueue, a failed enqueue rolls it back so the feed
// isn't stranded.
func (s *Scheduler) dispatch(ctx context.Context, feedID string) error {
	if err := s.feeds.SetInFlight(ctx, feedID, true); err != nil {
		return fmt.Errorf("mark feed %s in flight: %w", feedID, err)
	}

	if err := s.queue.Enqueue(ctx, feedID); err != nil {
		if rbErr := s.feeds.SetInFlight(ctx, feedID, false); rbErr != nil {
			lgr.Printf("[ERROR] feed %s stranded in flight after enqueue failure: %v", feedID, rbErr)
		}
		return fmt.Errorf("enqueue feed %s: %w", feedID, err)
	}

	lgr.Printf("[DEBUG] dispatched capture for feed %s", feedID)
	return nil
}

// due reports whether the feed wants a capture at the given time
func (s *Scheduler) due(f *domain.Feed, now time.Time) bool {
	switch f.DispatchMode {
	case domain.DispatchInterval:
		if f.IntervalSecs <= 0 {
			return false
		}
		if f.LastCaptureAt == nil {
			return true
		}
		return !now.Before(f.LastCaptureAt.Add(time.Duration(f.IntervalSecs) * time.Second))
	case domain.DispatchSchedule:
		return s.scheduleDue(f, now)
	default:
		return false
	}
}

// scheduleDue checks the feed's capture times against the wiggle window. A
// trigger fires when now is within the window and the last capture isn't,
// so one trigger can't fire twice in a row. Malformed triggers are logged
// and skipped, the rest still get evaluated.
func (s *Scheduler) scheduleDue(f *domain.Feed, now time.Time) bool {
	for _, trigger := range f.CaptureTimes {
		parsed, err := time.ParseInLocation("15:04:05", trigger, now.Location())
		if err != nil {
			lgr.Printf("[WARN] malformed capture time %q for feed %s: %v", trigger, f.ID, err)
			continue
		}

		target := time.Date(now.Year(), now.Month(), now.Day(),
			parsed.Hour(), parsed.Minute(), parsed.Second(), 0, now.Location())
		if absDuration(now.Sub(target)) > s.wiggle {
			continue
		}
		if f.LastCaptureAt != nil && absDuration(f.LastCaptureAt.Sub(target)) <= s.wiggle {
			continue // this trigger already fired
		}
		return true
	}
	return false
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
