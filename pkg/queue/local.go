package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"
)

// Local is the in-process queue for single-binary deployments, a buffered
// channel drained by a worker pool.
type Local struct {
	runner  Runner
	workers int
	jobs    chan Job

	mu     sync.RWMutex // guards closed and the channel close, held across sends
	closed bool
}

// NewLocal creates a local queue with the given worker count and buffer
func NewLocal(runner Runner, workers, buffer int) *Local {
	if workers < 1 {
		workers = 1
	}
	if buffer < 1 {
		buffer = 100
	}
	return &Local{runner: runner, workers: workers, jobs: make(chan Job, buffer)}
}

// Enqueue submits a capture job. Blocks while the buffer is full, fails when
// the queue is closed or the context is done.
func (l *Local) Enqueue(ctx context.Context, feedID string) error {
	// the read lock spans the send so Close can't close the channel under a
	// live sender
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return fmt.Errorf("queue closed, can't enqueue feed %s", feedID)
	}

	select {
	case l.jobs <- Job{FeedID: feedID, EnqueuedAt: time.Now()}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("enqueue feed %s: %w", feedID, ctx.Err())
	}
}

// Run starts the worker pool and blocks until the context is canceled or the
// queue is closed and drained. A failed capture is logged, the next due cycle
// retries it.
func (l *Local) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < l.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case job, ok := <-l.jobs:
					if !ok {
						return nil
					}
					if err := l.runner.Capture(ctx, job.FeedID); err != nil {
						lgr.Printf("[WARN] capture job failed for feed %s: %v", job.FeedID, err)
					}
				}
			}
		})
	}
	return g.Wait()
}

// Close stops accepting jobs and lets the workers drain what is buffered.
// Waits for in-flight Enqueue calls to return before closing the channel,
// a blocked sender gets out via its context.
func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	close(l.jobs)
	return nil
}
