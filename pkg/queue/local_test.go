package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedalor/pkg/queue/mocks"
)

func TestLocal_ProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]int{}
	done := make(chan struct{}, 10)

	runner := &mocks.RunnerMock{CaptureFunc: func(_ context.Context, feedID string) error {
		mu.Lock()
		seen[feedID]++
		mu.Unlock()
		done <- struct{}{}
		return nil
	}}

	q := NewLocal(runner, 3, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runDone := make(chan error, 1)
	go func() { runDone <- q.Run(ctx) }()

	require.NoError(t, q.Enqueue(ctx, "feed-1"))
	require.NoError(t, q.Enqueue(ctx, "feed-2"))
	require.NoError(t, q.Enqueue(ctx, "feed-1"))

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}

	mu.Lock()
	assert.Equal(t, 2, seen["feed-1"])
	assert.Equal(t, 1, seen["feed-2"])
	mu.Unlock()

	require.NoError(t, q.Close())
	select {
	case err := <-runDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop after close")
	}
}

func TestLocal_CaptureFailureDoesNotStopWorkers(t *testing.T) {
	done := make(chan string, 10)
	runner := &mocks.RunnerMock{CaptureFunc: func(_ context.Context, feedID string) error {
		done <- feedID
		if feedID == "bad" {
			return errors.New("decode failed")
		}
		return nil
	}}

	q := NewLocal(runner, 1, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = q.Run(ctx) }()

	require.NoError(t, q.Enqueue(ctx, "bad"))
	require.NoError(t, q.Enqueue(ctx, "good"))

	assert.Equal(t, "bad", <-done)
	assert.Equal(t, "good", <-done)
}

func TestLocal_EnqueueAfterClose(t *testing.T) {
	runner := &mocks.RunnerMock{CaptureFunc: func(context.Context, string) error { return nil }}
	q := NewLocal(runner, 1, 10)

	require.NoError(t, q.Close())
	require.NoError(t, q.Close()) // second close is a no-op

	err := q.Enqueue(context.Background(), "feed-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestLocal_EnqueueCanceledContext(t *testing.T) {
	runner := &mocks.RunnerMock{CaptureFunc: func(context.Context, string) error { return nil }}
	q := NewLocal(runner, 1, 1) // tiny buffer, nobody draining

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, q.Enqueue(ctx, "fills-the-buffer"))

	cancel()
	err := q.Enqueue(ctx, "feed-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocal_CloseDuringBlockedEnqueue(t *testing.T) {
	runner := &mocks.RunnerMock{CaptureFunc: func(context.Context, string) error { return nil }}
	q := NewLocal(runner, 1, 1) // nobody draining, second enqueue blocks

	require.NoError(t, q.Enqueue(context.Background(), "fills-the-buffer"))

	ctx, cancel := context.WithCancel(context.Background())
	enqDone := make(chan error, 1)
	go func() { enqDone <- q.Enqueue(ctx, "feed-1") }()

	closeDone := make(chan error, 1)
	go func() { closeDone <- q.Close() }()

	time.Sleep(50 * time.Millisecond) // let both the sender and close block
	cancel()

	select {
	case err := <-enqDone:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("blocked enqueue did not return")
	}

	select {
	case err := <-closeDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("close did not return")
	}

	err := q.Enqueue(context.Background(), "feed-2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestLocal_RunStopsOnContextCancel(t *testing.T) {
	runner := &mocks.RunnerMock{CaptureFunc: func(context.Context, string) error { return nil }}
	q := NewLocal(runner, 2, 10)

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- q.Run(ctx) }()

	cancel()
	select {
	case err := <-runDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop on cancel")
	}
}

func TestJob_JSON(t *testing.T) {
	job := Job{FeedID: "feed-1", EnqueuedAt: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)}
	data, err := json.Marshal(job)
	require.NoError(t, err)
	assert.JSONEq(t, `{"feed_id":"feed-1","enqueued_at":"2025-04-01T12:00:00Z"}`, string(data))
}
