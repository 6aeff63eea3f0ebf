// Package queue moves capture jobs from the dispatcher to the workers,
// either in-process or through RabbitMQ.
package queue

import (
	"context"
	"time"
)

//go:generate moq -out mocks/runner.go -pkg mocks -skip-ensure -fmt goimports . Runner

// Job is the capture job payload
type Job struct {
	FeedID     string    `json:"feed_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Runner executes one capture job
type Runner interface {
	Capture(ctx context.Context, feedID string) error
}
