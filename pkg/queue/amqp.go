package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQP publishes and consumes capture jobs through a durable RabbitMQ queue.
// Delivery is at-least-once, the feed's in-flight flag is the dedupe.
// Reconnects are left to process supervision, a lost connection ends Consume.
type AMQP struct {
	name     string
	prefetch int
	runner   Runner
	conn     *amqp.Connection
	ch       *amqp.Channel
}

// NewAMQP connects to the broker and declares the durable job queue. The
// runner may be nil for publisher-only use, Run then refuses to start.
func NewAMQP(url, name string, prefetch int, runner Runner) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", name, err)
	}

	if prefetch < 1 {
		prefetch = 1
	}
	return &AMQP{name: name, prefetch: prefetch, runner: runner, conn: conn, ch: ch}, nil
}

// Enqueue publishes a persistent job message
func (a *AMQP) Enqueue(ctx context.Context, feedID string) error {
	body, err := json.Marshal(Job{FeedID: feedID, EnqueuedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("marshal job for feed %s: %w", feedID, err)
	}

	err = a.ch.PublishWithContext(ctx, "", a.name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish job for feed %s: %w", feedID, err)
	}
	return nil
}

// Run consumes jobs and feeds them to the runner until the context is
// canceled or the broker drops the channel. Messages are acked even when the
// capture fails, the next due cycle is the retry mechanism.
func (a *AMQP) Run(ctx context.Context) error {
	if a.runner == nil {
		return fmt.Errorf("no runner attached to queue %s", a.name)
	}

	if err := a.ch.Qos(a.prefetch, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	deliveries, err := a.ch.Consume(a.name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume queue %s: %w", a.name, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("queue %s channel closed by broker", a.name)
			}
			a.handle(ctx, d)
		}
	}
}

// Close shuts the channel and connection down
func (a *AMQP) Close() error {
	if err := a.ch.Close(); err != nil {
		_ = a.conn.Close()
		return fmt.Errorf("close channel: %w", err)
	}
	if err := a.conn.Close(); err != nil {
		return fmt.Errorf("close connection: %w", err)
	}
	return nil
}

func (a *AMQP) handle(ctx context.Context, d amqp.Delivery) {
	var job Job
	if err := json.Unmarshal(d.Body, &job); err != nil {
		lgr.Printf("[WARN] dropping malformed job message: %v", err)
		_ = d.Ack(false)
		return
	}

	if err := a.runner.Capture(ctx, job.FeedID); err != nil {
		lgr.Printf("[WARN] capture job failed for feed %s: %v", job.FeedID, err)
	}
	if err := d.Ack(false); err != nil {
		lgr.Printf("[WARN] ack failed for feed %s: %v", job.FeedID, err)
	}
}
