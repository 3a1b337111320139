package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one message body.  A returned error rejects the
// delivery without requeueing it.
type Handler func(body []byte) error

// Consumer drains the booking.confirmed queue.  It reconnects with
// exponential backoff (capped at 30s) until its context is cancelled.
type Consumer struct {
	url      string
	handle   Handler
	logger   *slog.Logger
	prefetch int
}

// NewConsumer builds a consumer for the broker at url.
func NewConsumer(url string, handle Handler, logger *slog.Logger) *Consumer {
	return &Consumer{url: url, handle: handle, logger: logger, prefetch: 50}
}

// Run consumes until ctx is cancelled and then returns ctx.Err().
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.Warn("booking consumer: dial failed", "error", err, "retry_in", backoff)
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("booking consumer: consume loop ended, reconnecting", "error", err)
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		c.logger.Warn("booking consumer: set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(BookingQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, BookingQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.logger.Info("booking consumer: listening", "queue", BookingQueueName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.deliver(d)
		}
	}
}

// acknowledger is the subset of amqp.Delivery used to settle a message.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Consumer) deliver(d amqp.Delivery) {
	c.settle(d, d.Body)
}

func (c *Consumer) settle(ack acknowledger, body []byte) {
	if err := c.handle(body); err != nil {
		c.logger.Error("booking consumer: handle message failed", "error", err)
		_ = ack.Nack(false, false) // reject, do not requeue to avoid tight loops
		return
	}
	_ = ack.Ack(false)
}

// sleepCtx waits for d or until ctx is done; it reports whether the full
// duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
