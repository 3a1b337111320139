package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/cinebook/internal/queue"
)

// EventPublisher delivers domain events to downstream consumers.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// NopPublisher drops every event.  It is used when EVENTS_ENABLED is off.
type NopPublisher struct{}

func (NopPublisher) PublishBookingConfirmed(context.Context, queue.BookingConfirmedEvent) error {
	return nil
}

// Broker dial limits for the publisher.  Publishing happens on the booking
// request path, so a dead broker must fail fast.
const (
	publishDialTimeout = 2 * time.Second
	publishRetryDelay  = 5 * time.Second
)

// errBrokerBackoff is returned while the publisher waits out a failed dial.
var errBrokerBackoff = errors.New("broker unavailable, retry pending")

// AMQPPublisher publishes booking.confirmed events to RabbitMQ.  The
// connection is opened lazily and reused; after any failure it is dropped
// and the next publish dials again.  A failed dial makes publishes fail
// immediately for publishRetryDelay instead of queueing behind new dials.
// Messages are persistent and go through the default exchange with the
// queue name as routing key.
type AMQPPublisher struct {
	url  string
	dial func(url string) (*amqp.Connection, error)
	now  func() time.Time

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	nextDial time.Time
}

// NewAMQPPublisher returns a publisher for the broker at url.  It does not
// connect until the first publish.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url, dial: dialBroker, now: time.Now}
}

func dialBroker(url string) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(publishDialTimeout),
	})
}

func (p *AMQPPublisher) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channelLocked()
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		MessageId:    ev.BookingID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.BookingQueueName, false, false, pub); err != nil {
		p.resetLocked()
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close releases the broker connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	return nil
}

func (p *AMQPPublisher) channelLocked() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.resetLocked()

	if p.now().Before(p.nextDial) {
		return nil, errBrokerBackoff
	}
	conn, err := p.dial(p.url)
	if err != nil {
		p.nextDial = p.now().Add(publishRetryDelay)
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue.BookingQueueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
