package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/learning-hub/internal/logger"
	"github.com/iliyamo/learning-hub/internal/metrics"
)

// ErrBufferFull is returned by Publish when the delivery buffer has no room.
var ErrBufferFull = errors.New("event buffer full")

// Publisher sends events to a durable queue on the default exchange.
// Publish only enqueues; Run owns the broker connection and delivers in the
// background, so a slow or unreachable broker never delays a request.  The
// connection is dialed on first use and re-dialed after a failure.
type Publisher struct {
	url    string
	queue  string
	events chan Event

	// conn and ch belong to the Run goroutine.
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher returns a publisher for queue at url holding up to buffer
// undelivered events.  It does not dial; start Run to deliver.
func NewPublisher(url, queue string, buffer int) *Publisher {
	if buffer < 1 {
		buffer = 1
	}
	return &Publisher{url: url, queue: queue, events: make(chan Event, buffer)}
}

// Publish queues ev for delivery without blocking.
func (p *Publisher) Publish(_ context.Context, ev Event) error {
	select {
	case p.events <- ev:
		return nil
	default:
		return fmt.Errorf("event %s: %w", ev.ID, ErrBufferFull)
	}
}

// Run delivers queued events until ctx is done, then flushes whatever is
// still buffered with a short deadline and closes the connection.
func (p *Publisher) Run(ctx context.Context) {
	defer p.reset()
	for {
		select {
		case <-ctx.Done():
			p.flush()
			return
		case ev := <-p.events:
			p.send(ctx, ev)
		}
	}
}

func (p *Publisher) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case ev := <-p.events:
			p.send(ctx, ev)
		default:
			return
		}
	}
}

func (p *Publisher) send(ctx context.Context, ev Event) {
	if err := p.deliver(ctx, ev); err != nil {
		metrics.PublishFailures.Inc()
		logger.Warn("event delivery failed", "event_id", ev.ID, "error", err)
	}
}

// deliver sends ev as a persistent JSON message whose MessageId is ev.ID.
func (p *Publisher) deliver(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	ch, err := p.channel()
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         ev.Entity + "." + string(ev.Action),
		Timestamp:    ev.OccurredAt,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.reset()
		return fmt.Errorf("publish %s: %w", ev.ID, err)
	}
	return nil
}

// channel returns an open channel, dialing when needed.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", p.queue, err)
	}
	p.conn, p.ch = conn, ch
	logger.Info("event publisher connected", "queue", p.queue)
	return ch, nil
}

func (p *Publisher) reset() {
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}
