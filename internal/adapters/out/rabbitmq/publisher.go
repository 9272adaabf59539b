// Package rabbitmq announces confirmed order transitions on a topic exchange,
// so that other stations can refresh without waiting for their next poll.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "orders_topic"

var (
	_ ports.EventPublisher = (*Publisher)(nil)
	_ ports.EventPublisher = NoopPublisher{}

	ErrPublishNacked = errors.New("publish NACK from broker")
)

// confirmation is the broker's pending answer to one publish.
// *amqp.DeferredConfirmation implements it.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type publishChannel interface {
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)
}

// confirmChannel publishes on a channel in confirm mode. Each publish gets its
// own delivery tag, so a confirm that arrives after its caller gave up is never
// read by the next publish.
type confirmChannel struct {
	ch *amqp.Channel
}

func (c confirmChannel) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
	dc, err := c.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		// Channel not in confirm mode.
		return acked{}, nil
	}
	return dc, nil
}

type acked struct{}

func (acked) WaitContext(context.Context) (bool, error) {
	return true, nil
}

// Publisher publishes persistent JSON messages and waits for the broker's
// confirm of each one. Concurrent publishes wait on their own confirms.
type Publisher struct {
	conn     *amqp.Connection
	ch       publishChannel
	exchange string
	logger   *slog.Logger
}

// Dial connects to the broker at url and declares the durable topic exchange.
func Dial(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err = ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	if err = ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}

	p := newPublisher(confirmChannel{ch: ch}, exchange, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch publishChannel, exchange string, logger *slog.Logger) *Publisher {
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		logger:   logger.With("component", "RabbitMQPublisher"),
	}
}

// StatusChangedMessage is the wire form of order.StatusChanged.
type StatusChangedMessage struct {
	EventID    string    `json:"event_id"`
	Kind       string    `json:"kind"`
	OrderID    string    `json:"order_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func toMessage(e order.StatusChanged) StatusChangedMessage {
	return StatusChangedMessage{
		EventID:    e.EventID.String(),
		Kind:       e.Kind.String(),
		OrderID:    e.OrderID.String(),
		From:       e.From.String(),
		To:         e.To.String(),
		ActorID:    e.ActorID.String(),
		OccurredAt: e.OccurredAt.UTC(),
	}
}

// RoutingKey is orders.<kind>.<status>, e.g. orders.table.ready, so consumers
// can bind to a single board.
func RoutingKey(e order.StatusChanged) string {
	return strings.ToLower(fmt.Sprintf("orders.%s.%s", e.Kind, e.To))
}

func (p *Publisher) PublishStatusChanged(ctx context.Context, e order.StatusChanged) error {
	body, err := json.Marshal(toMessage(e))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	key := RoutingKey(e)
	confirm, err := p.ch.Publish(ctx, p.exchange, key, amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		MessageId:     e.EventID.String(),
		CorrelationId: e.OrderID.String(),
		Timestamp:     e.OccurredAt.UTC(),
		Body:          body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}

	ack, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("confirm %s: %w", key, err)
	}
	if !ack {
		return fmt.Errorf("%w: %s", ErrPublishNacked, key)
	}

	p.logger.DebugContext(ctx, "status change published", "routing_key", key, "event_id", e.EventID.String())
	return nil
}

func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishStatusChanged(context.Context, order.StatusChanged) error {
	return nil
}
