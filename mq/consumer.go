package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anjiri1684/talent_booking/logger"
	"github.com/anjiri1684/talent_booking/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler receives each decoded change event; realtime.Hub.Publish fits.
type Handler func(ctx context.Context, ev models.ChangeEvent) error

// Consumer binds a private, auto-deleted queue to every key of the exchange and
// feeds deliveries to the local hub.
type Consumer struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	queue    string
	log      logger.Logger
}

func NewConsumer(url, exchange string, prefetch int, log logger.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "#", exchange, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}
	if prefetch <= 0 {
		prefetch = 64
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}
	return &Consumer{conn: conn, ch: ch, exchange: exchange, queue: q.Name, log: log}, nil
}

func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("rabbitmq delivery channel closed")
			}
			c.handleDelivery(ctx, d, handle)
		}
	}
}

// handleDelivery acks undecodable messages so they are not redelivered forever;
// handler failures are requeued once.
func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery, handle Handler) {
	var ev models.ChangeEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		c.log.WithFields(map[string]interface{}{
			"routing_key": d.RoutingKey,
			"error":       err.Error(),
		}).Warn("Dropping undecodable change event")
		_ = d.Ack(false)
		return
	}
	if err := handle(ctx, ev); err != nil {
		c.log.WithFields(map[string]interface{}{
			"routing_key": d.RoutingKey,
			"seq":         ev.Seq,
			"error":       err.Error(),
		}).Error("Failed to handle change event")
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
}

func (c *Consumer) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
