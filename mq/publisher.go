package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anjiri1684/talent_booking/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher forwards committed change events to a topic exchange so every API
// instance sees them, not only the one whose relay read the outbox.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
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
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// RoutingKey is "<table>.<type>", e.g. "bookings.update".
func RoutingKey(ev models.ChangeEvent) string {
	return ev.Table + "." + strings.ToLower(ev.Type)
}

func (p *Publisher) Publish(ctx context.Context, ev models.ChangeEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(ev), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    fmt.Sprintf("%d", ev.Seq),
		Body:         b,
	})
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
