package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Envelope is the message body published for each event.
type Envelope struct {
	Type        domain.EventType `json:"type"`
	AggregateID uuid.UUID        `json:"aggregateId"`
	OccurredAt  time.Time        `json:"occurredAt"`
	Payload     json.RawMessage  `json:"payload"`
}

func NewEnvelope(e domain.Event) (Envelope, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode %s payload: %w", e.EventType(), err)
	}
	return Envelope{
		Type:        e.EventType(),
		AggregateID: e.AggregateID(),
		OccurredAt:  e.OccurredAt(),
		Payload:     payload,
	}, nil
}

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher forwards domain events to a topic exchange. The routing key
// is the event type.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Handle publishes e. It is registered on the bus with SubscribeAll.
func (p *AMQPPublisher) Handle(ctx context.Context, e domain.Event) error {
	env, err := NewEnvelope(e)
	if err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}

	return p.ch.PublishWithContext(ctx,
		p.exchange,
		string(e.EventType()),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Type:         string(e.EventType()),
			Timestamp:    e.OccurredAt(),
			Body:         body,
		},
	)
}

func (p *AMQPPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
