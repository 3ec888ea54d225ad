package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	amqp "github.com/streadway/amqp"
)

// DefaultQueue is the queue user events are published to.
const DefaultQueue = "user_events"

// EventType names a user lifecycle event.
type EventType string

const (
	UserCreated EventType = "user.created"
)

// UserEvent is the JSON body of a user event message.
type UserEvent struct {
	Type       EventType `json:"type"`
	UserIdx    int64     `json:"userIdx"`
	Email      string    `json:"email"`
	Nickname   string    `json:"nickname"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Channel is the subset of *amqp.Channel the client uses.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel Channel
	queue   string
	logger  zerolog.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL    string
	Queue  string // defaults to DefaultQueue
	Logger zerolog.Logger
}

// NewClient connects to RabbitMQ, opens a channel and declares the queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	client, err := newClient(ch, cfg.Queue, cfg.Logger)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	client.conn = conn
	return client, nil
}

func newClient(ch Channel, queue string, logger zerolog.Logger) (*Client, error) {
	if queue == "" {
		queue = DefaultQueue
	}
	if _, err := declare(ch, queue); err != nil {
		return nil, err
	}
	return &Client{channel: ch, queue: queue, logger: logger}, nil
}

func declare(ch Channel, queue string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare %s: %w", queue, err)
	}
	return q, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishUserEvent publishes event as a persistent JSON message.
func (c *Client) PublishUserEvent(event UserEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal user event: %w", err)
	}

	err = c.channel.Publish(
		"",      // default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         string(event.Type),
			MessageId:    uuid.NewString(),
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// ConsumeUserEvents starts a goroutine that hands every delivery to handler.
// Deliveries are acked when handler returns nil and requeued otherwise.
// Ack and nack failures are logged.
func (c *Client) ConsumeUserEvents(handler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := declare(c.channel, c.queue)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := handler(msg); err != nil {
				c.logger.Warn().Err(err).Str("messageId", msg.MessageId).Msg("requeueing user event")
				if nackErr := msg.Nack(false, true); nackErr != nil {
					c.logger.Error().Err(nackErr).Str("messageId", msg.MessageId).Msg("failed to nack user event")
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				c.logger.Error().Err(ackErr).Str("messageId", msg.MessageId).Msg("failed to ack user event")
			}
		}
	}()

	return nil
}

// DecodeUserEvent parses the body of a user event delivery.
func DecodeUserEvent(msg amqp.Delivery) (UserEvent, error) {
	var event UserEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return UserEvent{}, fmt.Errorf("failed to decode user event %s: %w", msg.MessageId, err)
	}
	return event, nil
}
