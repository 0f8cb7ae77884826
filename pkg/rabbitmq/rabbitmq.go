package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	amqp "github.com/streadway/amqp"
)

// DefaultExchange is the topic exchange student events are published to.
const DefaultExchange = "students"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	mu       sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
}

// Event is the JSON body of every published message.
type Event struct {
	Event      string      `json:"event"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// NewClient creates a new RabbitMQ client.
// It connects to RabbitMQ and declares the durable topic exchange.
func NewClient(cfg Config) (*Client, error) {
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	log.Info().Str("exchange", exchange).Msg("RabbitMQ client connected")

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
		c.channel = nil
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
		c.conn = nil
	}
	return errors.Join(errs...)
}

// PublishStudentEvent publishes payload under the routing key event.
func (c *Client) PublishStudentEvent(event string, payload interface{}) error {
	msg, err := newMessage(event, payload, time.Now())
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	err = c.channel.Publish(
		c.exchange, // exchange
		event,      // routing key
		false,      // mandatory
		false,      // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event, err)
	}

	log.Debug().Str("event", event).Msg("published student event")
	return nil
}

func newMessage(event string, payload interface{}, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(Event{Event: event, OccurredAt: now.UTC(), Data: payload})
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal %s event: %w", event, err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		Type:         event,
		Body:         body,
	}, nil
}
