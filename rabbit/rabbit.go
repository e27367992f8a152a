// Package rabbit publishes exchange lifecycle events to a durable RabbitMQ
// queue. Publishing is best-effort telemetry: it happens after the database
// transaction commits and never blocks or fails a negotiation.
package rabbit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/streadway/amqp"
)

type RabbitClient struct {
	url        string
	queueName  string
	connection *amqp.Connection
	channel    *amqp.Channel
}

// Event types published on exchange transitions
const (
	EventExchangeCreated   = "exchange_created"
	EventExchangeAccepted  = "exchange_accepted"
	EventExchangeRejected  = "exchange_rejected"
	EventExchangeCancelled = "exchange_cancelled"
	EventExchangeCompleted = "exchange_completed"
	EventMessageSent       = "message_sent"
)

// ExchangeEventBag is the payload published for one lifecycle event
type ExchangeEventBag struct {
	EventType  string    `json:"event_type"`
	ExchangeID string    `json:"exchange_id"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Priority   uint8     `json:"-"` // 0..255
}

func NewRabbitClient(url string, queueName string) *RabbitClient {
	log.Printf("[RABBIT] Creating new RabbitMQ client for queue: %s", queueName)

	client := &RabbitClient{
		url:       url,
		queueName: queueName,
	}

	if err := client.connect(); err != nil {
		log.Printf("[RABBIT] Initial connection failed: %v. Will retry on publish...", err)
	}

	return client
}

func (c *RabbitClient) connect() error {
	log.Printf("[RABBIT] Connecting to RabbitMQ at %s", c.url)

	// Close existing connection if any
	if c.connection != nil && !c.connection.IsClosed() {
		c.connection.Close()
	}
	if c.channel != nil {
		c.channel.Close()
	}

	conn, err := amqp.Dial(c.url)
	if err != nil {
		return err
	}
	c.connection = conn

	ch, err := c.connection.Channel()
	if err != nil {
		c.connection.Close()
		return err
	}
	c.channel = ch

	// Declare queue with priority support
	args := amqp.Table{
		"x-max-priority": int32(10),
	}

	_, err = c.channel.QueueDeclare(
		c.queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		args,
	)
	if err != nil {
		c.channel.Close()
		c.connection.Close()
		return err
	}

	log.Printf("[RABBIT] Connected, queue %s declared", c.queueName)
	return nil
}

// PublishExchangeEvent queues one lifecycle event, reconnecting once if the
// connection was lost
func (c *RabbitClient) PublishExchangeEvent(bag ExchangeEventBag) error {
	if bag.OccurredAt.IsZero() {
		bag.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(bag)
	if err != nil {
		log.Printf("[RABBIT] Error marshalling event: %v", err)
		return err
	}

	publish := func() error {
		if c.channel == nil {
			return amqp.ErrClosed
		}
		return c.channel.Publish(
			"",          // exchange
			c.queueName, // routing key
			false,       // mandatory
			false,       // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Priority:     bag.Priority,
				Body:         body,
			},
		)
	}

	if err := publish(); err != nil {
		log.Printf("[RABBIT] Publish failed (%v), reconnecting...", err)
		if err := c.connect(); err != nil {
			log.Printf("[RABBIT] Reconnect failed: %v", err)
			return err
		}
		if err := publish(); err != nil {
			log.Printf("[RABBIT] Publish failed after reconnect: %v", err)
			return err
		}
	}

	log.Printf("[RABBIT] Published %s for exchange %s", bag.EventType, bag.ExchangeID)
	return nil
}

// Close shuts the channel and connection down
func (c *RabbitClient) Close() {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.connection != nil && !c.connection.IsClosed() {
		c.connection.Close()
	}
	log.Printf("[RABBIT] Client for queue %s closed", c.queueName)
}
