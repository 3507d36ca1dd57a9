// Package rabbitmq carries catalog ingestion: the out-of-process
// seeding pipeline publishes product upsert/delete events to a durable
// queue, and the server consumes them to keep the read-only catalog
// current.
package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"

	"pasar/internal/models"
)

// IngestQueue is the durable queue carrying catalog ingestion events.
// ResultQueue carries one confirmation per processed event back to the
// seeding pipeline.
const (
	IngestQueue = "catalog_ingest"
	ResultQueue = "catalog_ingest_results"
)

// Event actions understood by the ingestion consumer.
const (
	ActionUpsert = "upsert"
	ActionDelete = "delete"
)

// Statuses reported on the result queue.
const (
	StatusApplied = "applied"
	StatusFailed  = "failed"
)

// IngestEvent is one catalog mutation delivered over the ingest queue.
// Delete events only need Product.ID populated.
type IngestEvent struct {
	Action  string         `json:"action"`
	Product models.Product `json:"product"`
}

// IngestResult confirms the outcome of one processed ingest event.
type IngestResult struct {
	Action    string `json:"action"`
	ProductID string `json:"product_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// ResultFor builds the confirmation for an event that was applied with
// the given outcome.
func ResultFor(event IngestEvent, err error) IngestResult {
	result := IngestResult{
		Action:    event.Action,
		ProductID: event.Product.ID,
		Status:    StatusApplied,
	}
	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
	}
	return result
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel, and declares the
// ingest queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() // Close connection if channel creation fails
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, queue := range []string{IngestQueue, ResultQueue} {
		_, err = ch.QueueDeclare(
			queue, // name
			true,  // durable (persists messages across broker restarts)
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare %s: %w", queue, err)
		}
	}

	log.Printf("RabbitMQ client connected, %s and %s declared.", IngestQueue, ResultQueue)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
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
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishIngestResult publishes a processed-event confirmation to the
// result queue as persistent JSON.
func (c *Client) PublishIngestResult(result IngestResult) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal ingest result to JSON: %w", err)
	}

	err = c.channel.Publish(
		"",          // exchange: default exchange
		ResultQueue, // routing key: the queue name
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})

	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Printf(" [x] Sent ingest result: %s", body)
	return nil
}

// ConsumeIngestEvents registers a consumer on the ingest queue and
// dispatches each delivery to the handler. Failed deliveries are
// nacked and requeued; successful ones are acked manually.
func (c *Client) ConsumeIngestEvents(messageHandler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := c.channel.QueueDeclare(
		IngestQueue, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name, // queue
		"",         // consumer tag
		false,      // auto-ack: manual acknowledgement
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf(" [*] Waiting for ingest events on %s", queue.Name)

	go func() {
		for msg := range msgs {
			if err := messageHandler(msg); err != nil {
				log.Printf("Error processing message %d: %v", msg.DeliveryTag, err)
				// Requeue on failure. Poison messages will loop; the
				// broker-side dead-letter policy is expected to catch them.
				if requeueErr := msg.Nack(false, true); requeueErr != nil {
					log.Printf("Error nacking message %d: %v", msg.DeliveryTag, requeueErr)
				}
			} else {
				if ackErr := msg.Ack(false); ackErr != nil {
					log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
				}
			}
		}
	}()

	return nil
}
