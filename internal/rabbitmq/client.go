package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/GoArmGo/MovieCatalog/internal/config"
	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
	"github.com/GoArmGo/MovieCatalog/internal/messaging/payloads"
)

// Client publishes and consumes image cleanup jobs on a durable queue.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

var (
	_ ports.ImageCleanupPublisher = (*Client)(nil)
	_ ports.ImageCleanupConsumer  = (*Client)(nil)
)

// NewClient connects to RabbitMQ and declares the cleanup queue.
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg.RabbitMQ.RabbitMQURL == "" {
		return nil, errors.New("RABBITMQ_URL is not set")
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName, // name
		true,                           // durable
		false,                          // delete when unused
		false,                          // exclusive
		false,                          // no-wait
		nil,                            // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %q: %w", cfg.RabbitMQ.RabbitMQQueueName, err)
	}

	logger.Info("RabbitMQ queue declared", "queue", q.Name, "messages", q.Messages)
	return &Client{conn: conn, channel: ch, queue: q, logger: logger}, nil
}

// Close closes the channel and the connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		errs = append(errs, c.channel.Close())
	}
	if c.conn != nil {
		errs = append(errs, c.conn.Close())
	}
	if err := errors.Join(errs...); err != nil {
		c.logger.Error("failed to close RabbitMQ client", "error", err)
		return err
	}
	c.logger.Info("RabbitMQ connection closed")
	return nil
}

// PublishImageCleanup enqueues a persistent cleanup job.
func (c *Client) PublishImageCleanup(ctx context.Context, payload payloads.ImageCleanupPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal cleanup payload: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish cleanup job: %w", err)
	}

	c.logger.Info("image cleanup scheduled",
		"queue", c.queue.Name,
		"public_id", payload.PublicID,
		"reason", payload.Reason,
	)
	return nil
}

// ErrDeliveryClosed is reported when the broker closes the delivery channel.
var ErrDeliveryClosed = errors.New("RabbitMQ delivery channel closed")

// StartConsumingImageCleanups registers a consumer and hands every job to
// handler. Undecodable jobs are dropped; failed jobs go back to the queue.
// The returned channel yields ErrDeliveryClosed if the broker stops delivering
// and is closed once the consumer exits.
func (c *Client) StartConsumingImageCleanups(ctx context.Context, handler func(context.Context, payloads.ImageCleanupPayload) error) (<-chan error, error) {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("set prefetch: %w", err)
	}

	msgs, err := c.channel.Consume(
		c.queue.Name, // queue
		"",           // consumer
		false,        // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return nil, fmt.Errorf("register consumer: %w", err)
	}

	c.logger.Info("consumer registered", "queue", c.queue.Name)

	stopped := make(chan error, 1)
	go func() {
		defer close(stopped)
		if err := c.consume(ctx, msgs, handler); err != nil {
			stopped <- err
		}
	}()

	return stopped, nil
}

// consume drains msgs until ctx ends or the channel closes.
func (c *Client) consume(ctx context.Context, msgs <-chan amqp.Delivery, handler func(context.Context, payloads.ImageCleanupPayload) error) error {
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				c.logger.Warn("RabbitMQ delivery channel closed, stopping consumer")
				return ErrDeliveryClosed
			}
			c.handleDelivery(ctx, msg, handler)
		case <-ctx.Done():
			c.logger.Info("context cancelled, stopping RabbitMQ consumer")
			return nil
		}
	}
}

func (c *Client) handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(context.Context, payloads.ImageCleanupPayload) error) {
	payload, err := decodePayload(msg.Body)
	if err != nil {
		c.logger.Error("dropping undecodable cleanup job", "error", err, "body", string(msg.Body))
		if err := msg.Nack(false, false); err != nil {
			c.logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := handler(ctx, payload); err != nil {
		c.logger.Error("cleanup job failed, requeueing", "public_id", payload.PublicID, "error", err)
		if err := msg.Nack(false, true); err != nil {
			c.logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		c.logger.Error("failed to ack message", "error", err)
	}
}

// decodePayload rejects bodies that are not JSON or carry no object key.
func decodePayload(body []byte) (payloads.ImageCleanupPayload, error) {
	var payload payloads.ImageCleanupPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, fmt.Errorf("unmarshal cleanup payload: %w", err)
	}
	if payload.PublicID == "" {
		return payload, errors.New("cleanup payload has no public_id")
	}
	return payload, nil
}
